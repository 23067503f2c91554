package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/gridops/utility_ledger_app/internal/apperrors"
	"github.com/gridops/utility_ledger_app/internal/core/domain"
	portssvc "github.com/gridops/utility_ledger_app/internal/core/ports/services"
	"github.com/gridops/utility_ledger_app/internal/core/services"
	"github.com/gridops/utility_ledger_app/internal/dto"
)

type CurrencyServiceTestSuite struct {
	suite.Suite
	mockCurrencyRepo *MockCurrencyRepository
	service          portssvc.CurrencySvcFacade
	userID           string
}

func (suite *CurrencyServiceTestSuite) SetupTest() {
	suite.mockCurrencyRepo = new(MockCurrencyRepository)
	suite.service = services.NewCurrencyService(suite.mockCurrencyRepo)

	suite.userID = uuid.NewString()
}

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_UppercasesCode() {
	ctx := context.Background()
	req := dto.CreateCurrencyRequest{CurrencyCode: "egp", Symbol: "E£", Name: "Egyptian Pound", Precision: 2}

	suite.mockCurrencyRepo.On("SaveCurrency", ctx, mock.AnythingOfType("domain.Currency")).
		Run(func(args mock.Arguments) {
			currency := args.Get(1).(domain.Currency)
			suite.Equal("EGP", currency.CurrencyCode)
			suite.Equal(2, currency.Precision)
		}).
		Return(nil).Once()

	currency, err := suite.service.CreateCurrency(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("EGP", currency.CurrencyCode)
	suite.Equal(suite.userID, currency.CreatedBy)
	suite.mockCurrencyRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_Duplicate() {
	ctx := context.Background()
	req := dto.CreateCurrencyRequest{CurrencyCode: "USD", Symbol: "$", Name: "US Dollar", Precision: 2}

	suite.mockCurrencyRepo.On("SaveCurrency", ctx, mock.AnythingOfType("domain.Currency")).
		Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.CreateCurrency(ctx, req, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *CurrencyServiceTestSuite) TestGetCurrencyByCode_UppercasesLookup() {
	ctx := context.Background()

	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(usdCurrency(), nil).Once()

	currency, err := suite.service.GetCurrencyByCode(ctx, "usd")

	suite.Require().NoError(err)
	suite.Equal("USD", currency.CurrencyCode)
	suite.mockCurrencyRepo.AssertExpectations(suite.T())
}

func TestCurrencyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CurrencyServiceTestSuite))
}
