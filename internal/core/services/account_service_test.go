package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/gridops/utility_ledger_app/internal/apperrors"
	"github.com/gridops/utility_ledger_app/internal/core/domain"
	portssvc "github.com/gridops/utility_ledger_app/internal/core/ports/services"
	"github.com/gridops/utility_ledger_app/internal/core/services"
	"github.com/gridops/utility_ledger_app/internal/dto"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo  *MockAccountRepository
	mockCurrencyRepo *MockCurrencyRepository
	service          portssvc.AccountSvcFacade
	businessID       string
	userID           string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockCurrencyRepo = new(MockCurrencyRepository)
	suite.service = services.NewAccountService(suite.mockAccountRepo, suite.mockCurrencyRepo)

	suite.businessID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *AccountServiceTestSuite) createRequest() dto.CreateAccountRequest {
	return dto.CreateAccountRequest{
		Code:         "1000",
		Name:         "Cash on hand",
		AccountType:  "ASSET",
		CurrencyCode: "USD",
	}
}

func (suite *AccountServiceTestSuite) TestCreateAccount_RootAccount() {
	ctx := context.Background()
	req := suite.createRequest()

	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(usdCurrency(), nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.businessID, "1000").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).
		Run(func(args mock.Arguments) {
			account := args.Get(1).(domain.Account)
			suite.Equal(1, account.Level)
			suite.Empty(account.ParentAccountID)
			suite.True(account.Balance.IsZero())
			suite.True(account.IsActive)
		}).
		Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, suite.businessID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.Equal(domain.Asset, account.AccountType)
	suite.Equal(suite.userID, account.CreatedBy)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ChildLevelFollowsParent() {
	ctx := context.Background()
	parent := domain.Account{
		AccountID:    uuid.NewString(),
		BusinessID:   suite.businessID,
		Code:         "1000",
		AccountType:  domain.Asset,
		CurrencyCode: "USD",
		Level:        2,
		IsActive:     true,
	}
	req := suite.createRequest()
	req.Code = "1000-01"
	req.ParentAccountID = parent.AccountID

	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(usdCurrency(), nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.businessID, "1000-01").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, parent.AccountID).Return(&parent, nil).Once()
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).
		Run(func(args mock.Arguments) {
			account := args.Get(1).(domain.Account)
			suite.Equal(3, account.Level)
			suite.Equal(parent.AccountID, account.ParentAccountID)
		}).
		Return(nil).Once()

	_, err := suite.service.CreateAccount(ctx, suite.businessID, req, suite.userID)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ForeignParentRejected() {
	ctx := context.Background()
	parent := domain.Account{
		AccountID:   uuid.NewString(),
		BusinessID:  uuid.NewString(),
		AccountType: domain.Asset,
		Level:       1,
		IsActive:    true,
	}
	req := suite.createRequest()
	req.ParentAccountID = parent.AccountID

	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(usdCurrency(), nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.businessID, "1000").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, parent.AccountID).Return(&parent, nil).Once()

	_, err := suite.service.CreateAccount(ctx, suite.businessID, req, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrInvalidParent)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCodeRejected() {
	ctx := context.Background()
	req := suite.createRequest()
	existing := domain.Account{AccountID: uuid.NewString(), BusinessID: suite.businessID, Code: "1000"}

	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(usdCurrency(), nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.businessID, "1000").Return(&existing, nil).Once()

	_, err := suite.service.CreateAccount(ctx, suite.businessID, req, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrDuplicateCode)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_Rename() {
	ctx := context.Background()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		BusinessID:  suite.businessID,
		Code:        "1000",
		Name:        "Cash on hand",
		AccountType: domain.Asset,
		IsActive:    true,
	}
	newName := "Petty cash"

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()
	suite.mockAccountRepo.On("UpdateAccount", ctx, mock.AnythingOfType("domain.Account")).
		Run(func(args mock.Arguments) {
			updated := args.Get(1).(domain.Account)
			suite.Equal(newName, updated.Name)
			suite.Equal(domain.Asset, updated.AccountType)
			suite.Equal(suite.userID, updated.LastUpdatedBy)
		}).
		Return(nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, suite.businessID, account.AccountID, dto.UpdateAccountRequest{Name: &newName}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(newName, updated.Name)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "HasPostedLines", mock.Anything, mock.Anything)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_TypeChangeBlockedOncePosted() {
	ctx := context.Background()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		BusinessID:  suite.businessID,
		AccountType: domain.Asset,
		IsActive:    true,
	}
	newType := "EXPENSE"

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()
	suite.mockAccountRepo.On("HasPostedLines", ctx, account.AccountID).Return(true, nil).Once()

	_, err := suite.service.UpdateAccount(ctx, suite.businessID, account.AccountID, dto.UpdateAccountRequest{AccountType: &newType}, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_TypeChangeAllowedBeforePosting() {
	ctx := context.Background()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		BusinessID:  suite.businessID,
		AccountType: domain.Asset,
		IsActive:    true,
	}
	newType := "EXPENSE"

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()
	suite.mockAccountRepo.On("HasPostedLines", ctx, account.AccountID).Return(false, nil).Once()
	suite.mockAccountRepo.On("UpdateAccount", ctx, mock.AnythingOfType("domain.Account")).
		Run(func(args mock.Arguments) {
			updated := args.Get(1).(domain.Account)
			suite.Equal(domain.Expense, updated.AccountType)
		}).
		Return(nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, suite.businessID, account.AccountID, dto.UpdateAccountRequest{AccountType: &newType}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Expense, updated.AccountType)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_ForeignBusinessIsNotFound() {
	ctx := context.Background()
	account := domain.Account{AccountID: uuid.NewString(), BusinessID: uuid.NewString()}

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()

	_, err := suite.service.GetAccountByID(ctx, suite.businessID, account.AccountID)

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestResolveBalance_PassesAsOf() {
	ctx := context.Background()
	account := domain.Account{AccountID: uuid.NewString(), BusinessID: suite.businessID, AccountType: domain.Asset}
	asOf := time.Now().Add(-24 * time.Hour)
	want := decimal.RequireFromString("123.45")

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()
	suite.mockAccountRepo.On("ResolveBalance", ctx, account.AccountID, &asOf).Return(want, nil).Once()

	got, err := suite.service.ResolveBalance(ctx, suite.businessID, account.AccountID, &asOf)

	suite.Require().NoError(err)
	suite.True(got.Equal(want))
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
