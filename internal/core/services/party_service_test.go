package services_test

import (
	"context"
	"testing"

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

type PartyServiceTestSuite struct {
	suite.Suite
	mockPartyRepo *MockPartyRepository
	service       portssvc.PartySvcFacade
	businessID    string
	userID        string
}

func (suite *PartyServiceTestSuite) SetupTest() {
	suite.mockPartyRepo = new(MockPartyRepository)
	suite.service = services.NewPartyService(suite.mockPartyRepo)

	suite.businessID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *PartyServiceTestSuite) TestCreateParty_Success() {
	ctx := context.Background()
	req := dto.CreatePartyRequest{Code: "CUST-001", Name: "Northside Water Co-op", Kind: "CUSTOMER"}

	suite.mockPartyRepo.On("SaveParty", ctx, mock.AnythingOfType("domain.Party")).
		Run(func(args mock.Arguments) {
			party := args.Get(1).(domain.Party)
			suite.Equal(suite.businessID, party.BusinessID)
			suite.Equal(domain.Customer, party.Kind)
			suite.True(party.Balance.IsZero())
			suite.True(party.IsActive)
		}).
		Return(nil).Once()

	party, err := suite.service.CreateParty(ctx, suite.businessID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(party)
	suite.Equal(suite.userID, party.CreatedBy)
	suite.mockPartyRepo.AssertExpectations(suite.T())
}

func (suite *PartyServiceTestSuite) TestCreateParty_UnknownKindRejected() {
	ctx := context.Background()
	req := dto.CreatePartyRequest{Code: "X-001", Name: "Nobody", Kind: "EMPLOYEE"}

	_, err := suite.service.CreateParty(ctx, suite.businessID, req, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockPartyRepo.AssertNotCalled(suite.T(), "SaveParty", mock.Anything, mock.Anything)
}

func (suite *PartyServiceTestSuite) TestCreateParty_DuplicateCode() {
	ctx := context.Background()
	req := dto.CreatePartyRequest{Code: "CUST-001", Name: "Northside Water Co-op", Kind: "CUSTOMER"}

	suite.mockPartyRepo.On("SaveParty", ctx, mock.AnythingOfType("domain.Party")).
		Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.CreateParty(ctx, suite.businessID, req, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrDuplicateCode)
}

func (suite *PartyServiceTestSuite) TestGetPartyByID_ForeignBusinessIsNotFound() {
	ctx := context.Background()
	party := domain.Party{PartyID: uuid.NewString(), BusinessID: uuid.NewString()}

	suite.mockPartyRepo.On("FindPartyByID", ctx, party.PartyID).Return(&party, nil).Once()

	_, err := suite.service.GetPartyByID(ctx, suite.businessID, party.PartyID)

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *PartyServiceTestSuite) TestListTransactions_DefaultsLimit() {
	ctx := context.Background()
	party := domain.Party{PartyID: uuid.NewString(), BusinessID: suite.businessID, Kind: domain.Customer}
	txns := []domain.PartyTransaction{
		{
			TransactionID: uuid.NewString(),
			PartyID:       party.PartyID,
			Kind:          domain.PartyDebit,
			Amount:        decimal.RequireFromString("150.00"),
			BalanceBefore: decimal.Zero,
			BalanceAfter:  decimal.RequireFromString("150.00"),
			ReferenceType: "journal_entry",
			ReferenceID:   uuid.NewString(),
		},
	}

	suite.mockPartyRepo.On("FindPartyByID", ctx, party.PartyID).Return(&party, nil).Once()
	suite.mockPartyRepo.On("ListTransactionsByPartyID", ctx, party.PartyID, 20, (*string)(nil)).
		Return(txns, nil, nil).Once()

	resp, err := suite.service.ListTransactions(ctx, suite.businessID, party.PartyID, 0, nil)

	suite.Require().NoError(err)
	suite.Require().Len(resp.Transactions, 1)
	suite.Nil(resp.NextToken)
	suite.mockPartyRepo.AssertExpectations(suite.T())
}

func (suite *PartyServiceTestSuite) TestListTransactions_ForeignPartySkipsRepo() {
	ctx := context.Background()
	party := domain.Party{PartyID: uuid.NewString(), BusinessID: uuid.NewString()}

	suite.mockPartyRepo.On("FindPartyByID", ctx, party.PartyID).Return(&party, nil).Once()

	_, err := suite.service.ListTransactions(ctx, suite.businessID, party.PartyID, 10, nil)

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
	suite.mockPartyRepo.AssertNotCalled(suite.T(), "ListTransactionsByPartyID", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPartyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PartyServiceTestSuite))
}
