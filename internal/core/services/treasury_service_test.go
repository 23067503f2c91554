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
	portsrepo "github.com/gridops/utility_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/gridops/utility_ledger_app/internal/core/ports/services"
	"github.com/gridops/utility_ledger_app/internal/core/services"
	"github.com/gridops/utility_ledger_app/internal/dto"
)

type TreasuryServiceTestSuite struct {
	suite.Suite
	mockTreasuryRepo *MockTreasuryRepository
	mockJournalRepo  *MockJournalRepository
	mockAccountSvc   *MockAccountService
	mockCurrencyRepo *MockCurrencyRepository
	service          portssvc.TreasurySvcFacade
	businessID       string
	userID           string
	cashAccount      domain.Account
	bankAccount      domain.Account
	cashTreasury     domain.Treasury
	bankTreasury     domain.Treasury
}

func (suite *TreasuryServiceTestSuite) SetupTest() {
	suite.mockTreasuryRepo = new(MockTreasuryRepository)
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountSvc = new(MockAccountService)
	suite.mockCurrencyRepo = new(MockCurrencyRepository)
	suite.service = services.NewTreasuryService(
		suite.mockTreasuryRepo,
		suite.mockJournalRepo,
		suite.mockAccountSvc,
		suite.mockCurrencyRepo,
		testConfig(),
	)

	suite.businessID = uuid.NewString()
	suite.userID = uuid.NewString()

	suite.cashAccount = domain.Account{
		AccountID:    uuid.NewString(),
		BusinessID:   suite.businessID,
		AccountType:  domain.Asset,
		CurrencyCode: "USD",
		IsActive:     true,
	}
	suite.bankAccount = domain.Account{
		AccountID:    uuid.NewString(),
		BusinessID:   suite.businessID,
		AccountType:  domain.Asset,
		CurrencyCode: "USD",
		IsActive:     true,
	}
	suite.cashTreasury = domain.Treasury{
		TreasuryID:      uuid.NewString(),
		BusinessID:      suite.businessID,
		Code:            "CASH-01",
		TreasuryType:    domain.Cash,
		LinkedAccountID: suite.cashAccount.AccountID,
		CurrencyCode:    "USD",
		IsActive:        true,
		Balance:         decimal.NewFromInt(300),
	}
	suite.bankTreasury = domain.Treasury{
		TreasuryID:      uuid.NewString(),
		BusinessID:      suite.businessID,
		Code:            "BANK-01",
		TreasuryType:    domain.Bank,
		LinkedAccountID: suite.bankAccount.AccountID,
		CurrencyCode:    "USD",
		IsActive:        true,
		Balance:         decimal.Zero,
	}
}

// --- CreateTreasury ---

func (suite *TreasuryServiceTestSuite) TestCreateTreasury_Success() {
	ctx := context.Background()
	req := dto.CreateTreasuryRequest{
		Code:            "CASH-02",
		Name:            "Branch cash drawer",
		TreasuryType:    "CASH",
		LinkedAccountID: suite.cashAccount.AccountID,
		CurrencyCode:    "USD",
	}

	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(usdCurrency(), nil).Once()
	suite.mockAccountSvc.On("GetAccountByID", ctx, suite.businessID, suite.cashAccount.AccountID).Return(&suite.cashAccount, nil).Once()
	suite.mockTreasuryRepo.On("FindTreasuryByCode", ctx, suite.businessID, "CASH-02").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockTreasuryRepo.On("SaveTreasury", ctx, mock.AnythingOfType("domain.Treasury")).
		Run(func(args mock.Arguments) {
			treasury := args.Get(1).(domain.Treasury)
			suite.True(treasury.Balance.IsZero())
			suite.True(treasury.IsActive)
		}).
		Return(nil).Once()

	treasury, err := suite.service.CreateTreasury(ctx, suite.businessID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(treasury)
	suite.Equal(domain.Cash, treasury.TreasuryType)
	suite.mockTreasuryRepo.AssertExpectations(suite.T())
}

func (suite *TreasuryServiceTestSuite) TestCreateTreasury_NonAssetAccountRejected() {
	ctx := context.Background()
	revenue := suite.cashAccount
	revenue.AccountType = domain.Revenue
	req := dto.CreateTreasuryRequest{
		Code:            "CASH-02",
		Name:            "Branch cash drawer",
		TreasuryType:    "CASH",
		LinkedAccountID: revenue.AccountID,
		CurrencyCode:    "USD",
	}

	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(usdCurrency(), nil).Once()
	suite.mockAccountSvc.On("GetAccountByID", ctx, suite.businessID, revenue.AccountID).Return(&revenue, nil).Once()

	_, err := suite.service.CreateTreasury(ctx, suite.businessID, req, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockTreasuryRepo.AssertNotCalled(suite.T(), "SaveTreasury", mock.Anything, mock.Anything)
}

func (suite *TreasuryServiceTestSuite) TestCreateTreasury_DuplicateCodeRejected() {
	ctx := context.Background()
	req := dto.CreateTreasuryRequest{
		Code:            "CASH-01",
		Name:            "Duplicate",
		TreasuryType:    "CASH",
		LinkedAccountID: suite.cashAccount.AccountID,
		CurrencyCode:    "USD",
	}

	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(usdCurrency(), nil).Once()
	suite.mockAccountSvc.On("GetAccountByID", ctx, suite.businessID, suite.cashAccount.AccountID).Return(&suite.cashAccount, nil).Once()
	suite.mockTreasuryRepo.On("FindTreasuryByCode", ctx, suite.businessID, "CASH-01").Return(&suite.cashTreasury, nil).Once()

	_, err := suite.service.CreateTreasury(ctx, suite.businessID, req, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrDuplicateCode)
}

// --- CurrentBalance ---

func (suite *TreasuryServiceTestSuite) TestCurrentBalance_Consistent() {
	ctx := context.Background()
	balance := suite.cashTreasury.Balance

	suite.mockTreasuryRepo.On("FindTreasuryByID", ctx, suite.cashTreasury.TreasuryID).Return(&suite.cashTreasury, nil).Once()
	suite.mockTreasuryRepo.On("RecomputeTreasuryBalance", ctx, suite.cashTreasury.TreasuryID).Return(balance, balance, nil).Once()
	suite.mockAccountSvc.On("ResolveBalance", ctx, suite.businessID, suite.cashAccount.AccountID, (*time.Time)(nil)).Return(balance, nil).Once()

	got, err := suite.service.CurrentBalance(ctx, suite.businessID, suite.cashTreasury.TreasuryID)

	suite.Require().NoError(err)
	suite.True(got.Equal(balance))
}

func (suite *TreasuryServiceTestSuite) TestCurrentBalance_DivergenceIsConsistencyFault() {
	ctx := context.Background()
	folded := suite.cashTreasury.Balance.Sub(decimal.NewFromInt(10))

	suite.mockTreasuryRepo.On("FindTreasuryByID", ctx, suite.cashTreasury.TreasuryID).Return(&suite.cashTreasury, nil).Once()
	suite.mockTreasuryRepo.On("RecomputeTreasuryBalance", ctx, suite.cashTreasury.TreasuryID).Return(folded, folded, nil).Once()
	suite.mockAccountSvc.On("ResolveBalance", ctx, suite.businessID, suite.cashAccount.AccountID, (*time.Time)(nil)).Return(folded, nil).Once()

	_, err := suite.service.CurrentBalance(ctx, suite.businessID, suite.cashTreasury.TreasuryID)

	suite.Require().Error(err)
	var fault *apperrors.ConsistencyFault
	suite.Require().ErrorAs(err, &fault)
	suite.Equal("treasury", fault.AggregateKind)
}

func (suite *TreasuryServiceTestSuite) TestCurrentBalance_LinkedAccountDivergenceIsConsistencyFault() {
	// Movements and snapshot agree, but the linked account ledger has moved
	// independently (e.g. a journal entry posted straight to the account).
	ctx := context.Background()
	balance := suite.cashTreasury.Balance
	ledger := balance.Add(decimal.NewFromInt(40))

	suite.mockTreasuryRepo.On("FindTreasuryByID", ctx, suite.cashTreasury.TreasuryID).Return(&suite.cashTreasury, nil).Once()
	suite.mockTreasuryRepo.On("RecomputeTreasuryBalance", ctx, suite.cashTreasury.TreasuryID).Return(balance, balance, nil).Once()
	suite.mockAccountSvc.On("ResolveBalance", ctx, suite.businessID, suite.cashAccount.AccountID, (*time.Time)(nil)).Return(ledger, nil).Once()

	_, err := suite.service.CurrentBalance(ctx, suite.businessID, suite.cashTreasury.TreasuryID)

	suite.Require().Error(err)
	var fault *apperrors.ConsistencyFault
	suite.Require().ErrorAs(err, &fault)
	suite.Equal("treasury", fault.AggregateKind)
	suite.True(fault.Stored.Equal(balance))
	suite.True(fault.Recomputed.Equal(ledger))
}

func (suite *TreasuryServiceTestSuite) TestCurrentBalance_WrongBusinessIsNotFound() {
	ctx := context.Background()
	foreign := suite.cashTreasury
	foreign.BusinessID = uuid.NewString()

	suite.mockTreasuryRepo.On("FindTreasuryByID", ctx, foreign.TreasuryID).Return(&foreign, nil).Once()

	_, err := suite.service.CurrentBalance(ctx, suite.businessID, foreign.TreasuryID)

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
	suite.mockTreasuryRepo.AssertNotCalled(suite.T(), "RecomputeTreasuryBalance", mock.Anything, mock.Anything)
}

// --- Transfer ---

func (suite *TreasuryServiceTestSuite) TestTransfer_Success() {
	ctx := context.Background()
	amount := decimal.NewFromInt(150)
	req := dto.TransferRequest{
		FromTreasuryID: suite.cashTreasury.TreasuryID,
		ToTreasuryID:   suite.bankTreasury.TreasuryID,
		Amount:         amount,
		Date:           time.Now(),
		Description:    "Bank deposit",
	}

	suite.mockTreasuryRepo.On("FindTreasuryByID", ctx, suite.cashTreasury.TreasuryID).Return(&suite.cashTreasury, nil).Once()
	suite.mockTreasuryRepo.On("FindTreasuryByID", ctx, suite.bankTreasury.TreasuryID).Return(&suite.bankTreasury, nil).Once()
	accountsMap := map[string]domain.Account{
		suite.cashAccount.AccountID: suite.cashAccount,
		suite.bankAccount.AccountID: suite.bankAccount,
	}
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.businessID, []string{suite.cashAccount.AccountID, suite.bankAccount.AccountID}).Return(accountsMap, nil).Once()

	suite.mockJournalRepo.On("Transfer", ctx, mock.AnythingOfType("repositories.TreasuryTransfer")).
		Run(func(args mock.Arguments) {
			transfer := args.Get(1).(portsrepo.TreasuryTransfer)
			suite.Equal(suite.cashTreasury.TreasuryID, transfer.FromTreasuryID)
			suite.Equal(suite.bankTreasury.TreasuryID, transfer.ToTreasuryID)
			suite.Require().Len(transfer.Entry.Lines, 2)
			// Destination account is debited, source account credited.
			suite.Equal(suite.bankAccount.AccountID, transfer.Entry.Lines[0].AccountID)
			suite.True(transfer.Entry.Lines[0].Debit.Equal(amount))
			suite.Equal(suite.cashAccount.AccountID, transfer.Entry.Lines[1].AccountID)
			suite.True(transfer.Entry.Lines[1].Credit.Equal(amount))
			// Net asset change is zero: +amount on one account, -amount on the other.
			suite.True(transfer.BalanceChanges[suite.bankAccount.AccountID].Equal(amount))
			suite.True(transfer.BalanceChanges[suite.cashAccount.AccountID].Equal(amount.Neg()))
		}).
		Return(&domain.JournalEntry{EntryID: uuid.NewString(), EntryNumber: "JE-SCOPE-000005"}, nil).Once()

	entry, err := suite.service.Transfer(ctx, suite.businessID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *TreasuryServiceTestSuite) TestTransfer_SameTreasuryRejected() {
	ctx := context.Background()
	req := dto.TransferRequest{
		FromTreasuryID: suite.cashTreasury.TreasuryID,
		ToTreasuryID:   suite.cashTreasury.TreasuryID,
		Amount:         decimal.NewFromInt(10),
		Date:           time.Now(),
	}

	_, err := suite.service.Transfer(ctx, suite.businessID, req, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "Transfer", mock.Anything, mock.Anything)
}

func (suite *TreasuryServiceTestSuite) TestTransfer_CurrencyMismatchRejected() {
	ctx := context.Background()
	eurTreasury := suite.bankTreasury
	eurTreasury.CurrencyCode = "EUR"
	req := dto.TransferRequest{
		FromTreasuryID: suite.cashTreasury.TreasuryID,
		ToTreasuryID:   eurTreasury.TreasuryID,
		Amount:         decimal.NewFromInt(10),
		Date:           time.Now(),
	}

	suite.mockTreasuryRepo.On("FindTreasuryByID", ctx, suite.cashTreasury.TreasuryID).Return(&suite.cashTreasury, nil).Once()
	suite.mockTreasuryRepo.On("FindTreasuryByID", ctx, eurTreasury.TreasuryID).Return(&eurTreasury, nil).Once()

	_, err := suite.service.Transfer(ctx, suite.businessID, req, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TreasuryServiceTestSuite) TestTransfer_InsufficientFundsPropagated() {
	ctx := context.Background()
	req := dto.TransferRequest{
		FromTreasuryID: suite.cashTreasury.TreasuryID,
		ToTreasuryID:   suite.bankTreasury.TreasuryID,
		Amount:         decimal.NewFromInt(1000),
		Date:           time.Now(),
	}

	suite.mockTreasuryRepo.On("FindTreasuryByID", ctx, suite.cashTreasury.TreasuryID).Return(&suite.cashTreasury, nil).Once()
	suite.mockTreasuryRepo.On("FindTreasuryByID", ctx, suite.bankTreasury.TreasuryID).Return(&suite.bankTreasury, nil).Once()
	accountsMap := map[string]domain.Account{
		suite.cashAccount.AccountID: suite.cashAccount,
		suite.bankAccount.AccountID: suite.bankAccount,
	}
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.businessID, mock.Anything).Return(accountsMap, nil).Once()
	suite.mockJournalRepo.On("Transfer", ctx, mock.Anything).Return(nil, apperrors.ErrInsufficientFunds).Once()

	_, err := suite.service.Transfer(ctx, suite.businessID, req, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.mockJournalRepo.AssertNumberOfCalls(suite.T(), "Transfer", 1)
}

// --- ListMovements ---

func (suite *TreasuryServiceTestSuite) TestListMovements_Success() {
	ctx := context.Background()
	movements := []domain.TreasuryMovement{
		{MovementID: uuid.NewString(), TreasuryID: suite.cashTreasury.TreasuryID, Direction: domain.In, Amount: decimal.NewFromInt(100)},
	}

	suite.mockTreasuryRepo.On("FindTreasuryByID", ctx, suite.cashTreasury.TreasuryID).Return(&suite.cashTreasury, nil).Once()
	suite.mockTreasuryRepo.On("ListMovementsByTreasuryID", ctx, suite.cashTreasury.TreasuryID, 20, (*string)(nil)).Return(movements, nil, nil).Once()

	resp, err := suite.service.ListMovements(ctx, suite.businessID, suite.cashTreasury.TreasuryID, 0, nil)

	suite.Require().NoError(err)
	suite.Len(resp.Movements, 1)
	suite.mockTreasuryRepo.AssertExpectations(suite.T())
}

func TestTreasuryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TreasuryServiceTestSuite))
}
