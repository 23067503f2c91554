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

type VoucherServiceTestSuite struct {
	suite.Suite
	mockVoucherRepo  *MockVoucherRepository
	mockTreasuryRepo *MockTreasuryRepository
	mockPartyRepo    *MockPartyRepository
	mockJournalRepo  *MockJournalRepository
	mockAccountSvc   *MockAccountService
	service          portssvc.VoucherSvcFacade
	businessID       string
	userID           string
	treasury         domain.Treasury
	treasuryAccount  domain.Account
	revenueAccount   domain.Account
	party            domain.Party
}

func (suite *VoucherServiceTestSuite) SetupTest() {
	suite.mockVoucherRepo = new(MockVoucherRepository)
	suite.mockTreasuryRepo = new(MockTreasuryRepository)
	suite.mockPartyRepo = new(MockPartyRepository)
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountSvc = new(MockAccountService)
	suite.service = services.NewVoucherService(
		suite.mockVoucherRepo,
		suite.mockTreasuryRepo,
		suite.mockPartyRepo,
		suite.mockJournalRepo,
		suite.mockAccountSvc,
		testConfig(),
	)

	suite.businessID = uuid.NewString()
	suite.userID = uuid.NewString()

	suite.treasuryAccount = domain.Account{
		AccountID:    uuid.NewString(),
		BusinessID:   suite.businessID,
		AccountType:  domain.Asset,
		CurrencyCode: "USD",
		IsActive:     true,
	}
	suite.revenueAccount = domain.Account{
		AccountID:    uuid.NewString(),
		BusinessID:   suite.businessID,
		AccountType:  domain.Revenue,
		CurrencyCode: "USD",
		IsActive:     true,
	}
	suite.treasury = domain.Treasury{
		TreasuryID:      uuid.NewString(),
		BusinessID:      suite.businessID,
		Code:            "MAIN-CASH",
		TreasuryType:    domain.Cash,
		LinkedAccountID: suite.treasuryAccount.AccountID,
		CurrencyCode:    "USD",
		IsActive:        true,
		Balance:         decimal.NewFromInt(500),
	}
	suite.party = domain.Party{
		PartyID:    uuid.NewString(),
		BusinessID: suite.businessID,
		Code:       "CUST-001",
		Kind:       domain.Customer,
		IsActive:   true,
	}
}

func (suite *VoucherServiceTestSuite) createRequest(direction string, amount decimal.Decimal) dto.CreateVoucherRequest {
	return dto.CreateVoucherRequest{
		Direction:        direction,
		TreasuryID:       suite.treasury.TreasuryID,
		CounterAccountID: suite.revenueAccount.AccountID,
		Amount:           amount,
		CurrencyCode:     "USD",
		Date:             time.Now(),
		Description:      "Meter payment",
	}
}

func (suite *VoucherServiceTestSuite) draftVoucher(direction domain.VoucherDirection) *domain.Voucher {
	return &domain.Voucher{
		VoucherID:        uuid.NewString(),
		BusinessID:       suite.businessID,
		Direction:        direction,
		TreasuryID:       suite.treasury.TreasuryID,
		CounterAccountID: suite.revenueAccount.AccountID,
		Amount:           decimal.NewFromInt(100),
		CurrencyCode:     "USD",
		VoucherDate:      time.Now(),
		Description:      "Meter payment",
		Status:           domain.VoucherDraft,
	}
}

// --- CreateVoucher ---

func (suite *VoucherServiceTestSuite) TestCreateVoucher_Success() {
	ctx := context.Background()
	req := suite.createRequest("RECEIPT", decimal.NewFromInt(100))

	suite.mockTreasuryRepo.On("FindTreasuryByID", ctx, suite.treasury.TreasuryID).Return(&suite.treasury, nil).Once()
	suite.mockAccountSvc.On("GetAccountByID", ctx, suite.businessID, suite.revenueAccount.AccountID).Return(&suite.revenueAccount, nil).Once()
	suite.mockVoucherRepo.On("SaveVoucher", ctx, mock.AnythingOfType("domain.Voucher")).Return(nil).Once()

	voucher, err := suite.service.CreateVoucher(ctx, suite.businessID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(voucher)
	suite.Equal(domain.VoucherDraft, voucher.Status)
	suite.Equal(domain.Receipt, voucher.Direction)
	suite.Empty(voucher.EntryID)
	suite.mockVoucherRepo.AssertExpectations(suite.T())
}

func (suite *VoucherServiceTestSuite) TestCreateVoucher_NonPositiveAmountRejected() {
	ctx := context.Background()
	req := suite.createRequest("RECEIPT", decimal.Zero)

	_, err := suite.service.CreateVoucher(ctx, suite.businessID, req, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrInvalidAmount)
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "SaveVoucher", mock.Anything, mock.Anything)
}

func (suite *VoucherServiceTestSuite) TestCreateVoucher_CurrencyMismatchRejected() {
	ctx := context.Background()
	req := suite.createRequest("RECEIPT", decimal.NewFromInt(100))
	req.CurrencyCode = "EUR"

	suite.mockTreasuryRepo.On("FindTreasuryByID", ctx, suite.treasury.TreasuryID).Return(&suite.treasury, nil).Once()

	_, err := suite.service.CreateVoucher(ctx, suite.businessID, req, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *VoucherServiceTestSuite) TestCreateVoucher_CounterCannotBeTreasuryAccount() {
	ctx := context.Background()
	req := suite.createRequest("RECEIPT", decimal.NewFromInt(100))
	req.CounterAccountID = suite.treasuryAccount.AccountID

	suite.mockTreasuryRepo.On("FindTreasuryByID", ctx, suite.treasury.TreasuryID).Return(&suite.treasury, nil).Once()
	suite.mockAccountSvc.On("GetAccountByID", ctx, suite.businessID, suite.treasuryAccount.AccountID).Return(&suite.treasuryAccount, nil).Once()

	_, err := suite.service.CreateVoucher(ctx, suite.businessID, req, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *VoucherServiceTestSuite) TestCreateVoucher_InactivePartyRejected() {
	ctx := context.Background()
	req := suite.createRequest("RECEIPT", decimal.NewFromInt(100))
	inactive := suite.party
	inactive.IsActive = false
	req.PartyID = inactive.PartyID

	suite.mockTreasuryRepo.On("FindTreasuryByID", ctx, suite.treasury.TreasuryID).Return(&suite.treasury, nil).Once()
	suite.mockAccountSvc.On("GetAccountByID", ctx, suite.businessID, suite.revenueAccount.AccountID).Return(&suite.revenueAccount, nil).Once()
	suite.mockPartyRepo.On("FindPartyByID", ctx, inactive.PartyID).Return(&inactive, nil).Once()

	_, err := suite.service.CreateVoucher(ctx, suite.businessID, req, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

// --- PostVoucher ---

func (suite *VoucherServiceTestSuite) TestPostVoucher_ReceiptBuildsDebitTreasuryCreditCounter() {
	ctx := context.Background()
	voucher := suite.draftVoucher(domain.Receipt)

	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucher.VoucherID).Return(voucher, nil).Once()
	suite.mockTreasuryRepo.On("FindTreasuryByID", ctx, suite.treasury.TreasuryID).Return(&suite.treasury, nil).Once()
	accountsMap := map[string]domain.Account{
		suite.treasuryAccount.AccountID: suite.treasuryAccount,
		suite.revenueAccount.AccountID:  suite.revenueAccount,
	}
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.businessID, []string{suite.treasuryAccount.AccountID, suite.revenueAccount.AccountID}).Return(accountsMap, nil).Once()

	postedEntryID := uuid.NewString()
	suite.mockJournalRepo.On("PostVoucher", ctx, mock.AnythingOfType("repositories.VoucherPosting")).
		Run(func(args mock.Arguments) {
			posting := args.Get(1).(portsrepo.VoucherPosting)
			suite.Require().Len(posting.Entry.Lines, 2)
			treasuryLine := posting.Entry.Lines[0]
			counterLine := posting.Entry.Lines[1]
			suite.Equal(suite.treasuryAccount.AccountID, treasuryLine.AccountID)
			suite.True(treasuryLine.Debit.Equal(voucher.Amount))
			suite.True(counterLine.Credit.Equal(voucher.Amount))
			suite.Equal("receipt_voucher", posting.Entry.SourceType)
			suite.Equal(voucher.VoucherID, posting.Entry.SourceID)
		}).
		Return(&domain.JournalEntry{EntryID: postedEntryID, EntryNumber: "JE-SCOPE-000003"}, nil).Once()

	posted, err := suite.service.PostVoucher(ctx, suite.businessID, voucher.VoucherID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.VoucherPosted, posted.Status)
	suite.Equal(postedEntryID, posted.EntryID)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *VoucherServiceTestSuite) TestPostVoucher_AlreadyPostedRejected() {
	ctx := context.Background()
	voucher := suite.draftVoucher(domain.Receipt)
	voucher.Status = domain.VoucherPosted

	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucher.VoucherID).Return(voucher, nil).Once()

	_, err := suite.service.PostVoucher(ctx, suite.businessID, voucher.VoucherID, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrAlreadyPosted)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "PostVoucher", mock.Anything, mock.Anything)
}

func (suite *VoucherServiceTestSuite) TestPostVoucher_NonBaseCurrencyRejected() {
	ctx := context.Background()
	voucher := suite.draftVoucher(domain.Payment)
	voucher.CurrencyCode = "EUR"

	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucher.VoucherID).Return(voucher, nil).Once()

	_, err := suite.service.PostVoucher(ctx, suite.businessID, voucher.VoucherID, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *VoucherServiceTestSuite) TestPostVoucher_InsufficientFundsPropagated() {
	ctx := context.Background()
	voucher := suite.draftVoucher(domain.Payment)

	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucher.VoucherID).Return(voucher, nil).Once()
	suite.mockTreasuryRepo.On("FindTreasuryByID", ctx, suite.treasury.TreasuryID).Return(&suite.treasury, nil).Once()
	accountsMap := map[string]domain.Account{
		suite.treasuryAccount.AccountID: suite.treasuryAccount,
		suite.revenueAccount.AccountID:  suite.revenueAccount,
	}
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.businessID, mock.Anything).Return(accountsMap, nil).Once()
	suite.mockJournalRepo.On("PostVoucher", ctx, mock.Anything).Return(nil, apperrors.ErrInsufficientFunds).Once()

	_, err := suite.service.PostVoucher(ctx, suite.businessID, voucher.VoucherID, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrInsufficientFunds)
	// A funds failure is not a lock conflict and must not be retried.
	suite.mockJournalRepo.AssertNumberOfCalls(suite.T(), "PostVoucher", 1)
}

func (suite *VoucherServiceTestSuite) TestPostVoucher_WrongBusinessIsNotFound() {
	ctx := context.Background()
	voucher := suite.draftVoucher(domain.Receipt)
	voucher.BusinessID = uuid.NewString()

	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucher.VoucherID).Return(voucher, nil).Once()

	_, err := suite.service.PostVoucher(ctx, suite.businessID, voucher.VoucherID, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
}

// --- VoidVoucher ---

func (suite *VoucherServiceTestSuite) TestVoidVoucher_SwapsSidesKeepsOrder() {
	ctx := context.Background()
	voucher := suite.draftVoucher(domain.Receipt)
	voucher.Status = domain.VoucherPosted
	voucher.EntryID = uuid.NewString()

	amount := voucher.Amount
	originalLines := []domain.JournalLine{
		{LineID: uuid.NewString(), EntryID: voucher.EntryID, AccountID: suite.treasuryAccount.AccountID, Debit: amount, BaseDebit: amount, CurrencyCode: "USD", ExchangeRate: decimal.NewFromInt(1), LineNo: 1},
		{LineID: uuid.NewString(), EntryID: voucher.EntryID, AccountID: suite.revenueAccount.AccountID, Credit: amount, BaseCredit: amount, CurrencyCode: "USD", ExchangeRate: decimal.NewFromInt(1), LineNo: 2},
	}

	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucher.VoucherID).Return(voucher, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, voucher.EntryID).Return(originalLines, nil).Once()
	accountsMap := map[string]domain.Account{
		suite.treasuryAccount.AccountID: suite.treasuryAccount,
		suite.revenueAccount.AccountID:  suite.revenueAccount,
	}
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.businessID, mock.Anything).Return(accountsMap, nil).Once()

	reversingEntryID := uuid.NewString()
	suite.mockJournalRepo.On("VoidVoucher", ctx, mock.AnythingOfType("repositories.VoucherVoid")).
		Run(func(args mock.Arguments) {
			void := args.Get(1).(portsrepo.VoucherVoid)
			suite.Require().Len(void.ReversingEntry.Lines, 2)
			// The receipt debited the treasury account, so the reversal credits it.
			suite.True(void.ReversingEntry.Lines[0].Credit.Equal(amount))
			suite.True(void.ReversingEntry.Lines[1].Debit.Equal(amount))
			suite.Equal(1, void.ReversingEntry.Lines[0].LineNo)
			suite.Equal(2, void.ReversingEntry.Lines[1].LineNo)
			suite.Equal("receipt_voucher_void", void.ReversingEntry.SourceType)
			suite.Require().NotNil(void.ReversingEntry.OriginalEntryID)
			suite.Equal(voucher.EntryID, *void.ReversingEntry.OriginalEntryID)
		}).
		Return(&domain.JournalEntry{EntryID: reversingEntryID, EntryNumber: "JE-SCOPE-000004"}, nil).Once()

	voided, err := suite.service.VoidVoucher(ctx, suite.businessID, voucher.VoucherID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.VoucherVoid, voided.Status)
	suite.Equal(reversingEntryID, voided.ReversingEntryID)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *VoucherServiceTestSuite) TestVoidVoucher_DraftRejected() {
	ctx := context.Background()
	voucher := suite.draftVoucher(domain.Receipt)

	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucher.VoucherID).Return(voucher, nil).Once()

	_, err := suite.service.VoidVoucher(ctx, suite.businessID, voucher.VoucherID, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrNotPosted)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "VoidVoucher", mock.Anything, mock.Anything)
}

func TestVoucherServiceTestSuite(t *testing.T) {
	suite.Run(t, new(VoucherServiceTestSuite))
}
