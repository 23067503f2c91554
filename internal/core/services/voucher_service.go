package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gridops/utility_ledger_app/internal/apperrors"
	"github.com/gridops/utility_ledger_app/internal/core/domain"
	portsrepo "github.com/gridops/utility_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/gridops/utility_ledger_app/internal/core/ports/services"
	"github.com/gridops/utility_ledger_app/internal/dto"
	"github.com/gridops/utility_ledger_app/internal/middleware"
	"github.com/gridops/utility_ledger_app/internal/platform/config"
)

// voucherService drives the voucher lifecycle: draft, post, void. Posting and
// voiding delegate their atomic unit of work to the posting repository.
type voucherService struct {
	voucherRepo  portsrepo.VoucherRepositoryFacade
	treasuryRepo portsrepo.TreasuryRepositoryFacade
	partyRepo    portsrepo.PartyRepositoryFacade
	journalRepo  portsrepo.JournalRepositoryFacade
	accountSvc   portssvc.AccountSvcFacade
	cfg          *config.Config
}

// NewVoucherService creates a new VoucherService.
func NewVoucherService(
	voucherRepo portsrepo.VoucherRepositoryFacade,
	treasuryRepo portsrepo.TreasuryRepositoryFacade,
	partyRepo portsrepo.PartyRepositoryFacade,
	journalRepo portsrepo.JournalRepositoryFacade,
	accountSvc portssvc.AccountSvcFacade,
	cfg *config.Config,
) portssvc.VoucherSvcFacade {
	return &voucherService{
		voucherRepo:  voucherRepo,
		treasuryRepo: treasuryRepo,
		partyRepo:    partyRepo,
		journalRepo:  journalRepo,
		accountSvc:   accountSvc,
		cfg:          cfg,
	}
}

var _ portssvc.VoucherSvcFacade = (*voucherService)(nil)

// CreateVoucher records a draft voucher after validating all its references.
func (s *voucherService) CreateVoucher(ctx context.Context, businessID string, req dto.CreateVoucherRequest, creatorUserID string) (*domain.Voucher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	direction := domain.VoucherDirection(req.Direction)
	if !direction.IsValid() {
		return nil, fmt.Errorf("%w: invalid voucher direction %q", apperrors.ErrValidation, req.Direction)
	}
	if !req.Amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}

	treasury, err := s.treasuryRepo.FindTreasuryByID(ctx, req.TreasuryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: treasury %s not found", apperrors.ErrValidation, req.TreasuryID)
		}
		return nil, fmt.Errorf("failed to fetch treasury: %w", err)
	}
	if treasury.BusinessID != businessID {
		return nil, fmt.Errorf("%w: treasury %s not found", apperrors.ErrValidation, req.TreasuryID)
	}
	if !treasury.IsActive {
		return nil, fmt.Errorf("%w: treasury %s is inactive", apperrors.ErrValidation, treasury.TreasuryID)
	}
	if treasury.CurrencyCode != req.CurrencyCode {
		return nil, fmt.Errorf("%w: voucher currency %s does not match treasury currency %s", apperrors.ErrValidation, req.CurrencyCode, treasury.CurrencyCode)
	}

	counter, err := s.accountSvc.GetAccountByID(ctx, businessID, req.CounterAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: counter account %s not found", apperrors.ErrValidation, req.CounterAccountID)
		}
		return nil, fmt.Errorf("failed to fetch counter account: %w", err)
	}
	if !counter.IsActive {
		return nil, fmt.Errorf("%w: counter account %s is inactive", apperrors.ErrValidation, counter.AccountID)
	}
	if counter.AccountID == treasury.LinkedAccountID {
		return nil, fmt.Errorf("%w: counter account cannot be the treasury's own account", apperrors.ErrValidation)
	}

	if req.PartyID != "" {
		party, err := s.partyRepo.FindPartyByID(ctx, req.PartyID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: party %s not found", apperrors.ErrValidation, req.PartyID)
			}
			return nil, fmt.Errorf("failed to fetch party: %w", err)
		}
		if party.BusinessID != businessID {
			return nil, fmt.Errorf("%w: party %s not found", apperrors.ErrValidation, req.PartyID)
		}
		if !party.IsActive {
			return nil, fmt.Errorf("%w: party %s is inactive", apperrors.ErrValidation, party.PartyID)
		}
	}

	now := time.Now().UTC()
	voucher := domain.Voucher{
		VoucherID:        uuid.NewString(),
		BusinessID:       businessID,
		Direction:        direction,
		TreasuryID:       treasury.TreasuryID,
		PartyID:          req.PartyID,
		CounterAccountID: counter.AccountID,
		Amount:           req.Amount,
		CurrencyCode:     req.CurrencyCode,
		VoucherDate:      req.Date,
		Description:      req.Description,
		Status:           domain.VoucherDraft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.voucherRepo.SaveVoucher(ctx, voucher); err != nil {
		logger.Error("Failed to save voucher", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save voucher: %w", err)
	}

	logger.Info("Voucher created",
		slog.String("voucher_id", voucher.VoucherID),
		slog.String("direction", string(voucher.Direction)),
		slog.String("amount", voucher.Amount.String()),
	)
	return &voucher, nil
}

// findScoped fetches a voucher and obscures its existence for other businesses.
func (s *voucherService) findScoped(ctx context.Context, businessID, voucherID string) (*domain.Voucher, error) {
	voucher, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	if voucher.BusinessID != businessID {
		return nil, apperrors.ErrNotFound
	}
	return voucher, nil
}

// GetVoucherByID retrieves a voucher scoped to the business.
func (s *voucherService) GetVoucherByID(ctx context.Context, businessID, voucherID string) (*domain.Voucher, error) {
	return s.findScoped(ctx, businessID, voucherID)
}

// ListVouchers retrieves a page of the business vouchers, newest first.
func (s *voucherService) ListVouchers(ctx context.Context, businessID string, params dto.ListVouchersParams) (*dto.ListVouchersResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	vouchers, token, err := s.voucherRepo.ListVouchersByBusiness(ctx, businessID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve vouchers: %w", err)
	}
	return &dto.ListVouchersResponse{Vouchers: dto.ToVoucherResponses(vouchers), NextToken: token}, nil
}

// voucherLines builds the two-line entry for a voucher. A receipt debits the
// treasury's account and credits the counter account; a payment is the mirror.
func voucherLines(voucher domain.Voucher, treasuryAccountID, entryID string, audit domain.AuditFields) []domain.JournalLine {
	rate := decimal.NewFromInt(1)
	treasuryLine := domain.JournalLine{
		LineID:       uuid.NewString(),
		EntryID:      entryID,
		AccountID:    treasuryAccountID,
		CurrencyCode: voucher.CurrencyCode,
		ExchangeRate: rate,
		Description:  voucher.Description,
		AuditFields:  audit,
	}
	counterLine := domain.JournalLine{
		LineID:       uuid.NewString(),
		EntryID:      entryID,
		AccountID:    voucher.CounterAccountID,
		CurrencyCode: voucher.CurrencyCode,
		ExchangeRate: rate,
		Description:  voucher.Description,
		AuditFields:  audit,
	}

	if voucher.Direction == domain.Receipt {
		treasuryLine.Debit = voucher.Amount
		treasuryLine.BaseDebit = voucher.Amount
		counterLine.Credit = voucher.Amount
		counterLine.BaseCredit = voucher.Amount
	} else {
		counterLine.Debit = voucher.Amount
		counterLine.BaseDebit = voucher.Amount
		treasuryLine.Credit = voucher.Amount
		treasuryLine.BaseCredit = voucher.Amount
	}

	treasuryLine.LineNo = 1
	counterLine.LineNo = 2
	return []domain.JournalLine{treasuryLine, counterLine}
}

// PostVoucher transitions a draft voucher to posted in one atomic unit of work.
func (s *voucherService) PostVoucher(ctx context.Context, businessID, voucherID, userID string) (*domain.Voucher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	voucher, err := s.findScoped(ctx, businessID, voucherID)
	if err != nil {
		return nil, err
	}
	if voucher.Status != domain.VoucherDraft {
		return nil, fmt.Errorf("%w: voucher %s is %s", apperrors.ErrAlreadyPosted, voucher.VoucherID, voucher.Status)
	}
	if voucher.CurrencyCode != s.cfg.BaseCurrencyCode {
		return nil, fmt.Errorf("%w: vouchers can only be posted in the base currency %s", apperrors.ErrValidation, s.cfg.BaseCurrencyCode)
	}

	treasury, err := s.treasuryRepo.FindTreasuryByID(ctx, voucher.TreasuryID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch treasury: %w", err)
	}
	if !treasury.IsActive {
		return nil, fmt.Errorf("%w: treasury %s is inactive", apperrors.ErrValidation, treasury.TreasuryID)
	}

	accountsByID, err := s.accountSvc.GetAccountsByIDs(ctx, businessID, []string{treasury.LinkedAccountID, voucher.CounterAccountID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	lines := voucherLines(*voucher, treasury.LinkedAccountID, entryID, audit)
	balanceChanges, err := balanceChangesFor(lines, accountsByID)
	if err != nil {
		return nil, err
	}

	entry := domain.JournalEntry{
		EntryID:     entryID,
		BusinessID:  businessID,
		EntryDate:   voucher.VoucherDate,
		SourceType:  voucher.SourceType(),
		SourceID:    voucher.VoucherID,
		Description: voucher.Description,
		Status:      domain.Posted,
		Lines:       lines,
		AuditFields: audit,
	}

	posting := portsrepo.VoucherPosting{
		Voucher:        *voucher,
		Entry:          entry,
		BalanceChanges: balanceChanges,
	}

	posted, err := withConflictRetry(ctx, s.cfg.PostingMaxRetries, s.cfg.PostingRetryBackoff, func() (*domain.JournalEntry, error) {
		return s.journalRepo.PostVoucher(ctx, posting)
	})
	if err != nil {
		logger.Error("Failed to post voucher", slog.String("error", err.Error()), slog.String("voucher_id", voucher.VoucherID))
		return nil, err
	}

	voucher.Status = domain.VoucherPosted
	voucher.EntryID = posted.EntryID
	voucher.LastUpdatedAt = now
	voucher.LastUpdatedBy = userID

	logger.Info("Voucher posted",
		slog.String("voucher_id", voucher.VoucherID),
		slog.String("entry_id", posted.EntryID),
		slog.String("entry_number", posted.EntryNumber),
	)
	return voucher, nil
}

// VoidVoucher reverses a posted voucher with an offsetting entry. The reversing
// lines swap each original line's sides in the original order; history rows are
// only appended, never touched.
func (s *voucherService) VoidVoucher(ctx context.Context, businessID, voucherID, userID string) (*domain.Voucher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	voucher, err := s.findScoped(ctx, businessID, voucherID)
	if err != nil {
		return nil, err
	}
	if voucher.Status != domain.VoucherPosted {
		return nil, fmt.Errorf("%w: voucher %s is %s", apperrors.ErrNotPosted, voucher.VoucherID, voucher.Status)
	}

	originalLines, err := s.journalRepo.FindLinesByEntryID(ctx, voucher.EntryID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch original entry lines: %w", err)
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	reversingLines := make([]domain.JournalLine, len(originalLines))
	for i, orig := range originalLines {
		reversingLines[i] = domain.JournalLine{
			LineID:       uuid.NewString(),
			EntryID:      entryID,
			AccountID:    orig.AccountID,
			Debit:        orig.Credit,
			Credit:       orig.Debit,
			CurrencyCode: orig.CurrencyCode,
			ExchangeRate: orig.ExchangeRate,
			BaseDebit:    orig.BaseCredit,
			BaseCredit:   orig.BaseDebit,
			LineNo:       orig.LineNo,
			Description:  orig.Description,
			AuditFields:  audit,
		}
	}

	accountIDs := make([]string, 0, len(reversingLines))
	for _, line := range reversingLines {
		accountIDs = append(accountIDs, line.AccountID)
	}
	accountsByID, err := s.accountSvc.GetAccountsByIDs(ctx, businessID, uniqueStrings(accountIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	balanceChanges, err := balanceChangesFor(reversingLines, accountsByID)
	if err != nil {
		return nil, err
	}

	originalEntryID := voucher.EntryID
	reversingEntry := domain.JournalEntry{
		EntryID:         entryID,
		BusinessID:      businessID,
		EntryDate:       now,
		SourceType:      voucher.SourceType() + "_void",
		SourceID:        voucher.VoucherID,
		Description:     "Void of " + voucher.Description,
		Status:          domain.Posted,
		OriginalEntryID: &originalEntryID,
		Lines:           reversingLines,
		AuditFields:     audit,
	}

	void := portsrepo.VoucherVoid{
		Voucher:        *voucher,
		ReversingEntry: reversingEntry,
		BalanceChanges: balanceChanges,
	}

	reversed, err := withConflictRetry(ctx, s.cfg.PostingMaxRetries, s.cfg.PostingRetryBackoff, func() (*domain.JournalEntry, error) {
		return s.journalRepo.VoidVoucher(ctx, void)
	})
	if err != nil {
		logger.Error("Failed to void voucher", slog.String("error", err.Error()), slog.String("voucher_id", voucher.VoucherID))
		return nil, err
	}

	voucher.Status = domain.VoucherVoid
	voucher.ReversingEntryID = reversed.EntryID
	voucher.LastUpdatedAt = now
	voucher.LastUpdatedBy = userID

	logger.Info("Voucher voided",
		slog.String("voucher_id", voucher.VoucherID),
		slog.String("reversing_entry_id", reversed.EntryID),
	)
	return voucher, nil
}
