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

type treasuryService struct {
	treasuryRepo portsrepo.TreasuryRepositoryFacade
	journalRepo  portsrepo.JournalRepositoryFacade
	accountSvc   portssvc.AccountSvcFacade
	currencyRepo portsrepo.CurrencyRepository
	cfg          *config.Config
}

// NewTreasuryService creates a new TreasuryService.
func NewTreasuryService(treasuryRepo portsrepo.TreasuryRepositoryFacade, journalRepo portsrepo.JournalRepositoryFacade, accountSvc portssvc.AccountSvcFacade, currencyRepo portsrepo.CurrencyRepository, cfg *config.Config) portssvc.TreasurySvcFacade {
	return &treasuryService{
		treasuryRepo: treasuryRepo,
		journalRepo:  journalRepo,
		accountSvc:   accountSvc,
		currencyRepo: currencyRepo,
		cfg:          cfg,
	}
}

var _ portssvc.TreasurySvcFacade = (*treasuryService)(nil)

// CreateTreasury creates a cash/bank pool backed by exactly one asset account.
func (s *treasuryService) CreateTreasury(ctx context.Context, businessID string, req dto.CreateTreasuryRequest, creatorUserID string) (*domain.Treasury, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	treasuryType := domain.TreasuryType(req.TreasuryType)
	if !treasuryType.IsValid() {
		return nil, fmt.Errorf("%w: invalid treasury type %q", apperrors.ErrValidation, req.TreasuryType)
	}

	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, req.CurrencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown currency %q", apperrors.ErrValidation, req.CurrencyCode)
		}
		return nil, fmt.Errorf("failed to validate currency: %w", err)
	}

	linked, err := s.accountSvc.GetAccountByID(ctx, businessID, req.LinkedAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: linked account %s not found", apperrors.ErrValidation, req.LinkedAccountID)
		}
		return nil, fmt.Errorf("failed to fetch linked account: %w", err)
	}
	if !linked.IsActive {
		return nil, fmt.Errorf("%w: linked account %s is inactive", apperrors.ErrValidation, linked.AccountID)
	}
	if linked.AccountType != domain.Asset {
		return nil, fmt.Errorf("%w: linked account must be an asset account, got %s", apperrors.ErrValidation, linked.AccountType)
	}
	if linked.CurrencyCode != req.CurrencyCode {
		return nil, fmt.Errorf("%w: linked account currency %s does not match treasury currency %s", apperrors.ErrValidation, linked.CurrencyCode, req.CurrencyCode)
	}

	if existing, err := s.treasuryRepo.FindTreasuryByCode(ctx, businessID, req.Code); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: treasury code %q already exists", apperrors.ErrDuplicateCode, req.Code)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check code uniqueness: %w", err)
	}

	now := time.Now().UTC()
	treasury := domain.Treasury{
		TreasuryID:      uuid.NewString(),
		BusinessID:      businessID,
		Code:            req.Code,
		Name:            req.Name,
		TreasuryType:    treasuryType,
		LinkedAccountID: linked.AccountID,
		CurrencyCode:    req.CurrencyCode,
		IsActive:        true,
		Balance:         decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.treasuryRepo.SaveTreasury(ctx, treasury); err != nil {
		logger.Error("Failed to save treasury", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save treasury: %w", err)
	}

	logger.Info("Treasury created", slog.String("treasury_id", treasury.TreasuryID), slog.String("code", treasury.Code))
	return &treasury, nil
}

// findScoped fetches a treasury and obscures its existence for other businesses.
func (s *treasuryService) findScoped(ctx context.Context, businessID, treasuryID string) (*domain.Treasury, error) {
	treasury, err := s.treasuryRepo.FindTreasuryByID(ctx, treasuryID)
	if err != nil {
		return nil, err
	}
	if treasury.BusinessID != businessID {
		return nil, apperrors.ErrNotFound
	}
	return treasury, nil
}

// GetTreasuryByID retrieves a treasury scoped to the business.
func (s *treasuryService) GetTreasuryByID(ctx context.Context, businessID, treasuryID string) (*domain.Treasury, error) {
	return s.findScoped(ctx, businessID, treasuryID)
}

// ListTreasuries retrieves all treasuries of the business.
func (s *treasuryService) ListTreasuries(ctx context.Context, businessID string) ([]domain.Treasury, error) {
	return s.treasuryRepo.ListTreasuriesByBusiness(ctx, businessID)
}

// CurrentBalance returns the treasury balance after cross-checking the stored
// snapshot against the movement fold, the last movement's balance_after and
// the linked account's ledger balance. Any divergence is reported as a
// ConsistencyFault and never auto-repaired.
func (s *treasuryService) CurrentBalance(ctx context.Context, businessID, treasuryID string) (decimal.Decimal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	treasury, err := s.findScoped(ctx, businessID, treasuryID)
	if err != nil {
		return decimal.Zero, err
	}

	folded, lastAfter, err := s.treasuryRepo.RecomputeTreasuryBalance(ctx, treasuryID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to recompute treasury balance: %w", err)
	}

	ledger, err := s.accountSvc.ResolveBalance(ctx, businessID, treasury.LinkedAccountID, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to resolve linked account balance: %w", err)
	}

	if !treasury.Balance.Equal(folded) || !folded.Equal(lastAfter) || !folded.Equal(ledger) {
		recomputed := folded
		if treasury.Balance.Equal(folded) && !folded.Equal(ledger) {
			// Movement history agrees with the snapshot; the linked account
			// ledger is the outlier.
			recomputed = ledger
		}
		fault := apperrors.NewConsistencyFault("treasury", treasuryID, treasury.Balance, recomputed)
		logger.Error("Treasury balance diverged",
			slog.String("treasury_id", treasuryID),
			slog.String("stored", treasury.Balance.String()),
			slog.String("recomputed", folded.String()),
			slog.String("last_after", lastAfter.String()),
			slog.String("linked_account_ledger", ledger.String()),
		)
		return decimal.Zero, fault
	}

	return treasury.Balance, nil
}

// ListMovements retrieves a page of the treasury's movement history.
func (s *treasuryService) ListMovements(ctx context.Context, businessID, treasuryID string, limit int, nextToken *string) (*dto.ListMovementsResponse, error) {
	if _, err := s.findScoped(ctx, businessID, treasuryID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	movements, token, err := s.treasuryRepo.ListMovementsByTreasuryID(ctx, treasuryID, limit, nextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve movements: %w", err)
	}
	return &dto.ListMovementsResponse{Movements: dto.ToMovementResponses(movements), NextToken: token}, nil
}

// Transfer posts a balanced entry moving funds between two treasuries of the
// business. The funds check on the source treasury and both movement rows run
// inside the posting transaction.
func (s *treasuryService) Transfer(ctx context.Context, businessID string, req dto.TransferRequest, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.FromTreasuryID == req.ToTreasuryID {
		return nil, fmt.Errorf("%w: source and destination treasuries must differ", apperrors.ErrValidation)
	}
	if !req.Amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}

	from, err := s.findScoped(ctx, businessID, req.FromTreasuryID)
	if err != nil {
		return nil, err
	}
	to, err := s.findScoped(ctx, businessID, req.ToTreasuryID)
	if err != nil {
		return nil, err
	}
	if !from.IsActive || !to.IsActive {
		return nil, fmt.Errorf("%w: both treasuries must be active", apperrors.ErrValidation)
	}
	if from.CurrencyCode != to.CurrencyCode {
		return nil, fmt.Errorf("%w: treasuries use different currencies (%s, %s)", apperrors.ErrValidation, from.CurrencyCode, to.CurrencyCode)
	}
	if from.CurrencyCode != s.cfg.BaseCurrencyCode {
		return nil, fmt.Errorf("%w: transfers are supported in the base currency only", apperrors.ErrValidation)
	}

	accountsByID, err := s.accountSvc.GetAccountsByIDs(ctx, businessID, []string{from.LinkedAccountID, to.LinkedAccountID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch linked accounts: %w", err)
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()
	rate := decimal.NewFromInt(1)
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	lines := []domain.JournalLine{
		{
			LineID:       uuid.NewString(),
			EntryID:      entryID,
			AccountID:    to.LinkedAccountID,
			Debit:        req.Amount,
			CurrencyCode: from.CurrencyCode,
			ExchangeRate: rate,
			BaseDebit:    req.Amount,
			LineNo:       1,
			Description:  req.Description,
			AuditFields:  audit,
		},
		{
			LineID:       uuid.NewString(),
			EntryID:      entryID,
			AccountID:    from.LinkedAccountID,
			Credit:       req.Amount,
			CurrencyCode: from.CurrencyCode,
			ExchangeRate: rate,
			BaseCredit:   req.Amount,
			LineNo:       2,
			Description:  req.Description,
			AuditFields:  audit,
		},
	}

	balanceChanges, err := balanceChangesFor(lines, accountsByID)
	if err != nil {
		return nil, err
	}

	entry := domain.JournalEntry{
		EntryID:     entryID,
		BusinessID:  businessID,
		EntryDate:   req.Date,
		SourceType:  domain.SourceTypeTreasuryTransfer,
		SourceID:    entryID,
		Description: req.Description,
		Status:      domain.Posted,
		Lines:       lines,
		AuditFields: audit,
	}

	transfer := portsrepo.TreasuryTransfer{
		FromTreasuryID: from.TreasuryID,
		ToTreasuryID:   to.TreasuryID,
		Amount:         req.Amount,
		Entry:          entry,
		BalanceChanges: balanceChanges,
	}

	posted, err := withConflictRetry(ctx, s.cfg.PostingMaxRetries, s.cfg.PostingRetryBackoff, func() (*domain.JournalEntry, error) {
		return s.journalRepo.Transfer(ctx, transfer)
	})
	if err != nil {
		logger.Error("Failed to post transfer", slog.String("error", err.Error()),
			slog.String("from_treasury_id", from.TreasuryID), slog.String("to_treasury_id", to.TreasuryID))
		return nil, err
	}

	logger.Info("Treasury transfer posted",
		slog.String("entry_id", posted.EntryID),
		slog.String("from_treasury_id", from.TreasuryID),
		slog.String("to_treasury_id", to.TreasuryID),
		slog.String("amount", req.Amount.String()),
	)
	return posted, nil
}
