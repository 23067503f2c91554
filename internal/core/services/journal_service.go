package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gridops/utility_ledger_app/internal/apperrors"
	"github.com/gridops/utility_ledger_app/internal/core/domain"
	portsrepo "github.com/gridops/utility_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/gridops/utility_ledger_app/internal/core/ports/services"
	"github.com/gridops/utility_ledger_app/internal/dto"
	"github.com/gridops/utility_ledger_app/internal/middleware"
	"github.com/gridops/utility_ledger_app/internal/platform/config"
	"github.com/gridops/utility_ledger_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// journalService is the posting engine: it validates business events into
// balanced, immutable journal entries.
type journalService struct {
	journalRepo  portsrepo.JournalRepositoryFacade
	accountSvc   portssvc.AccountSvcFacade
	currencyRepo portsrepo.CurrencyRepository
	cfg          *config.Config
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountSvc portssvc.AccountSvcFacade, currencyRepo portsrepo.CurrencyRepository, cfg *config.Config) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo:  journalRepo,
		accountSvc:   accountSvc,
		currencyRepo: currencyRepo,
		cfg:          cfg,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// buildLines converts request lines into domain lines with base amounts
// computed at the fixed base-currency scale. Line order is assigned from 1 in
// the order supplied.
func (s *journalService) buildLines(ctx context.Context, entryID string, reqLines []dto.EntryLineRequest, now time.Time, userID string) ([]domain.JournalLine, error) {
	lines := make([]domain.JournalLine, len(reqLines))
	for i, lr := range reqLines {
		debitSet := lr.Debit.IsPositive()
		creditSet := lr.Credit.IsPositive()
		if debitSet == creditSet {
			return nil, fmt.Errorf("%w: line %d must carry exactly one of debit or credit", apperrors.ErrValidation, i+1)
		}

		if _, err := s.currencyRepo.FindCurrencyByCode(ctx, lr.CurrencyCode); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: unknown currency %q on line %d", apperrors.ErrValidation, lr.CurrencyCode, i+1)
			}
			return nil, fmt.Errorf("failed to validate line currency: %w", err)
		}

		rate := lr.ExchangeRate
		if lr.CurrencyCode == s.cfg.BaseCurrencyCode && !rate.Equal(decimal.NewFromInt(1)) {
			return nil, fmt.Errorf("%w: base currency lines must use exchange rate 1", apperrors.ErrValidation)
		}

		scale := int32(s.cfg.BaseCurrencyScale)
		lines[i] = domain.JournalLine{
			LineID:       uuid.NewString(),
			EntryID:      entryID,
			AccountID:    lr.AccountID,
			Debit:        lr.Debit,
			Credit:       lr.Credit,
			CurrencyCode: lr.CurrencyCode,
			ExchangeRate: rate,
			BaseDebit:    lr.Debit.Mul(rate).Round(scale),
			BaseCredit:   lr.Credit.Mul(rate).Round(scale),
			LineNo:       i + 1,
			Description:  lr.Description,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}
	return lines, nil
}

// balanceChangesFor computes the net signed base-amount delta per account for
// a set of lines, using the account types from accountsByID.
func balanceChangesFor(lines []domain.JournalLine, accountsByID map[string]domain.Account) (map[string]decimal.Decimal, error) {
	changes := make(map[string]decimal.Decimal)
	for _, line := range lines {
		account, ok := accountsByID[line.AccountID]
		if !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, line.AccountID)
		}
		signed, err := accounting.SignedBaseAmount(line, account.AccountType)
		if err != nil {
			return nil, err
		}
		changes[line.AccountID] = changes[line.AccountID].Add(signed)
	}
	return changes, nil
}

// PostEntry validates and persists a balanced journal entry.
func (s *journalService) PostEntry(ctx context.Context, businessID string, req dto.PostEntryRequest, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(req.Lines) < 2 {
		return nil, apperrors.ErrEmptyEntry
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()

	lines, err := s.buildLines(ctx, entryID, req.Lines, now, userID)
	if err != nil {
		return nil, err
	}

	if err := accounting.ValidateEntryBalance(lines); err != nil {
		return nil, err
	}

	accountIDs := make([]string, 0, len(lines))
	for _, line := range lines {
		accountIDs = append(accountIDs, line.AccountID)
	}
	accountsByID, err := s.accountSvc.GetAccountsByIDs(ctx, businessID, uniqueStrings(accountIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for id, acc := range accountsByID {
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, id)
		}
	}

	balanceChanges, err := balanceChangesFor(lines, accountsByID)
	if err != nil {
		return nil, err
	}

	entry := domain.JournalEntry{
		EntryID:     entryID,
		BusinessID:  businessID,
		EntryDate:   req.Date,
		SourceType:  req.SourceType,
		SourceID:    req.SourceID,
		Description: req.Description,
		Status:      domain.Posted,
		Lines:       lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	posted, err := withConflictRetry(ctx, s.cfg.PostingMaxRetries, s.cfg.PostingRetryBackoff, func() (*domain.JournalEntry, error) {
		return s.journalRepo.PostEntry(ctx, entry, balanceChanges)
	})
	if err != nil {
		logger.Error("Failed to post entry", slog.String("error", err.Error()), slog.String("source_type", req.SourceType))
		return nil, err
	}

	logger.Info("Journal entry posted",
		slog.String("entry_id", posted.EntryID),
		slog.String("entry_number", posted.EntryNumber),
		slog.Int("lines", len(lines)),
	)
	return posted, nil
}

// GetEntryByID retrieves an entry and its lines in canonical order.
func (s *journalService) GetEntryByID(ctx context.Context, businessID, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.BusinessID != businessID {
		// Obscure existence
		return nil, apperrors.ErrNotFound
	}

	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve lines for entry %s: %w", entryID, err)
	}
	entry.Lines = lines
	return entry, nil
}

// ListEntries retrieves a page of the business journal.
func (s *journalService) ListEntries(ctx context.Context, businessID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.journalRepo.ListEntriesByBusiness(ctx, businessID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve entries: %w", err)
	}

	responses := make([]dto.EntryResponse, len(entries))
	for i := range entries {
		responses[i] = dto.ToEntryResponse(&entries[i])
	}
	return &dto.ListEntriesResponse{Entries: responses, NextToken: nextToken}, nil
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
