package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gridops/utility_ledger_app/internal/apperrors"
	portsrepo "github.com/gridops/utility_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/gridops/utility_ledger_app/internal/core/ports/services"
	"github.com/gridops/utility_ledger_app/internal/dto"
	"github.com/gridops/utility_ledger_app/internal/middleware"
)

// reconciliationService recomputes cached balance snapshots from history and
// reports divergence. It never writes: a mismatch is an operator problem, not
// something to repair in-line.
type reconciliationService struct {
	accountRepo  portsrepo.AccountRepositoryFacade
	treasuryRepo portsrepo.TreasuryRepositoryFacade
	partyRepo    portsrepo.PartyRepositoryFacade
}

// NewReconciliationService creates a new ReconciliationService.
func NewReconciliationService(accountRepo portsrepo.AccountRepositoryFacade, treasuryRepo portsrepo.TreasuryRepositoryFacade, partyRepo portsrepo.PartyRepositoryFacade) portssvc.ReconciliationSvcFacade {
	return &reconciliationService{
		accountRepo:  accountRepo,
		treasuryRepo: treasuryRepo,
		partyRepo:    partyRepo,
	}
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// ReconcileTreasury compares the treasury's stored balance with the fold over
// its movement history and with the linked account's ledger balance. The
// movements and the linked account are written by the same posting
// transactions, so all four values must agree.
func (s *reconciliationService) ReconcileTreasury(ctx context.Context, businessID, treasuryID string) (*dto.ReconcileResponse, error) {
	treasury, err := s.treasuryRepo.FindTreasuryByID(ctx, treasuryID)
	if err != nil {
		return nil, err
	}
	if treasury.BusinessID != businessID {
		return nil, apperrors.ErrNotFound
	}

	folded, lastAfter, err := s.treasuryRepo.RecomputeTreasuryBalance(ctx, treasuryID)
	if err != nil {
		return nil, fmt.Errorf("failed to recompute treasury balance: %w", err)
	}

	ledger, err := s.accountRepo.ResolveBalance(ctx, treasury.LinkedAccountID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve linked account balance: %w", err)
	}

	matches := treasury.Balance.Equal(folded) && folded.Equal(lastAfter) && folded.Equal(ledger)
	recomputed := folded
	if treasury.Balance.Equal(folded) && !folded.Equal(ledger) {
		// Movement history agrees with the snapshot; report the diverging
		// linked account ledger instead.
		recomputed = ledger
	}
	s.logMismatch(ctx, matches, "treasury", treasuryID, treasury.Balance.String(), recomputed.String())
	return &dto.ReconcileResponse{
		Kind:       "treasury",
		ID:         treasuryID,
		Stored:     treasury.Balance,
		Recomputed: recomputed,
		Matches:    matches,
	}, nil
}

// ReconcileAccount compares the account's stored balance with the signed sum
// over its posted journal lines.
func (s *reconciliationService) ReconcileAccount(ctx context.Context, businessID, accountID string) (*dto.ReconcileResponse, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.BusinessID != businessID {
		return nil, apperrors.ErrNotFound
	}

	recomputed, err := s.accountRepo.ResolveBalance(ctx, accountID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve account balance: %w", err)
	}

	matches := account.Balance.Equal(recomputed)
	s.logMismatch(ctx, matches, "account", accountID, account.Balance.String(), recomputed.String())
	return &dto.ReconcileResponse{
		Kind:       "account",
		ID:         accountID,
		Stored:     account.Balance,
		Recomputed: recomputed,
		Matches:    matches,
	}, nil
}

// ReconcileParty compares the party's stored balance with the fold over its
// transaction history.
func (s *reconciliationService) ReconcileParty(ctx context.Context, businessID, partyID string) (*dto.ReconcileResponse, error) {
	party, err := s.partyRepo.FindPartyByID(ctx, partyID)
	if err != nil {
		return nil, err
	}
	if party.BusinessID != businessID {
		return nil, apperrors.ErrNotFound
	}

	folded, lastAfter, err := s.partyRepo.RecomputePartyBalance(ctx, partyID)
	if err != nil {
		return nil, fmt.Errorf("failed to recompute party balance: %w", err)
	}

	matches := party.Balance.Equal(folded) && folded.Equal(lastAfter)
	s.logMismatch(ctx, matches, "party", partyID, party.Balance.String(), folded.String())
	return &dto.ReconcileResponse{
		Kind:       "party",
		ID:         partyID,
		Stored:     party.Balance,
		Recomputed: folded,
		Matches:    matches,
	}, nil
}

func (s *reconciliationService) logMismatch(ctx context.Context, matches bool, kind, id, stored, recomputed string) {
	if matches {
		return
	}
	middleware.GetLoggerFromCtx(ctx).Error("Balance reconciliation mismatch",
		slog.String("kind", kind),
		slog.String("id", id),
		slog.String("stored", stored),
		slog.String("recomputed", recomputed),
	)
}
