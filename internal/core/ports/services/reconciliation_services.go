package services

import (
	"context"

	"github.com/gridops/utility_ledger_app/internal/dto"
)

// ReconciliationSvcFacade defines the balance projector operations. Each check
// recomputes a balance purely by folding over ordered history and compares it
// to the stored snapshot. Mismatches are reported, never auto-corrected.
type ReconciliationSvcFacade interface {
	ReconcileTreasury(ctx context.Context, businessID, treasuryID string) (*dto.ReconcileResponse, error)
	ReconcileAccount(ctx context.Context, businessID, accountID string) (*dto.ReconcileResponse, error)
	ReconcileParty(ctx context.Context, businessID, partyID string) (*dto.ReconcileResponse, error)
}
