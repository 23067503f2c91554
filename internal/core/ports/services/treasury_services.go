package services

import (
	"context"

	"github.com/gridops/utility_ledger_app/internal/core/domain"
	"github.com/gridops/utility_ledger_app/internal/dto"
	"github.com/shopspring/decimal"
)

// TreasurySvcFacade defines the treasury store operations exposed to callers.
type TreasurySvcFacade interface {
	// CreateTreasury creates a cash/bank pool backed by exactly one ledger account.
	CreateTreasury(ctx context.Context, businessID string, req dto.CreateTreasuryRequest, creatorUserID string) (*domain.Treasury, error)

	// GetTreasuryByID retrieves a treasury scoped to the business.
	GetTreasuryByID(ctx context.Context, businessID, treasuryID string) (*domain.Treasury, error)

	// ListTreasuries retrieves all treasuries of the business.
	ListTreasuries(ctx context.Context, businessID string) ([]domain.Treasury, error)

	// CurrentBalance returns the treasury balance, cross-checking the stored
	// snapshot against the recomputed movement fold. Divergence is a fatal
	// ConsistencyFault, not a retryable error.
	CurrentBalance(ctx context.Context, businessID, treasuryID string) (decimal.Decimal, error)

	// ListMovements retrieves a page of the treasury's movement history.
	ListMovements(ctx context.Context, businessID, treasuryID string, limit int, nextToken *string) (*dto.ListMovementsResponse, error)

	// Transfer posts a balanced journal entry moving funds between two
	// treasuries of the business, with one OUT and one IN movement.
	Transfer(ctx context.Context, businessID string, req dto.TransferRequest, userID string) (*domain.JournalEntry, error)
}
