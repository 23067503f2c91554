package repositories

import (
	"context"

	"github.com/gridops/utility_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TreasuryReader defines read operations for treasury data
type TreasuryReader interface {
	// FindTreasuryByID retrieves a treasury by its unique identifier.
	FindTreasuryByID(ctx context.Context, treasuryID string) (*domain.Treasury, error)

	// FindTreasuryByCode retrieves a treasury by its business-scoped code.
	FindTreasuryByCode(ctx context.Context, businessID, code string) (*domain.Treasury, error)

	// ListTreasuriesByBusiness retrieves all treasuries for a business, ordered by code.
	ListTreasuriesByBusiness(ctx context.Context, businessID string) ([]domain.Treasury, error)

	// ListMovementsByTreasuryID retrieves a paginated movement history, newest first.
	ListMovementsByTreasuryID(ctx context.Context, treasuryID string, limit int, nextToken *string) ([]domain.TreasuryMovement, *string, error)

	// RecomputeTreasuryBalance folds over the full movement history and returns
	// the recomputed balance alongside the last movement's balance_after. Both
	// are decimal.Zero for a treasury with no movements.
	RecomputeTreasuryBalance(ctx context.Context, treasuryID string) (folded decimal.Decimal, lastAfter decimal.Decimal, err error)
}

// TreasuryWriter defines write operations for treasury data
type TreasuryWriter interface {
	// SaveTreasury inserts a new treasury.
	SaveTreasury(ctx context.Context, treasury domain.Treasury) error
}

// TreasuryRepositoryFacade combines all treasury repository interfaces
type TreasuryRepositoryFacade interface {
	TreasuryReader
	TreasuryWriter
}
