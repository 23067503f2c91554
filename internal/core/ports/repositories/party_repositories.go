package repositories

import (
	"context"

	"github.com/gridops/utility_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PartyReader defines read operations for party data
type PartyReader interface {
	// FindPartyByID retrieves a party by its unique identifier.
	FindPartyByID(ctx context.Context, partyID string) (*domain.Party, error)

	// ListPartiesByBusiness retrieves all parties for a business, ordered by code.
	ListPartiesByBusiness(ctx context.Context, businessID string) ([]domain.Party, error)

	// ListTransactionsByPartyID retrieves a paginated transaction history, newest first.
	ListTransactionsByPartyID(ctx context.Context, partyID string, limit int, nextToken *string) ([]domain.PartyTransaction, *string, error)

	// RecomputePartyBalance folds over the full transaction history and returns
	// the recomputed balance alongside the last transaction's balance_after.
	RecomputePartyBalance(ctx context.Context, partyID string) (folded decimal.Decimal, lastAfter decimal.Decimal, err error)
}

// PartyWriter defines write operations for party data
type PartyWriter interface {
	// SaveParty inserts a new party.
	SaveParty(ctx context.Context, party domain.Party) error
}

// PartyRepositoryFacade combines all party repository interfaces
type PartyRepositoryFacade interface {
	PartyReader
	PartyWriter
}
