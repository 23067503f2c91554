package services

import (
	"context"

	"github.com/gridops/utility_ledger_app/internal/core/domain"
	"github.com/gridops/utility_ledger_app/internal/dto"
)

// PartySvcFacade defines the party ledger operations exposed to callers.
type PartySvcFacade interface {
	// CreateParty registers a customer or supplier.
	CreateParty(ctx context.Context, businessID string, req dto.CreatePartyRequest, creatorUserID string) (*domain.Party, error)

	// GetPartyByID retrieves a party scoped to the business.
	GetPartyByID(ctx context.Context, businessID, partyID string) (*domain.Party, error)

	// ListParties retrieves all parties of the business.
	ListParties(ctx context.Context, businessID string) ([]domain.Party, error)

	// ListTransactions retrieves a page of the party's statement, newest first.
	ListTransactions(ctx context.Context, businessID, partyID string, limit int, nextToken *string) (*dto.ListPartyTransactionsResponse, error)
}
