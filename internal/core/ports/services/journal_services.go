package services

import (
	"context"

	"github.com/gridops/utility_ledger_app/internal/core/domain"
	"github.com/gridops/utility_ledger_app/internal/dto"
)

// JournalSvcFacade defines the posting engine operations exposed to callers.
type JournalSvcFacade interface {
	// PostEntry validates and persists a balanced journal entry for an
	// arbitrary business event. Fails with ErrEmptyEntry for fewer than two
	// lines and ErrUnbalancedEntry when base debits and credits differ.
	PostEntry(ctx context.Context, businessID string, req dto.PostEntryRequest, userID string) (*domain.JournalEntry, error)

	// GetEntryByID retrieves an entry with its lines in canonical order.
	GetEntryByID(ctx context.Context, businessID, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a page of the business journal, newest first.
	ListEntries(ctx context.Context, businessID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}
