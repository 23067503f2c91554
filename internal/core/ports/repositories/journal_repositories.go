package repositories

import (
	"context"

	"github.com/gridops/utility_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// VoucherPosting carries everything the posting engine writes when a voucher is
// posted: the validated draft voucher, the balanced entry draft (lines included,
// entry number not yet assigned) and the signed account balance deltas.
type VoucherPosting struct {
	Voucher        domain.Voucher
	Entry          domain.JournalEntry
	BalanceChanges map[string]decimal.Decimal
}

// VoucherVoid carries the reversal of a posted voucher: the voucher itself and
// the reversing entry draft whose lines are the exact debit/credit swap of the
// original.
type VoucherVoid struct {
	Voucher        domain.Voucher
	ReversingEntry domain.JournalEntry
	BalanceChanges map[string]decimal.Decimal
}

// TreasuryTransfer carries a balanced transfer posting between two treasuries.
type TreasuryTransfer struct {
	FromTreasuryID string
	ToTreasuryID   string
	Amount         decimal.Decimal
	Entry          domain.JournalEntry
	BalanceChanges map[string]decimal.Decimal
}

// JournalReader defines read operations for ledger data
type JournalReader interface {
	// FindEntryByID retrieves a journal entry by its unique identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves all lines of an entry in canonical line order.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)

	// ListEntriesByBusiness retrieves a paginated list of entries, newest first.
	ListEntriesByBusiness(ctx context.Context, businessID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// PostingWriter defines the atomic write paths of the posting engine. Each
// method runs one database transaction: sequence, entry, lines, balance
// snapshots and movement rows commit together or not at all. Lock contention
// surfaces as ErrConflict; a failed treasury funds check as ErrInsufficientFunds.
type PostingWriter interface {
	// PostEntry assigns the next entry number for the business scope and
	// persists the entry with its lines, applying account balance deltas under
	// row locks.
	PostEntry(ctx context.Context, entry domain.JournalEntry, balanceChanges map[string]decimal.Decimal) (*domain.JournalEntry, error)

	// PostVoucher runs the full voucher posting unit of work: funds check for
	// payments, journal entry, treasury movement, optional party transaction,
	// voucher status transition.
	PostVoucher(ctx context.Context, posting VoucherPosting) (*domain.JournalEntry, error)

	// VoidVoucher posts the reversing entry and movements for a posted voucher
	// and marks it void.
	VoidVoucher(ctx context.Context, void VoucherVoid) (*domain.JournalEntry, error)

	// Transfer posts a balanced entry between two treasuries with one OUT and
	// one IN movement.
	Transfer(ctx context.Context, transfer TreasuryTransfer) (*domain.JournalEntry, error)
}

// JournalRepositoryFacade combines all ledger repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	PostingWriter
}
