package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry. Entries are created
// already posted; there is no draft state for entries themselves.
type EntryStatus string

const (
	Posted   EntryStatus = "POSTED"
	Reversed EntryStatus = "REVERSED"
)

// SourceTypeTreasuryTransfer is the journal source type recorded for
// treasury-to-treasury transfer entries.
const SourceTypeTreasuryTransfer = "treasury_transfer"

// JournalEntry is a single balanced financial event in the ledger, composed of
// at least two journal lines. Once committed, the entry and its lines are
// permanently immutable; correction is only by a new offsetting entry.
type JournalEntry struct {
	EntryID     string      `json:"entryID"`
	BusinessID  string      `json:"businessID"`
	EntryNumber string      `json:"entryNumber"` // {PREFIX}-{scope}-{sequence}, monotonic per scope
	EntryDate   time.Time   `json:"entryDate"`
	SourceType  string      `json:"sourceType"` // e.g. "payment_voucher", "treasury_transfer"
	SourceID    string      `json:"sourceID"`
	Description string      `json:"description"`
	Status      EntryStatus `json:"status"`
	// Reversal linkage. An entry that offsets another records the original; the
	// reversed original records which entry reversed it.
	OriginalEntryID  *string `json:"originalEntryID,omitempty"`
	ReversingEntryID *string `json:"reversingEntryID,omitempty"`
	AuditFields
	Lines []JournalLine `json:"lines,omitempty"`
}

// JournalLine is one side of a journal entry, affecting exactly one account.
// Exactly one of Debit/Credit is non-zero; the other is exactly zero. Base
// amounts are the line amounts converted to the business base currency at
// ExchangeRate, and the entry balances in base currency to the configured
// decimal scale with zero tolerance.
type JournalLine struct {
	LineID       string          `json:"lineID"`
	EntryID      string          `json:"entryID"`
	AccountID    string          `json:"accountID"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	CurrencyCode string          `json:"currencyCode"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"` // rate to base currency
	BaseDebit    decimal.Decimal `json:"baseDebit"`
	BaseCredit   decimal.Decimal `json:"baseCredit"`
	LineNo       int             `json:"lineNo"` // starts at 1, canonical ordering
	Description  string          `json:"description"`
	AuditFields
}

// IsDebit reports whether the line carries its amount on the debit side.
func (l JournalLine) IsDebit() bool {
	return l.Debit.IsPositive()
}

// Amount returns the non-zero side of the line.
func (l JournalLine) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.Debit
	}
	return l.Credit
}
