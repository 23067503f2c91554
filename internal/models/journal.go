package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry.
type EntryStatus string

const (
	Posted   EntryStatus = "POSTED"
	Reversed EntryStatus = "REVERSED"
)

// JournalEntry is the database representation of a balanced ledger entry.
type JournalEntry struct {
	EntryID          string      `db:"entry_id"`
	BusinessID       string      `db:"business_id"`
	EntryNumber      string      `db:"entry_number"`
	EntryDate        time.Time   `db:"entry_date"`
	SourceType       string      `db:"source_type"`
	SourceID         string      `db:"source_id"`
	Description      string      `db:"description"`
	Status           EntryStatus `db:"status"`
	OriginalEntryID  *string     `db:"original_entry_id"`
	ReversingEntryID *string     `db:"reversing_entry_id"`
	AuditFields
}

// JournalLine is the database representation of one side of a journal entry.
// Lines are insert-only; there is no update path for this table.
type JournalLine struct {
	LineID       string          `db:"line_id"`
	EntryID      string          `db:"entry_id"`
	AccountID    string          `db:"account_id"`
	Debit        decimal.Decimal `db:"debit"`
	Credit       decimal.Decimal `db:"credit"`
	CurrencyCode string          `db:"currency_code"`
	ExchangeRate decimal.Decimal `db:"exchange_rate"`
	BaseDebit    decimal.Decimal `db:"base_debit"`
	BaseCredit   decimal.Decimal `db:"base_credit"`
	LineNo       int             `db:"line_no"`
	Description  string          `db:"description"`
	AuditFields
}
