package domain

import (
	"github.com/shopspring/decimal"
)

// TreasuryType distinguishes physical cash pools from bank accounts.
type TreasuryType string

const (
	Cash TreasuryType = "CASH"
	Bank TreasuryType = "BANK"
)

// IsValid reports whether t is a known treasury type.
func (t TreasuryType) IsValid() bool {
	return t == Cash || t == Bank
}

// Treasury is a named cash or bank pool. Exactly one ledger account represents
// its balance; the stored Balance snapshot must always equal both the fold over
// its movements and the linked account's ledger balance.
type Treasury struct {
	TreasuryID      string       `json:"treasuryID"`
	BusinessID      string       `json:"businessID"`
	Code            string       `json:"code"`
	Name            string       `json:"name"`
	TreasuryType    TreasuryType `json:"treasuryType"`
	LinkedAccountID string       `json:"linkedAccountID"`
	CurrencyCode    string       `json:"currencyCode"`
	IsActive        bool         `json:"isActive"`
	AuditFields
	Balance decimal.Decimal `json:"balance"`
}

// MovementDirection indicates whether a treasury movement adds or removes funds.
type MovementDirection string

const (
	In  MovementDirection = "IN"
	Out MovementDirection = "OUT"
)

// TreasuryMovement is one step in a treasury's strictly ordered, append-only
// movement sequence. BalanceAfter = BalanceBefore + Amount for IN and
// BalanceBefore - Amount for OUT; the sequence is written only by the posting
// engine, never directly.
type TreasuryMovement struct {
	MovementID    string            `json:"movementID"`
	TreasuryID    string            `json:"treasuryID"`
	Direction     MovementDirection `json:"direction"`
	Amount        decimal.Decimal   `json:"amount"`
	BalanceBefore decimal.Decimal   `json:"balanceBefore"`
	BalanceAfter  decimal.Decimal   `json:"balanceAfter"`
	VoucherID     string            `json:"voucherID"` // empty for treasury transfers
	EntryID       string            `json:"entryID"`
	AuditFields
}
