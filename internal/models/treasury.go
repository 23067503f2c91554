package models

import (
	"github.com/shopspring/decimal"
)

// TreasuryType distinguishes cash pools from bank accounts.
type TreasuryType string

const (
	Cash TreasuryType = "CASH"
	Bank TreasuryType = "BANK"
)

// Treasury is the database representation of a cash/bank pool.
type Treasury struct {
	TreasuryID      string       `db:"treasury_id"`
	BusinessID      string       `db:"business_id"`
	Code            string       `db:"code"`
	Name            string       `db:"name"`
	TreasuryType    TreasuryType `db:"treasury_type"`
	LinkedAccountID string       `db:"linked_account_id"`
	CurrencyCode    string       `db:"currency_code"`
	IsActive        bool         `db:"is_active"`
	AuditFields
	Balance decimal.Decimal `db:"balance"`
}

// MovementDirection indicates whether a movement adds or removes funds.
type MovementDirection string

const (
	In  MovementDirection = "IN"
	Out MovementDirection = "OUT"
)

// TreasuryMovement is one row of a treasury's append-only movement sequence.
type TreasuryMovement struct {
	MovementID    string            `db:"movement_id"`
	TreasuryID    string            `db:"treasury_id"`
	Direction     MovementDirection `db:"direction"`
	Amount        decimal.Decimal   `db:"amount"`
	BalanceBefore decimal.Decimal   `db:"balance_before"`
	BalanceAfter  decimal.Decimal   `db:"balance_after"`
	VoucherID     string            `db:"voucher_id"` // nullable
	EntryID       string            `db:"entry_id"`
	AuditFields
}
