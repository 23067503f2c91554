package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoucherDirection indicates whether a voucher brings money in or pays it out.
type VoucherDirection string

const (
	Receipt VoucherDirection = "RECEIPT"
	Payment VoucherDirection = "PAYMENT"
)

// VoucherStatus tracks the voucher lifecycle.
type VoucherStatus string

const (
	VoucherDraft  VoucherStatus = "DRAFT"
	VoucherPosted VoucherStatus = "POSTED"
	VoucherVoid   VoucherStatus = "VOID"
)

// Voucher is the database representation of a receipt/payment voucher.
type Voucher struct {
	VoucherID        string           `db:"voucher_id"`
	BusinessID       string           `db:"business_id"`
	Direction        VoucherDirection `db:"direction"`
	TreasuryID       string           `db:"treasury_id"`
	PartyID          string           `db:"party_id"` // nullable
	CounterAccountID string           `db:"counter_account_id"`
	Amount           decimal.Decimal  `db:"amount"`
	CurrencyCode     string           `db:"currency_code"`
	VoucherDate      time.Time        `db:"voucher_date"`
	Description      string           `db:"description"`
	Status           VoucherStatus    `db:"status"`
	EntryID          string           `db:"entry_id"`           // nullable until posted
	ReversingEntryID string           `db:"reversing_entry_id"` // nullable until voided
	AuditFields
}
