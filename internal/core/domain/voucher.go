package domain

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

// IsValid reports whether d is a known voucher direction.
func (d VoucherDirection) IsValid() bool {
	return d == Receipt || d == Payment
}

// VoucherStatus tracks the voucher lifecycle. A voucher is created in DRAFT,
// posted exactly once, and may only be voided from POSTED via a reversing
// entry. Posted data is never edited in place.
type VoucherStatus string

const (
	VoucherDraft  VoucherStatus = "DRAFT"
	VoucherPosted VoucherStatus = "POSTED"
	VoucherVoid   VoucherStatus = "VOID"
)

// Voucher is a receipt or payment against a treasury, optionally tied to a
// party. The counter account names the revenue/expense/party-control account
// for the non-treasury side of the journal entry.
type Voucher struct {
	VoucherID        string           `json:"voucherID"`
	BusinessID       string           `json:"businessID"`
	Direction        VoucherDirection `json:"direction"`
	TreasuryID       string           `json:"treasuryID"`
	PartyID          string           `json:"partyID"` // optional
	CounterAccountID string           `json:"counterAccountID"`
	Amount           decimal.Decimal  `json:"amount"` // strictly positive
	CurrencyCode     string           `json:"currencyCode"`
	VoucherDate      time.Time        `json:"voucherDate"`
	Description      string           `json:"description"`
	Status           VoucherStatus    `json:"status"`
	EntryID          string           `json:"entryID"`          // set when posted
	ReversingEntryID string           `json:"reversingEntryID"` // set when voided
	AuditFields
}

// SourceType returns the journal source type string recorded for this voucher.
func (v Voucher) SourceType() string {
	if v.Direction == Payment {
		return "payment_voucher"
	}
	return "receipt_voucher"
}

// MovementDirection returns the treasury movement direction a posting of this
// voucher produces.
func (v Voucher) MovementDirection() MovementDirection {
	if v.Direction == Payment {
		return Out
	}
	return In
}
