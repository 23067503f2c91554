package domain

import (
	"github.com/shopspring/decimal"
)

// PartyKind distinguishes the two external counterpart roles.
type PartyKind string

const (
	Customer PartyKind = "CUSTOMER"
	Supplier PartyKind = "SUPPLIER"
)

// Party is an external counterpart (customer or supplier) whose running balance
// is derived from its transaction history. The stored Balance is a cache
// maintained by the posting engine under row locks.
type Party struct {
	PartyID    string    `json:"partyID"`
	BusinessID string    `json:"businessID"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	Kind       PartyKind `json:"kind"`
	IsActive   bool      `json:"isActive"`
	AuditFields
	Balance decimal.Decimal `json:"balance"`
}

// PartyTransactionKind indicates the side of a party transaction.
type PartyTransactionKind string

const (
	PartyDebit  PartyTransactionKind = "DEBIT"
	PartyCredit PartyTransactionKind = "CREDIT"
)

// PartyTransaction is one step in a party's append-only transaction sequence.
// Debit increases the party balance, credit decreases it;
// BalanceAfter must equal BalanceBefore adjusted by Amount accordingly.
type PartyTransaction struct {
	TransactionID string               `json:"transactionID"`
	PartyID       string               `json:"partyID"`
	Kind          PartyTransactionKind `json:"kind"`
	Amount        decimal.Decimal      `json:"amount"`
	BalanceBefore decimal.Decimal      `json:"balanceBefore"`
	BalanceAfter  decimal.Decimal      `json:"balanceAfter"`
	ReferenceType string               `json:"referenceType"` // e.g. "receipt_voucher"
	ReferenceID   string               `json:"referenceID"`
	AuditFields
}
