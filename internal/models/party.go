package models

import (
	"github.com/shopspring/decimal"
)

// PartyKind distinguishes customers from suppliers.
type PartyKind string

const (
	Customer PartyKind = "CUSTOMER"
	Supplier PartyKind = "SUPPLIER"
)

// Party is the database representation of an external counterpart.
type Party struct {
	PartyID    string    `db:"party_id"`
	BusinessID string    `db:"business_id"`
	Code       string    `db:"code"`
	Name       string    `db:"name"`
	Kind       PartyKind `db:"kind"`
	IsActive   bool      `db:"is_active"`
	AuditFields
	Balance decimal.Decimal `db:"balance"`
}

// PartyTransactionKind indicates the side of a party transaction.
type PartyTransactionKind string

const (
	PartyDebit  PartyTransactionKind = "DEBIT"
	PartyCredit PartyTransactionKind = "CREDIT"
)

// PartyTransaction is one row of a party's append-only transaction sequence.
type PartyTransaction struct {
	TransactionID string               `db:"transaction_id"`
	PartyID       string               `db:"party_id"`
	Kind          PartyTransactionKind `db:"kind"`
	Amount        decimal.Decimal      `db:"amount"`
	BalanceBefore decimal.Decimal      `db:"balance_before"`
	BalanceAfter  decimal.Decimal      `db:"balance_after"`
	ReferenceType string               `db:"reference_type"`
	ReferenceID   string               `db:"reference_id"`
	AuditFields
}
