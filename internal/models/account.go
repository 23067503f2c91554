package models

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account is the database representation of a chart-of-accounts node.
type Account struct {
	AccountID       string      `db:"account_id"`
	BusinessID      string      `db:"business_id"`
	Code            string      `db:"code"`
	Name            string      `db:"name"`
	AccountType     AccountType `db:"account_type"`
	CurrencyCode    string      `db:"currency_code"`
	ParentAccountID string      `db:"parent_account_id"` // nullable
	Level           int         `db:"level"`
	IsActive        bool        `db:"is_active"`
	AuditFields
	Balance decimal.Decimal `db:"balance"`
}
