package domain

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

// IsValid reports whether t is one of the five chart-of-account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// Account is a node in the hierarchical chart of accounts. Codes are unique per
// business scope; every non-root account has a parent whose level is exactly one
// less than its own. The account type is immutable once a posted journal line
// references the account.
type Account struct {
	AccountID       string      `json:"accountID"`
	BusinessID      string      `json:"businessID"`
	Code            string      `json:"code"`
	Name            string      `json:"name"`
	AccountType     AccountType `json:"accountType"`
	CurrencyCode    string      `json:"currencyCode"`
	ParentAccountID string      `json:"parentAccountID"` // empty for root accounts
	Level           int         `json:"level"`           // root = 1
	IsActive        bool        `json:"isActive"`
	AuditFields
	// Balance is a cached snapshot maintained by the posting engine under row
	// locks. It must always reconcile with the fold over posted journal lines.
	Balance decimal.Decimal `json:"balance"`
}
