package dto

import (
	"github.com/shopspring/decimal"
)

// ReconcileResponse reports a stored balance snapshot against the balance
// recomputed from history. A mismatch is reported, never auto-corrected.
type ReconcileResponse struct {
	Kind       string          `json:"kind"` // treasury | account | party
	ID         string          `json:"id"`
	Stored     decimal.Decimal `json:"stored"`
	Recomputed decimal.Decimal `json:"recomputed"`
	Matches    bool            `json:"matches"`
}
