package apperrors

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ConsistencyFault reports a divergence between a stored balance snapshot and the
// balance recomputed from history. It is never auto-corrected: guessing which side
// is wrong risks silently destroying financial history, so the fault is surfaced
// as a blocking condition carrying both values for manual investigation.
type ConsistencyFault struct {
	AggregateKind string // "treasury", "account" or "party"
	AggregateID   string
	Stored        decimal.Decimal
	Recomputed    decimal.Decimal
}

func (e *ConsistencyFault) Error() string {
	return fmt.Sprintf("consistency fault on %s %s: stored balance %s, recomputed %s",
		e.AggregateKind, e.AggregateID, e.Stored.String(), e.Recomputed.String())
}

// NewConsistencyFault builds a ConsistencyFault for the given aggregate.
func NewConsistencyFault(kind, id string, stored, recomputed decimal.Decimal) *ConsistencyFault {
	return &ConsistencyFault{
		AggregateKind: kind,
		AggregateID:   id,
		Stored:        stored,
		Recomputed:    recomputed,
	}
}
