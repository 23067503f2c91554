package accounting

import (
	"fmt"

	"github.com/gridops/utility_ledger_app/internal/apperrors"
	"github.com/gridops/utility_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedBaseAmount applies the correct sign to a journal line's base amount
// based on the account type. This is the single definition of the sign
// convention, used by services and repositories alike.
//
// DEBIT to ASSET/EXPENSE -> Positive (+)
// CREDIT to ASSET/EXPENSE -> Negative (-)
// DEBIT to LIABILITY/EQUITY/REVENUE -> Negative (-)
// CREDIT to LIABILITY/EQUITY/REVENUE -> Positive (+)
func SignedBaseAmount(line domain.JournalLine, accountType domain.AccountType) (decimal.Decimal, error) {
	amount := line.BaseDebit
	isDebit := line.IsDebit()
	if !isDebit {
		amount = line.BaseCredit
	}

	switch accountType {
	case domain.Asset, domain.Expense:
		if !isDebit {
			amount = amount.Neg()
		}
	case domain.Liability, domain.Equity, domain.Revenue:
		if isDebit {
			amount = amount.Neg()
		}
	default:
		return decimal.Zero, fmt.Errorf("unknown account type %q for account ID %s", accountType, line.AccountID)
	}
	return amount, nil
}

// ValidateEntryBalance checks the fundamental double-entry contract over a set
// of journal lines: at least two lines, exactly one positive side per line,
// and sum(base debit) == sum(base credit) with zero tolerance.
func ValidateEntryBalance(lines []domain.JournalLine) error {
	if len(lines) < 2 {
		return apperrors.ErrEmptyEntry
	}

	debitsSum := decimal.Zero
	creditsSum := decimal.Zero

	for _, line := range lines {
		debitSet := line.Debit.IsPositive()
		creditSet := line.Credit.IsPositive()
		if debitSet == creditSet {
			return fmt.Errorf("%w: line %d must carry exactly one of debit or credit", apperrors.ErrValidation, line.LineNo)
		}
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return fmt.Errorf("%w: line %d carries a negative amount", apperrors.ErrValidation, line.LineNo)
		}
		debitsSum = debitsSum.Add(line.BaseDebit)
		creditsSum = creditsSum.Add(line.BaseCredit)
	}

	if !debitsSum.Equal(creditsSum) {
		return fmt.Errorf("%w: base debits sum to %s, base credits to %s",
			apperrors.ErrUnbalancedEntry, debitsSum.String(), creditsSum.String())
	}

	return nil
}

// ApplyMovement computes the balance after a treasury movement from the balance
// before it, per the movement direction.
func ApplyMovement(before decimal.Decimal, direction domain.MovementDirection, amount decimal.Decimal) decimal.Decimal {
	if direction == domain.Out {
		return before.Sub(amount)
	}
	return before.Add(amount)
}

// ApplyPartyTransaction computes a party balance after a transaction. Debit
// increases the party balance, credit decreases it.
func ApplyPartyTransaction(before decimal.Decimal, kind domain.PartyTransactionKind, amount decimal.Decimal) decimal.Decimal {
	if kind == domain.PartyCredit {
		return before.Sub(amount)
	}
	return before.Add(amount)
}
