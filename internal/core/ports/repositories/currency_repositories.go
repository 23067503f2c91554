package repositories

import (
	"context"

	"github.com/gridops/utility_ledger_app/internal/core/domain"
)

// CurrencyRepository defines operations for currency reference data.
type CurrencyRepository interface {
	// SaveCurrency inserts a new currency.
	SaveCurrency(ctx context.Context, currency domain.Currency) error

	// FindCurrencyByCode retrieves a currency by its ISO code.
	FindCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error)

	// ListCurrencies retrieves all known currencies.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}
