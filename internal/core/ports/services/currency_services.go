package services

import (
	"context"

	"github.com/gridops/utility_ledger_app/internal/core/domain"
	"github.com/gridops/utility_ledger_app/internal/dto"
)

// CurrencySvcFacade defines currency reference-data operations.
type CurrencySvcFacade interface {
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error)
	GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}
