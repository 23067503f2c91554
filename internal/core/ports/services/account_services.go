package services

import (
	"context"
	"time"

	"github.com/gridops/utility_ledger_app/internal/core/domain"
	"github.com/gridops/utility_ledger_app/internal/dto"
	"github.com/shopspring/decimal"
)

// AccountSvcFacade defines the account directory operations exposed to the
// router layer and to the other services.
type AccountSvcFacade interface {
	// CreateAccount creates a node of the chart of accounts. Fails with
	// ErrDuplicateCode if the code exists in the business scope and with
	// ErrInvalidParent if the parent is missing, inactive or out of scope.
	CreateAccount(ctx context.Context, businessID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)

	// UpdateAccount updates the mutable account fields. The account type is
	// immutable once any posted journal line references the account.
	UpdateAccount(ctx context.Context, businessID, accountID string, req dto.UpdateAccountRequest, updaterUserID string) (*domain.Account, error)

	// GetAccountByID retrieves an account scoped to the business.
	GetAccountByID(ctx context.Context, businessID, accountID string) (*domain.Account, error)

	// GetAccountsByIDs retrieves multiple accounts, all scoped to the business.
	GetAccountsByIDs(ctx context.Context, businessID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves the business chart of accounts.
	ListAccounts(ctx context.Context, businessID string) ([]domain.Account, error)

	// ResolveBalance recomputes an account balance from posted journal lines up
	// to asOf. This is a pure projection, never served from the cached column.
	ResolveBalance(ctx context.Context, businessID, accountID string, asOf *time.Time) (decimal.Decimal, error)
}
