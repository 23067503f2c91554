package repositories

import (
	"context"
	"time"

	"github.com/gridops/utility_ledger_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for chart-of-accounts data
type AccountReader interface {
	// FindAccountByID retrieves an account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its business-scoped code.
	FindAccountByCode(ctx context.Context, businessID, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts keyed by ID.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccountsByBusiness retrieves all accounts for a business, ordered by code.
	ListAccountsByBusiness(ctx context.Context, businessID string) ([]domain.Account, error)

	// ResolveBalance recomputes an account balance purely from posted journal
	// lines, signed by account type, up to and including asOf (nil = all).
	ResolveBalance(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, error)

	// HasPostedLines reports whether any posted journal line references the account.
	HasPostedLines(ctx context.Context, accountID string) (bool, error)
}

// AccountWriter defines write operations for chart-of-accounts data
type AccountWriter interface {
	// SaveAccount inserts a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount persists mutable account fields (name, type, active flag).
	UpdateAccount(ctx context.Context, account domain.Account) error

	// FindAccountsByIDsForUpdate locks the given account rows within tx and
	// returns them. Fails with ErrNotFound if any account is missing.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error)

	// UpdateAccountBalancesInTx applies signed balance deltas to the given
	// accounts within tx. Rows must already be locked.
	UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
