package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/gridops/utility_ledger_app/internal/apperrors"
	"github.com/gridops/utility_ledger_app/internal/core/domain"
	portsrepo "github.com/gridops/utility_ledger_app/internal/core/ports/repositories"
	"github.com/gridops/utility_ledger_app/internal/models"
	"github.com/gridops/utility_ledger_app/internal/utils/mapping"
	"github.com/gridops/utility_ledger_app/internal/utils/pagination"
)

type PgxTreasuryRepository struct {
	pool *pgxpool.Pool
}

// newPgxTreasuryRepository creates a new repository for treasury data.
func newPgxTreasuryRepository(pool *pgxpool.Pool) portsrepo.TreasuryRepositoryFacade {
	return &PgxTreasuryRepository{pool: pool}
}

// Ensure PgxTreasuryRepository implements portsrepo.TreasuryRepositoryFacade
var _ portsrepo.TreasuryRepositoryFacade = (*PgxTreasuryRepository)(nil)

const treasuryColumns = `treasury_id, business_id, code, name, treasury_type, linked_account_id, currency_code, is_active, created_at, created_by, last_updated_at, last_updated_by, balance`

func scanTreasury(row pgx.Row) (models.Treasury, error) {
	var m models.Treasury
	err := row.Scan(
		&m.TreasuryID,
		&m.BusinessID,
		&m.Code,
		&m.Name,
		&m.TreasuryType,
		&m.LinkedAccountID,
		&m.CurrencyCode,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.Balance,
	)
	return m, err
}

// SaveTreasury inserts a new treasury.
func (r *PgxTreasuryRepository) SaveTreasury(ctx context.Context, treasury domain.Treasury) error {
	m := mapping.ToModelTreasury(treasury)

	query := `
		INSERT INTO treasuries (` + treasuryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.pool.Exec(ctx, query,
		m.TreasuryID,
		m.BusinessID,
		m.Code,
		m.Name,
		m.TreasuryType,
		m.LinkedAccountID,
		m.CurrencyCode,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.Balance,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: treasury code %s", apperrors.ErrDuplicate, m.Code)
		}
		return fmt.Errorf("failed to save treasury %s: %w", m.TreasuryID, err)
	}
	return nil
}

// FindTreasuryByID retrieves a treasury by its ID.
func (r *PgxTreasuryRepository) FindTreasuryByID(ctx context.Context, treasuryID string) (*domain.Treasury, error) {
	query := `SELECT ` + treasuryColumns + ` FROM treasuries WHERE treasury_id = $1;`

	m, err := scanTreasury(r.pool.QueryRow(ctx, query, treasuryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find treasury by ID %s: %w", treasuryID, err)
	}

	d := mapping.ToDomainTreasury(m)
	return &d, nil
}

// FindTreasuryByCode retrieves a treasury by its business-scoped code.
func (r *PgxTreasuryRepository) FindTreasuryByCode(ctx context.Context, businessID, code string) (*domain.Treasury, error) {
	query := `SELECT ` + treasuryColumns + ` FROM treasuries WHERE business_id = $1 AND code = $2;`

	m, err := scanTreasury(r.pool.QueryRow(ctx, query, businessID, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find treasury by code %s: %w", code, err)
	}

	d := mapping.ToDomainTreasury(m)
	return &d, nil
}

// ListTreasuriesByBusiness retrieves all treasuries for a business, ordered by code.
func (r *PgxTreasuryRepository) ListTreasuriesByBusiness(ctx context.Context, businessID string) ([]domain.Treasury, error) {
	query := `SELECT ` + treasuryColumns + ` FROM treasuries WHERE business_id = $1 ORDER BY code;`

	rows, err := r.pool.Query(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to query treasuries for business %s: %w", businessID, err)
	}
	defer rows.Close()

	treasuries := []domain.Treasury{}
	for rows.Next() {
		m, err := scanTreasury(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan treasury row for business %s: %w", businessID, err)
		}
		treasuries = append(treasuries, mapping.ToDomainTreasury(m))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating treasury rows for business %s: %w", businessID, err)
	}
	return treasuries, nil
}

const movementColumns = `movement_id, treasury_id, direction, amount, balance_before, balance_after, voucher_id, entry_id, created_at, created_by, last_updated_at, last_updated_by`

func scanMovement(row pgx.Row) (models.TreasuryMovement, error) {
	var m models.TreasuryMovement
	var voucherID sql.NullString
	err := row.Scan(
		&m.MovementID,
		&m.TreasuryID,
		&m.Direction,
		&m.Amount,
		&m.BalanceBefore,
		&m.BalanceAfter,
		&voucherID,
		&m.EntryID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.TreasuryMovement{}, err
	}
	if voucherID.Valid {
		m.VoucherID = voucherID.String
	}
	return m, nil
}

// ListMovementsByTreasuryID retrieves a paginated movement history, newest
// first, using token-based pagination on created_at.
func (r *PgxTreasuryRepository) ListMovementsByTreasuryID(ctx context.Context, treasuryID string, limit int, nextToken *string) ([]domain.TreasuryMovement, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + movementColumns + ` FROM treasury_movements WHERE treasury_id = $1`
	orderByClause := `ORDER BY created_at DESC, movement_id DESC`

	args := []interface{}{treasuryID}
	query := baseQuery
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, decodeErr := pagination.DecodeDateBasedToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken", apperrors.ErrValidation)
		}
		query += ` AND created_at < $2`
		args = append(args, lastCreatedAt)
	}
	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query movements for treasury %s: %w", treasuryID, err)
	}
	defer rows.Close()

	modelMovements := make([]models.TreasuryMovement, 0, fetchLimit)
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan movement row for treasury %s: %w", treasuryID, err)
		}
		modelMovements = append(modelMovements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating movement rows for treasury %s: %w", treasuryID, err)
	}

	var nextTokenVal *string
	results := modelMovements
	if len(modelMovements) > limit {
		last := modelMovements[limit-1]
		token := pagination.EncodeDateBasedToken(last.CreatedAt)
		nextTokenVal = &token
		results = modelMovements[:limit]
	}

	return mapping.ToDomainTreasuryMovementSlice(results), nextTokenVal, nil
}

// RecomputeTreasuryBalance folds over the full movement history and returns the
// recomputed balance alongside the last movement's balance_after. Both are zero
// for a treasury with no movements.
func (r *PgxTreasuryRepository) RecomputeTreasuryBalance(ctx context.Context, treasuryID string) (decimal.Decimal, decimal.Decimal, error) {
	foldQuery := `
		SELECT COALESCE(SUM(CASE WHEN direction = 'IN' THEN amount ELSE -amount END), 0)
		FROM treasury_movements
		WHERE treasury_id = $1;
	`
	var folded decimal.Decimal
	if err := r.pool.QueryRow(ctx, foldQuery, treasuryID).Scan(&folded); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to fold movements for treasury %s: %w", treasuryID, err)
	}

	lastQuery := `
		SELECT balance_after
		FROM treasury_movements
		WHERE treasury_id = $1
		ORDER BY created_at DESC, movement_id DESC
		LIMIT 1;
	`
	var lastAfter decimal.Decimal
	err := r.pool.QueryRow(ctx, lastQuery, treasuryID).Scan(&lastAfter)
	if errors.Is(err, pgx.ErrNoRows) {
		return folded, decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to read last movement for treasury %s: %w", treasuryID, err)
	}

	return folded, lastAfter, nil
}
