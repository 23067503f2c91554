package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gridops/utility_ledger_app/internal/apperrors"
	"github.com/gridops/utility_ledger_app/internal/core/domain"
	portsrepo "github.com/gridops/utility_ledger_app/internal/core/ports/repositories"
	"github.com/gridops/utility_ledger_app/internal/models"
	"github.com/gridops/utility_ledger_app/internal/utils/mapping"
	"github.com/gridops/utility_ledger_app/internal/utils/pagination"
)

type PgxVoucherRepository struct {
	pool *pgxpool.Pool
}

// newPgxVoucherRepository creates a new repository for voucher data.
func newPgxVoucherRepository(pool *pgxpool.Pool) portsrepo.VoucherRepositoryFacade {
	return &PgxVoucherRepository{pool: pool}
}

// Ensure PgxVoucherRepository implements portsrepo.VoucherRepositoryFacade
var _ portsrepo.VoucherRepositoryFacade = (*PgxVoucherRepository)(nil)

const voucherColumns = `voucher_id, business_id, direction, treasury_id, party_id, counter_account_id, amount, currency_code, voucher_date, description, status, entry_id, reversing_entry_id, created_at, created_by, last_updated_at, last_updated_by`

func scanVoucher(row pgx.Row) (models.Voucher, error) {
	var m models.Voucher
	var partyID, entryID, reversingEntryID sql.NullString
	err := row.Scan(
		&m.VoucherID,
		&m.BusinessID,
		&m.Direction,
		&m.TreasuryID,
		&partyID,
		&m.CounterAccountID,
		&m.Amount,
		&m.CurrencyCode,
		&m.VoucherDate,
		&m.Description,
		&m.Status,
		&entryID,
		&reversingEntryID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.Voucher{}, err
	}
	if partyID.Valid {
		m.PartyID = partyID.String
	}
	if entryID.Valid {
		m.EntryID = entryID.String
	}
	if reversingEntryID.Valid {
		m.ReversingEntryID = reversingEntryID.String
	}
	return m, nil
}

// nullable returns a NullString that is NULL for the empty string.
func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// SaveVoucher inserts a new draft voucher.
func (r *PgxVoucherRepository) SaveVoucher(ctx context.Context, voucher domain.Voucher) error {
	m := mapping.ToModelVoucher(voucher)

	query := `
		INSERT INTO vouchers (` + voucherColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.pool.Exec(ctx, query,
		m.VoucherID,
		m.BusinessID,
		m.Direction,
		m.TreasuryID,
		nullable(m.PartyID),
		m.CounterAccountID,
		m.Amount,
		m.CurrencyCode,
		m.VoucherDate,
		m.Description,
		m.Status,
		nullable(m.EntryID),
		nullable(m.ReversingEntryID),
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save voucher %s: %w", m.VoucherID, err)
	}
	return nil
}

// FindVoucherByID retrieves a voucher by its ID.
func (r *PgxVoucherRepository) FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE voucher_id = $1;`

	m, err := scanVoucher(r.pool.QueryRow(ctx, query, voucherID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find voucher by ID %s: %w", voucherID, err)
	}

	d := mapping.ToDomainVoucher(m)
	return &d, nil
}

// ListVouchersByBusiness retrieves a paginated list of vouchers, newest first,
// with stable cursor pagination over (voucher_date, created_at).
func (r *PgxVoucherRepository) ListVouchersByBusiness(ctx context.Context, businessID string, limit int, nextToken *string) ([]domain.Voucher, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + voucherColumns + ` FROM vouchers WHERE business_id = $1`
	orderByClause := `ORDER BY voucher_date DESC, created_at DESC`

	args := []interface{}{businessID}
	query := baseQuery
	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken", apperrors.ErrValidation)
		}
		query += ` AND (voucher_date, created_at) < ($2, $3)`
		args = append(args, lastDate, lastCreatedAt)
	}
	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query vouchers for business %s: %w", businessID, err)
	}
	defer rows.Close()

	modelVouchers := make([]models.Voucher, 0, fetchLimit)
	for rows.Next() {
		m, err := scanVoucher(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan voucher row for business %s: %w", businessID, err)
		}
		modelVouchers = append(modelVouchers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating voucher rows for business %s: %w", businessID, err)
	}

	var nextTokenVal *string
	results := modelVouchers
	if len(modelVouchers) > limit {
		last := modelVouchers[limit-1]
		token := pagination.EncodeToken(last.VoucherDate, last.CreatedAt)
		nextTokenVal = &token
		results = modelVouchers[:limit]
	}

	return mapping.ToDomainVoucherSlice(results), nextTokenVal, nil
}
