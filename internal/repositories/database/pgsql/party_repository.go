package pgsql

import (
	"context"
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

type PgxPartyRepository struct {
	pool *pgxpool.Pool
}

// newPgxPartyRepository creates a new repository for party data.
func newPgxPartyRepository(pool *pgxpool.Pool) portsrepo.PartyRepositoryFacade {
	return &PgxPartyRepository{pool: pool}
}

// Ensure PgxPartyRepository implements portsrepo.PartyRepositoryFacade
var _ portsrepo.PartyRepositoryFacade = (*PgxPartyRepository)(nil)

const partyColumns = `party_id, business_id, code, name, kind, is_active, created_at, created_by, last_updated_at, last_updated_by, balance`

func scanParty(row pgx.Row) (models.Party, error) {
	var m models.Party
	err := row.Scan(
		&m.PartyID,
		&m.BusinessID,
		&m.Code,
		&m.Name,
		&m.Kind,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.Balance,
	)
	return m, err
}

// SaveParty inserts a new party.
func (r *PgxPartyRepository) SaveParty(ctx context.Context, party domain.Party) error {
	m := mapping.ToModelParty(party)

	query := `
		INSERT INTO parties (` + partyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.pool.Exec(ctx, query,
		m.PartyID,
		m.BusinessID,
		m.Code,
		m.Name,
		m.Kind,
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
			return fmt.Errorf("%w: party code %s", apperrors.ErrDuplicate, m.Code)
		}
		return fmt.Errorf("failed to save party %s: %w", m.PartyID, err)
	}
	return nil
}

// FindPartyByID retrieves a party by its ID.
func (r *PgxPartyRepository) FindPartyByID(ctx context.Context, partyID string) (*domain.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM parties WHERE party_id = $1;`

	m, err := scanParty(r.pool.QueryRow(ctx, query, partyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find party by ID %s: %w", partyID, err)
	}

	d := mapping.ToDomainParty(m)
	return &d, nil
}

// ListPartiesByBusiness retrieves all parties for a business, ordered by code.
func (r *PgxPartyRepository) ListPartiesByBusiness(ctx context.Context, businessID string) ([]domain.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM parties WHERE business_id = $1 ORDER BY code;`

	rows, err := r.pool.Query(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to query parties for business %s: %w", businessID, err)
	}
	defer rows.Close()

	parties := []domain.Party{}
	for rows.Next() {
		m, err := scanParty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan party row for business %s: %w", businessID, err)
		}
		parties = append(parties, mapping.ToDomainParty(m))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating party rows for business %s: %w", businessID, err)
	}
	return parties, nil
}

const partyTxnColumns = `transaction_id, party_id, kind, amount, balance_before, balance_after, reference_type, reference_id, created_at, created_by, last_updated_at, last_updated_by`

func scanPartyTransaction(row pgx.Row) (models.PartyTransaction, error) {
	var m models.PartyTransaction
	err := row.Scan(
		&m.TransactionID,
		&m.PartyID,
		&m.Kind,
		&m.Amount,
		&m.BalanceBefore,
		&m.BalanceAfter,
		&m.ReferenceType,
		&m.ReferenceID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// ListTransactionsByPartyID retrieves a paginated transaction history, newest
// first, using token-based pagination on created_at.
func (r *PgxPartyRepository) ListTransactionsByPartyID(ctx context.Context, partyID string, limit int, nextToken *string) ([]domain.PartyTransaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + partyTxnColumns + ` FROM party_transactions WHERE party_id = $1`
	orderByClause := `ORDER BY created_at DESC, transaction_id DESC`

	args := []interface{}{partyID}
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
		return nil, nil, fmt.Errorf("failed to query transactions for party %s: %w", partyID, err)
	}
	defer rows.Close()

	modelTxns := make([]models.PartyTransaction, 0, fetchLimit)
	for rows.Next() {
		m, err := scanPartyTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row for party %s: %w", partyID, err)
		}
		modelTxns = append(modelTxns, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating transaction rows for party %s: %w", partyID, err)
	}

	var nextTokenVal *string
	results := modelTxns
	if len(modelTxns) > limit {
		last := modelTxns[limit-1]
		token := pagination.EncodeDateBasedToken(last.CreatedAt)
		nextTokenVal = &token
		results = modelTxns[:limit]
	}

	return mapping.ToDomainPartyTransactionSlice(results), nextTokenVal, nil
}

// RecomputePartyBalance folds over the full transaction history and returns the
// recomputed balance alongside the last transaction's balance_after.
func (r *PgxPartyRepository) RecomputePartyBalance(ctx context.Context, partyID string) (decimal.Decimal, decimal.Decimal, error) {
	foldQuery := `
		SELECT COALESCE(SUM(CASE WHEN kind = 'DEBIT' THEN amount ELSE -amount END), 0)
		FROM party_transactions
		WHERE party_id = $1;
	`
	var folded decimal.Decimal
	if err := r.pool.QueryRow(ctx, foldQuery, partyID).Scan(&folded); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to fold transactions for party %s: %w", partyID, err)
	}

	lastQuery := `
		SELECT balance_after
		FROM party_transactions
		WHERE party_id = $1
		ORDER BY created_at DESC, transaction_id DESC
		LIMIT 1;
	`
	var lastAfter decimal.Decimal
	err := r.pool.QueryRow(ctx, lastQuery, partyID).Scan(&lastAfter)
	if errors.Is(err, pgx.ErrNoRows) {
		return folded, decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to read last transaction for party %s: %w", partyID, err)
	}

	return folded, lastAfter, nil
}
