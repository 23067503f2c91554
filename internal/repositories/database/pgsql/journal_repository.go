package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/gridops/utility_ledger_app/internal/apperrors"
	"github.com/gridops/utility_ledger_app/internal/core/domain"
	portsrepo "github.com/gridops/utility_ledger_app/internal/core/ports/repositories"
	"github.com/gridops/utility_ledger_app/internal/models"
	"github.com/gridops/utility_ledger_app/internal/utils/accounting"
	"github.com/gridops/utility_ledger_app/internal/utils/mapping"
	"github.com/gridops/utility_ledger_app/internal/utils/pagination"
	"github.com/google/uuid"
)

// PgxJournalRepository implements the posting engine's atomic write paths. Each
// posting runs one database transaction: sequence, entry, lines, balance
// snapshots and movement rows commit together or not at all.
type PgxJournalRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
	entryPrefix string
}

// newPgxJournalRepository creates a new repository for ledger data.
func newPgxJournalRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade, entryPrefix string) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
		entryPrefix:    entryPrefix,
	}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// scopeCode derives the short scope segment of an entry number from the
// business ID.
func scopeCode(businessID string) string {
	s := strings.ReplaceAll(businessID, "-", "")
	if len(s) > 8 {
		s = s[:8]
	}
	return strings.ToUpper(s)
}

// nextEntryNumber increments the per-business sequence row and formats the
// entry number. The sequence row update holds its row lock until commit, which
// serializes concurrent postings in the same scope.
func (r *PgxJournalRepository) nextEntryNumber(ctx context.Context, tx pgx.Tx, businessID string) (string, error) {
	query := `
		INSERT INTO journal_sequences (business_id, last_sequence)
		VALUES ($1, 1)
		ON CONFLICT (business_id)
		DO UPDATE SET last_sequence = journal_sequences.last_sequence + 1
		RETURNING last_sequence;
	`
	var seq int64
	if err := tx.QueryRow(ctx, query, businessID).Scan(&seq); err != nil {
		return "", fmt.Errorf("failed to advance entry sequence for business %s: %w", businessID, classifyPgError(err))
	}
	return fmt.Sprintf("%s-%s-%06d", r.entryPrefix, scopeCode(businessID), seq), nil
}

// insertEntryInTx writes the entry row and its lines.
func (r *PgxJournalRepository) insertEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)

	entryQuery := `
		INSERT INTO journal_entries (
			entry_id, business_id, entry_number, entry_date, source_type, source_id,
			description, status, original_entry_id, reversing_entry_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := tx.Exec(ctx, entryQuery,
		m.EntryID,
		m.BusinessID,
		m.EntryNumber,
		m.EntryDate,
		m.SourceType,
		m.SourceID,
		m.Description,
		m.Status,
		m.OriginalEntryID,
		m.ReversingEntryID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry %s: %w", m.EntryID, classifyPgError(err))
	}

	lineQuery := `
		INSERT INTO journal_lines (
			line_id, entry_id, account_id, debit, credit, currency_code, exchange_rate,
			base_debit, base_credit, line_no, description,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	batch := &pgx.Batch{}
	for _, line := range entry.Lines {
		ml := mapping.ToModelJournalLine(line)
		batch.Queue(lineQuery,
			ml.LineID,
			ml.EntryID,
			ml.AccountID,
			ml.Debit,
			ml.Credit,
			ml.CurrencyCode,
			ml.ExchangeRate,
			ml.BaseDebit,
			ml.BaseCredit,
			ml.LineNo,
			ml.Description,
			ml.CreatedAt,
			ml.CreatedBy,
			ml.LastUpdatedAt,
			ml.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert lines for entry %s: %w", m.EntryID, classifyPgError(err))
	}
	return nil
}

// applyBalanceChangesInTx locks the affected accounts in sorted ID order and
// applies the signed deltas to their cached balances.
func (r *PgxJournalRepository) applyBalanceChangesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	accountIDs := make([]string, 0, len(balanceChanges))
	for id := range balanceChanges {
		accountIDs = append(accountIDs, id)
	}
	sort.Strings(accountIDs)

	if _, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs); err != nil {
		return err
	}
	return r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, userID, now)
}

// lockTreasuryBalance locks the treasury row and returns its current balance.
func (r *PgxJournalRepository) lockTreasuryBalance(ctx context.Context, tx pgx.Tx, treasuryID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := tx.QueryRow(ctx, `SELECT balance FROM treasuries WHERE treasury_id = $1 FOR UPDATE;`, treasuryID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, apperrors.ErrNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to lock treasury %s: %w", treasuryID, classifyPgError(err))
	}
	return balance, nil
}

// appendMovementInTx writes one movement row and advances the treasury's cached
// balance. The treasury row must already be locked.
func (r *PgxJournalRepository) appendMovementInTx(ctx context.Context, tx pgx.Tx, treasuryID string, direction domain.MovementDirection, amount decimal.Decimal, before decimal.Decimal, voucherID, entryID, userID string, now time.Time) (decimal.Decimal, error) {
	after := accounting.ApplyMovement(before, direction, amount)

	movementQuery := `
		INSERT INTO treasury_movements (
			movement_id, treasury_id, direction, amount, balance_before, balance_after,
			voucher_id, entry_id, created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	var vID sql.NullString
	if voucherID != "" {
		vID = sql.NullString{String: voucherID, Valid: true}
	}
	_, err := tx.Exec(ctx, movementQuery,
		uuid.NewString(), treasuryID, direction, amount, before, after,
		vID, entryID, now, userID, now, userID,
	)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to insert movement for treasury %s: %w", treasuryID, classifyPgError(err))
	}

	updateQuery := `
		UPDATE treasuries
		SET balance = $2, last_updated_at = $3, last_updated_by = $4
		WHERE treasury_id = $1;
	`
	if _, err := tx.Exec(ctx, updateQuery, treasuryID, after, now, userID); err != nil {
		return decimal.Zero, fmt.Errorf("failed to update treasury balance %s: %w", treasuryID, classifyPgError(err))
	}
	return after, nil
}

// appendPartyTransactionInTx locks the party row, writes one transaction row
// and advances the party's cached balance.
func (r *PgxJournalRepository) appendPartyTransactionInTx(ctx context.Context, tx pgx.Tx, partyID string, kind domain.PartyTransactionKind, amount decimal.Decimal, referenceType, referenceID, userID string, now time.Time) error {
	var before decimal.Decimal
	err := tx.QueryRow(ctx, `SELECT balance FROM parties WHERE party_id = $1 FOR UPDATE;`, partyID).Scan(&before)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to lock party %s: %w", partyID, classifyPgError(err))
	}

	after := accounting.ApplyPartyTransaction(before, kind, amount)

	txnQuery := `
		INSERT INTO party_transactions (
			transaction_id, party_id, kind, amount, balance_before, balance_after,
			reference_type, reference_id, created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = tx.Exec(ctx, txnQuery,
		uuid.NewString(), partyID, kind, amount, before, after,
		referenceType, referenceID, now, userID, now, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction for party %s: %w", partyID, classifyPgError(err))
	}

	updateQuery := `
		UPDATE parties
		SET balance = $2, last_updated_at = $3, last_updated_by = $4
		WHERE party_id = $1;
	`
	if _, err := tx.Exec(ctx, updateQuery, partyID, after, now, userID); err != nil {
		return fmt.Errorf("failed to update party balance %s: %w", partyID, classifyPgError(err))
	}
	return nil
}

// partyTransactionKind maps a voucher direction to the party side: a receipt
// settles what the party owed us further on the debit side of their ledger, a
// payment credits it.
func partyTransactionKind(direction domain.VoucherDirection) domain.PartyTransactionKind {
	if direction == domain.Receipt {
		return domain.PartyDebit
	}
	return domain.PartyCredit
}

// oppositeKind flips a party transaction kind for reversals.
func oppositeKind(kind domain.PartyTransactionKind) domain.PartyTransactionKind {
	if kind == domain.PartyDebit {
		return domain.PartyCredit
	}
	return domain.PartyDebit
}

// oppositeDirection flips a movement direction for reversals.
func oppositeDirection(direction domain.MovementDirection) domain.MovementDirection {
	if direction == domain.In {
		return domain.Out
	}
	return domain.In
}

// PostEntry assigns the next entry number and persists the entry with its
// lines, applying account balance deltas under row locks.
func (r *PgxJournalRepository) PostEntry(ctx context.Context, entry domain.JournalEntry, balanceChanges map[string]decimal.Decimal) (*domain.JournalEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	now := entry.CreatedAt
	userID := entry.CreatedBy

	entry.EntryNumber, err = r.nextEntryNumber(ctx, tx, entry.BusinessID)
	if err != nil {
		return nil, err
	}

	if err := r.applyBalanceChangesInTx(ctx, tx, balanceChanges, userID, now); err != nil {
		return nil, err
	}

	if err := r.insertEntryInTx(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &entry, nil
}

// PostVoucher runs the full voucher posting unit of work. The voucher row is
// locked first so concurrent posts of the same voucher serialize; the second
// one finds the status already moved on and fails with ErrAlreadyPosted.
func (r *PgxJournalRepository) PostVoucher(ctx context.Context, posting portsrepo.VoucherPosting) (*domain.JournalEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	voucher := posting.Voucher
	entry := posting.Entry
	now := entry.CreatedAt
	userID := entry.CreatedBy

	var status models.VoucherStatus
	err = tx.QueryRow(ctx, `SELECT status FROM vouchers WHERE voucher_id = $1 FOR UPDATE;`, voucher.VoucherID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock voucher %s: %w", voucher.VoucherID, classifyPgError(err))
	}
	if status != models.VoucherDraft {
		return nil, fmt.Errorf("%w: voucher %s is %s", apperrors.ErrAlreadyPosted, voucher.VoucherID, status)
	}

	treasuryBalance, err := r.lockTreasuryBalance(ctx, tx, voucher.TreasuryID)
	if err != nil {
		return nil, err
	}

	movementDirection := voucher.MovementDirection()
	if movementDirection == domain.Out && treasuryBalance.LessThan(voucher.Amount) {
		return nil, fmt.Errorf("%w: treasury %s holds %s, payment needs %s",
			apperrors.ErrInsufficientFunds, voucher.TreasuryID, treasuryBalance.String(), voucher.Amount.String())
	}

	entry.EntryNumber, err = r.nextEntryNumber(ctx, tx, entry.BusinessID)
	if err != nil {
		return nil, err
	}

	if err := r.applyBalanceChangesInTx(ctx, tx, posting.BalanceChanges, userID, now); err != nil {
		return nil, err
	}

	if err := r.insertEntryInTx(ctx, tx, entry); err != nil {
		return nil, err
	}

	if _, err := r.appendMovementInTx(ctx, tx, voucher.TreasuryID, movementDirection, voucher.Amount, treasuryBalance, voucher.VoucherID, entry.EntryID, userID, now); err != nil {
		return nil, err
	}

	if voucher.PartyID != "" {
		kind := partyTransactionKind(voucher.Direction)
		if err := r.appendPartyTransactionInTx(ctx, tx, voucher.PartyID, kind, voucher.Amount, voucher.SourceType(), voucher.VoucherID, userID, now); err != nil {
			return nil, err
		}
	}

	voucherQuery := `
		UPDATE vouchers
		SET status = $2, entry_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE voucher_id = $1;
	`
	if _, err := tx.Exec(ctx, voucherQuery, voucher.VoucherID, models.VoucherPosted, entry.EntryID, now, userID); err != nil {
		return nil, fmt.Errorf("failed to update voucher %s: %w", voucher.VoucherID, classifyPgError(err))
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &entry, nil
}

// VoidVoucher posts the reversing entry and movements for a posted voucher and
// marks it void. The original entry and its lines are never touched beyond the
// status flip and reversal link.
func (r *PgxJournalRepository) VoidVoucher(ctx context.Context, void portsrepo.VoucherVoid) (*domain.JournalEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	voucher := void.Voucher
	entry := void.ReversingEntry
	now := entry.CreatedAt
	userID := entry.CreatedBy

	var status models.VoucherStatus
	err = tx.QueryRow(ctx, `SELECT status FROM vouchers WHERE voucher_id = $1 FOR UPDATE;`, voucher.VoucherID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock voucher %s: %w", voucher.VoucherID, classifyPgError(err))
	}
	if status != models.VoucherPosted {
		return nil, fmt.Errorf("%w: voucher %s is %s", apperrors.ErrNotPosted, voucher.VoucherID, status)
	}

	treasuryBalance, err := r.lockTreasuryBalance(ctx, tx, voucher.TreasuryID)
	if err != nil {
		return nil, err
	}

	// Reversing a receipt takes the funds back out, which must not overdraw.
	reversalDirection := oppositeDirection(voucher.MovementDirection())
	if reversalDirection == domain.Out && treasuryBalance.LessThan(voucher.Amount) {
		return nil, fmt.Errorf("%w: treasury %s holds %s, reversal needs %s",
			apperrors.ErrInsufficientFunds, voucher.TreasuryID, treasuryBalance.String(), voucher.Amount.String())
	}

	entry.EntryNumber, err = r.nextEntryNumber(ctx, tx, entry.BusinessID)
	if err != nil {
		return nil, err
	}

	if err := r.applyBalanceChangesInTx(ctx, tx, void.BalanceChanges, userID, now); err != nil {
		return nil, err
	}

	if err := r.insertEntryInTx(ctx, tx, entry); err != nil {
		return nil, err
	}

	originalQuery := `
		UPDATE journal_entries
		SET status = $2, reversing_entry_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE entry_id = $1;
	`
	if _, err := tx.Exec(ctx, originalQuery, voucher.EntryID, models.Reversed, entry.EntryID, now, userID); err != nil {
		return nil, fmt.Errorf("failed to mark entry %s reversed: %w", voucher.EntryID, classifyPgError(err))
	}

	if _, err := r.appendMovementInTx(ctx, tx, voucher.TreasuryID, reversalDirection, voucher.Amount, treasuryBalance, voucher.VoucherID, entry.EntryID, userID, now); err != nil {
		return nil, err
	}

	if voucher.PartyID != "" {
		kind := oppositeKind(partyTransactionKind(voucher.Direction))
		if err := r.appendPartyTransactionInTx(ctx, tx, voucher.PartyID, kind, voucher.Amount, entry.SourceType, voucher.VoucherID, userID, now); err != nil {
			return nil, err
		}
	}

	voucherQuery := `
		UPDATE vouchers
		SET status = $2, reversing_entry_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE voucher_id = $1;
	`
	if _, err := tx.Exec(ctx, voucherQuery, voucher.VoucherID, models.VoucherVoid, entry.EntryID, now, userID); err != nil {
		return nil, fmt.Errorf("failed to update voucher %s: %w", voucher.VoucherID, classifyPgError(err))
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Transfer posts a balanced entry between two treasuries with one OUT and one
// IN movement. Both treasury rows are locked in sorted ID order to keep lock
// acquisition deterministic under concurrency.
func (r *PgxJournalRepository) Transfer(ctx context.Context, transfer portsrepo.TreasuryTransfer) (*domain.JournalEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	entry := transfer.Entry
	now := entry.CreatedAt
	userID := entry.CreatedBy

	lockOrder := []string{transfer.FromTreasuryID, transfer.ToTreasuryID}
	sort.Strings(lockOrder)
	balances := make(map[string]decimal.Decimal, 2)
	for _, id := range lockOrder {
		balance, err := r.lockTreasuryBalance(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		balances[id] = balance
	}

	fromBalance := balances[transfer.FromTreasuryID]
	if fromBalance.LessThan(transfer.Amount) {
		return nil, fmt.Errorf("%w: treasury %s holds %s, transfer needs %s",
			apperrors.ErrInsufficientFunds, transfer.FromTreasuryID, fromBalance.String(), transfer.Amount.String())
	}

	entry.EntryNumber, err = r.nextEntryNumber(ctx, tx, entry.BusinessID)
	if err != nil {
		return nil, err
	}

	if err := r.applyBalanceChangesInTx(ctx, tx, transfer.BalanceChanges, userID, now); err != nil {
		return nil, err
	}

	if err := r.insertEntryInTx(ctx, tx, entry); err != nil {
		return nil, err
	}

	if _, err := r.appendMovementInTx(ctx, tx, transfer.FromTreasuryID, domain.Out, transfer.Amount, fromBalance, "", entry.EntryID, userID, now); err != nil {
		return nil, err
	}
	if _, err := r.appendMovementInTx(ctx, tx, transfer.ToTreasuryID, domain.In, transfer.Amount, balances[transfer.ToTreasuryID], "", entry.EntryID, userID, now); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindEntryByID retrieves a journal entry by its ID.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `
		SELECT entry_id, business_id, entry_number, entry_date, source_type, source_id,
		       description, status, original_entry_id, reversing_entry_id,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM journal_entries
		WHERE entry_id = $1;
	`
	m, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entry by ID %s: %w", entryID, err)
	}

	d := mapping.ToDomainJournalEntry(m)
	return &d, nil
}

func scanEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	var originalID, reversingID sql.NullString
	err := row.Scan(
		&m.EntryID,
		&m.BusinessID,
		&m.EntryNumber,
		&m.EntryDate,
		&m.SourceType,
		&m.SourceID,
		&m.Description,
		&m.Status,
		&originalID,
		&reversingID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.JournalEntry{}, err
	}
	if originalID.Valid {
		m.OriginalEntryID = &originalID.String
	}
	if reversingID.Valid {
		m.ReversingEntryID = &reversingID.String
	}
	return m, nil
}

// FindLinesByEntryID retrieves all lines of an entry in canonical line order.
func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `
		SELECT line_id, entry_id, account_id, debit, credit, currency_code, exchange_rate,
		       base_debit, base_credit, line_no, description,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM journal_lines
		WHERE entry_id = $1
		ORDER BY line_no;
	`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for entry %s: %w", entryID, err)
	}
	defer rows.Close()

	lines := []models.JournalLine{}
	for rows.Next() {
		var l models.JournalLine
		if err := rows.Scan(
			&l.LineID,
			&l.EntryID,
			&l.AccountID,
			&l.Debit,
			&l.Credit,
			&l.CurrencyCode,
			&l.ExchangeRate,
			&l.BaseDebit,
			&l.BaseCredit,
			&l.LineNo,
			&l.Description,
			&l.CreatedAt,
			&l.CreatedBy,
			&l.LastUpdatedAt,
			&l.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan line row for entry %s: %w", entryID, err)
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows for entry %s: %w", entryID, err)
	}
	return mapping.ToDomainJournalLineSlice(lines), nil
}

// ListEntriesByBusiness retrieves a paginated list of entries, newest first,
// with stable cursor pagination over (entry_date, created_at).
func (r *PgxJournalRepository) ListEntriesByBusiness(ctx context.Context, businessID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT entry_id, business_id, entry_number, entry_date, source_type, source_id,
		       description, status, original_entry_id, reversing_entry_id,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM journal_entries
		WHERE business_id = $1
	`
	orderByClause := `ORDER BY entry_date DESC, created_at DESC`

	args := []interface{}{businessID}
	query := baseQuery
	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken", apperrors.ErrValidation)
		}
		query += ` AND (entry_date, created_at) < ($2, $3)`
		args = append(args, lastDate, lastCreatedAt)
	}
	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query entries for business %s: %w", businessID, err)
	}
	defer rows.Close()

	modelEntries := make([]models.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan entry row for business %s: %w", businessID, err)
		}
		modelEntries = append(modelEntries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating entry rows for business %s: %w", businessID, err)
	}

	var nextTokenVal *string
	results := modelEntries
	if len(modelEntries) > limit {
		last := modelEntries[limit-1]
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		nextTokenVal = &token
		results = modelEntries[:limit]
	}

	entries := make([]domain.JournalEntry, len(results))
	for i, m := range results {
		entries[i] = mapping.ToDomainJournalEntry(m)
	}
	return entries, nextTokenVal, nil
}
