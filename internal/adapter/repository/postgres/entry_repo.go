package postgres

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contasapp/contas/internal/domain"
	"github.com/contasapp/contas/internal/usecase"
)

const entryColumns = `id, type, description, amount, original_amount, remaining, status, method,
	due_date, paid_at, customer_id, sale_id, subscription_id, installment, installments,
	created_at, updated_at`

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

// Create inserts a new entry within a transaction.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	query := `
		INSERT INTO financial_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := txQuerier(tx, r.pool).Exec(ctx, query, entryArgs(entry)...)

	return err
}

// GetByID retrieves an entry by ID.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM financial_entries WHERE id = $1`

	entry, err := scanEntry(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEntryNotFound
	}

	return entry, err
}

// GetByIDForUpdate retrieves an entry by ID with a FOR UPDATE lock.
func (r *EntryRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM financial_entries WHERE id = $1 FOR UPDATE`

	entry, err := scanEntry(txQuerier(tx, r.pool).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEntryNotFound
	}

	return entry, err
}

// Update rewrites an entry within a transaction.
func (r *EntryRepository) Update(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	query := `
		UPDATE financial_entries
		SET type = $2, description = $3, amount = $4, original_amount = $5, remaining = $6,
		    status = $7, method = $8, due_date = $9, paid_at = $10, customer_id = $11,
		    sale_id = $12, subscription_id = $13, installment = $14, installments = $15,
		    updated_at = $16
		WHERE id = $1
	`

	tag, err := txQuerier(tx, r.pool).Exec(ctx, query,
		entry.ID,
		entry.Type,
		entry.Description,
		decimalToNumeric(entry.Amount),
		decimalToNumeric(entry.OriginalAmount),
		decimalToNumeric(entry.Remaining),
		entry.Status,
		entry.Method,
		timePtrToPgTimestamptz(entry.DueDate),
		timePtrToPgTimestamptz(entry.PaidAt),
		entry.CustomerID,
		entry.SaleID,
		entry.SubscriptionID,
		entry.Installment,
		entry.Installments,
		entry.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// Delete removes an entry within a transaction.
func (r *EntryRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	tag, err := txQuerier(tx, r.pool).Exec(ctx, `DELETE FROM financial_entries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// DeleteBySale removes every entry belonging to a sale.
func (r *EntryRepository) DeleteBySale(ctx context.Context, tx usecase.Transaction, saleID string) error {
	_, err := txQuerier(tx, r.pool).Exec(ctx, `DELETE FROM financial_entries WHERE sale_id = $1`, saleID)

	return err
}

// ListBySale retrieves entries belonging to a sale ordered by installment.
func (r *EntryRepository) ListBySale(ctx context.Context, saleID string) ([]*domain.Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM financial_entries
		WHERE sale_id = $1
		ORDER BY installment, created_at
	`

	rows, err := r.pool.Query(ctx, query, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListBySaleForUpdate retrieves a sale's entries with FOR UPDATE locks.
func (r *EntryRepository) ListBySaleForUpdate(ctx context.Context, tx usecase.Transaction, saleID string) ([]*domain.Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM financial_entries
		WHERE sale_id = $1
		ORDER BY installment, created_at
		FOR UPDATE
	`

	rows, err := txQuerier(tx, r.pool).Query(ctx, query, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// List retrieves entries matching the filter, newest first.
func (r *EntryRepository) List(ctx context.Context, filter usecase.EntryFilter) ([]*domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM financial_entries WHERE 1=1`
	args := []any{}

	if filter.Type != "" {
		args = append(args, filter.Type)
		query += ` AND type = $` + strconv.Itoa(len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}

	query += ` ORDER BY created_at DESC`

	args = append(args, filter.Limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))
	args = append(args, filter.Offset)
	query += ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListOpenIncome retrieves income entries that still carry an open balance.
func (r *EntryRepository) ListOpenIncome(ctx context.Context) ([]*domain.Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM financial_entries
		WHERE type = $1 AND status <> $2
		ORDER BY due_date NULLS LAST, created_at
	`

	rows, err := r.pool.Query(ctx, query, domain.EntryTypeIncome, domain.StatusPaid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListPaidIncomeByYear retrieves income entries paid within a year.
func (r *EntryRepository) ListPaidIncomeByYear(ctx context.Context, year int) ([]*domain.Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM financial_entries
		WHERE type = $1 AND status = $2
		  AND paid_at >= $3 AND paid_at < $4
		ORDER BY paid_at
	`

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	rows, err := r.pool.Query(ctx, query, domain.EntryTypeIncome, domain.StatusPaid, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListDueBetween retrieves entries due in [from, to).
func (r *EntryRepository) ListDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM financial_entries
		WHERE due_date >= $1 AND due_date < $2
		ORDER BY due_date
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListAll retrieves every entry, for export.
func (r *EntryRepository) ListAll(ctx context.Context) ([]*domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM financial_entries ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Upsert inserts or replaces an entry within a transaction.
func (r *EntryRepository) Upsert(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	query := `
		INSERT INTO financial_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (id) DO UPDATE
		SET type = EXCLUDED.type, description = EXCLUDED.description, amount = EXCLUDED.amount,
		    original_amount = EXCLUDED.original_amount, remaining = EXCLUDED.remaining,
		    status = EXCLUDED.status, method = EXCLUDED.method, due_date = EXCLUDED.due_date,
		    paid_at = EXCLUDED.paid_at, customer_id = EXCLUDED.customer_id,
		    sale_id = EXCLUDED.sale_id, subscription_id = EXCLUDED.subscription_id,
		    installment = EXCLUDED.installment, installments = EXCLUDED.installments,
		    updated_at = EXCLUDED.updated_at
	`

	_, err := txQuerier(tx, r.pool).Exec(ctx, query, entryArgs(entry)...)

	return err
}

func entryArgs(entry *domain.Entry) []any {
	return []any{
		entry.ID,
		entry.Type,
		entry.Description,
		decimalToNumeric(entry.Amount),
		decimalToNumeric(entry.OriginalAmount),
		decimalToNumeric(entry.Remaining),
		entry.Status,
		entry.Method,
		timePtrToPgTimestamptz(entry.DueDate),
		timePtrToPgTimestamptz(entry.PaidAt),
		entry.CustomerID,
		entry.SaleID,
		entry.SubscriptionID,
		entry.Installment,
		entry.Installments,
		entry.CreatedAt,
		entry.UpdatedAt,
	}
}

func scanEntry(row pgx.Row) (*domain.Entry, error) {
	var (
		e              domain.Entry
		amount         pgtype.Numeric
		originalAmount pgtype.Numeric
		remaining      pgtype.Numeric
		dueDate        pgtype.Timestamptz
		paidAt         pgtype.Timestamptz
	)

	err := row.Scan(
		&e.ID,
		&e.Type,
		&e.Description,
		&amount,
		&originalAmount,
		&remaining,
		&e.Status,
		&e.Method,
		&dueDate,
		&paidAt,
		&e.CustomerID,
		&e.SaleID,
		&e.SubscriptionID,
		&e.Installment,
		&e.Installments,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Amount = numericToDecimal(amount)
	e.OriginalAmount = numericToDecimal(originalAmount)
	e.Remaining = numericToDecimal(remaining)
	e.DueDate = pgTimestamptzToTimePtr(dueDate)
	e.PaidAt = pgTimestamptzToTimePtr(paidAt)

	return &e, nil
}

func scanEntries(rows pgx.Rows) ([]*domain.Entry, error) {
	var entries []*domain.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
