package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contasapp/contas/internal/domain"
	"github.com/contasapp/contas/internal/usecase"
)

const subscriptionPaymentColumns = `id, subscription_id, month, year, amount, status, method,
	skipped, skip_reason, entry_id, paid_at, created_at, updated_at`

// SubscriptionPaymentRepository implements usecase.SubscriptionPaymentRepository.
type SubscriptionPaymentRepository struct {
	pool *pgxpool.Pool
}

// NewSubscriptionPaymentRepository creates a new SubscriptionPaymentRepository.
func NewSubscriptionPaymentRepository(pool *pgxpool.Pool) *SubscriptionPaymentRepository {
	return &SubscriptionPaymentRepository{pool: pool}
}

// Create inserts a new payment record within a transaction.
func (r *SubscriptionPaymentRepository) Create(ctx context.Context, tx usecase.Transaction, payment *domain.SubscriptionPayment) error {
	query := `
		INSERT INTO subscription_payments (` + subscriptionPaymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := txQuerier(tx, r.pool).Exec(ctx, query, subscriptionPaymentArgs(payment)...)

	return err
}

// GetByPeriod retrieves the payment record for a specific period.
func (r *SubscriptionPaymentRepository) GetByPeriod(ctx context.Context, key domain.PeriodKey) (*domain.SubscriptionPayment, error) {
	query := `
		SELECT ` + subscriptionPaymentColumns + `
		FROM subscription_payments
		WHERE subscription_id = $1 AND year = $2 AND month = $3
	`

	payment, err := scanSubscriptionPayment(r.pool.QueryRow(ctx, query, key.SubscriptionID, key.Year, key.Month))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPeriodNotFound
	}

	return payment, err
}

// GetByPeriodForUpdate retrieves a period's payment record with a FOR UPDATE lock.
func (r *SubscriptionPaymentRepository) GetByPeriodForUpdate(ctx context.Context, tx usecase.Transaction, key domain.PeriodKey) (*domain.SubscriptionPayment, error) {
	query := `
		SELECT ` + subscriptionPaymentColumns + `
		FROM subscription_payments
		WHERE subscription_id = $1 AND year = $2 AND month = $3
		FOR UPDATE
	`

	payment, err := scanSubscriptionPayment(txQuerier(tx, r.pool).QueryRow(ctx, query, key.SubscriptionID, key.Year, key.Month))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPeriodNotFound
	}

	return payment, err
}

// Update rewrites a payment record within a transaction.
func (r *SubscriptionPaymentRepository) Update(ctx context.Context, tx usecase.Transaction, payment *domain.SubscriptionPayment) error {
	query := `
		UPDATE subscription_payments
		SET subscription_id = $2, month = $3, year = $4, amount = $5, status = $6,
		    method = $7, skipped = $8, skip_reason = $9, entry_id = $10, paid_at = $11,
		    updated_at = $12
		WHERE id = $1
	`

	tag, err := txQuerier(tx, r.pool).Exec(ctx, query,
		payment.ID,
		payment.SubscriptionID,
		payment.Month,
		payment.Year,
		decimalToNumeric(payment.Amount),
		payment.Status,
		payment.Method,
		payment.Skipped,
		payment.SkipReason,
		payment.EntryID,
		timePtrToPgTimestamptz(payment.PaidAt),
		payment.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPeriodNotFound
	}

	return nil
}

// ListBySubscription retrieves every payment record of a subscription.
func (r *SubscriptionPaymentRepository) ListBySubscription(ctx context.Context, subscriptionID string) ([]*domain.SubscriptionPayment, error) {
	query := `
		SELECT ` + subscriptionPaymentColumns + `
		FROM subscription_payments
		WHERE subscription_id = $1
		ORDER BY year, month
	`

	rows, err := r.pool.Query(ctx, query, subscriptionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSubscriptionPayments(rows)
}

// ListEntryRefs returns the ids of entries referenced by payment records.
func (r *SubscriptionPaymentRepository) ListEntryRefs(ctx context.Context) (map[string]bool, error) {
	query := `SELECT entry_id FROM subscription_payments WHERE entry_id IS NOT NULL`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	refs := make(map[string]bool)
	for rows.Next() {
		var entryID string
		if err := rows.Scan(&entryID); err != nil {
			return nil, err
		}
		refs[entryID] = true
	}

	return refs, rows.Err()
}

// ListAll retrieves every payment record, for export.
func (r *SubscriptionPaymentRepository) ListAll(ctx context.Context) ([]*domain.SubscriptionPayment, error) {
	query := `SELECT ` + subscriptionPaymentColumns + ` FROM subscription_payments ORDER BY year, month`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSubscriptionPayments(rows)
}

// Upsert inserts or replaces a payment record within a transaction.
func (r *SubscriptionPaymentRepository) Upsert(ctx context.Context, tx usecase.Transaction, payment *domain.SubscriptionPayment) error {
	query := `
		INSERT INTO subscription_payments (` + subscriptionPaymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE
		SET subscription_id = EXCLUDED.subscription_id, month = EXCLUDED.month,
		    year = EXCLUDED.year, amount = EXCLUDED.amount, status = EXCLUDED.status,
		    method = EXCLUDED.method, skipped = EXCLUDED.skipped,
		    skip_reason = EXCLUDED.skip_reason, entry_id = EXCLUDED.entry_id,
		    paid_at = EXCLUDED.paid_at, updated_at = EXCLUDED.updated_at
	`

	_, err := txQuerier(tx, r.pool).Exec(ctx, query, subscriptionPaymentArgs(payment)...)

	return err
}

func subscriptionPaymentArgs(payment *domain.SubscriptionPayment) []any {
	return []any{
		payment.ID,
		payment.SubscriptionID,
		payment.Month,
		payment.Year,
		decimalToNumeric(payment.Amount),
		payment.Status,
		payment.Method,
		payment.Skipped,
		payment.SkipReason,
		payment.EntryID,
		timePtrToPgTimestamptz(payment.PaidAt),
		payment.CreatedAt,
		payment.UpdatedAt,
	}
}

func scanSubscriptionPayment(row pgx.Row) (*domain.SubscriptionPayment, error) {
	var (
		p      domain.SubscriptionPayment
		amount pgtype.Numeric
		paidAt pgtype.Timestamptz
	)

	err := row.Scan(
		&p.ID,
		&p.SubscriptionID,
		&p.Month,
		&p.Year,
		&amount,
		&p.Status,
		&p.Method,
		&p.Skipped,
		&p.SkipReason,
		&p.EntryID,
		&paidAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Amount = numericToDecimal(amount)
	p.PaidAt = pgTimestamptzToTimePtr(paidAt)

	return &p, nil
}

func scanSubscriptionPayments(rows pgx.Rows) ([]*domain.SubscriptionPayment, error) {
	var payments []*domain.SubscriptionPayment
	for rows.Next() {
		p, err := scanSubscriptionPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}

	return payments, rows.Err()
}
