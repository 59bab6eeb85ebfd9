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

const subscriptionColumns = `id, customer_id, description, monthly_value, start_date, end_date,
	active, payment_day, created_at, updated_at`

// SubscriptionRepository implements usecase.SubscriptionRepository.
type SubscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepository creates a new SubscriptionRepository.
func NewSubscriptionRepository(pool *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{pool: pool}
}

// Create inserts a new subscription.
func (r *SubscriptionRepository) Create(ctx context.Context, subscription *domain.Subscription) error {
	query := `
		INSERT INTO subscriptions (` + subscriptionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		subscription.ID,
		subscription.CustomerID,
		subscription.Description,
		decimalToNumeric(subscription.MonthlyValue),
		subscription.StartDate,
		timePtrToPgTimestamptz(subscription.EndDate),
		subscription.Active,
		subscription.PaymentDay,
		subscription.CreatedAt,
		subscription.UpdatedAt,
	)

	return err
}

// GetByID retrieves a subscription by ID.
func (r *SubscriptionRepository) GetByID(ctx context.Context, id string) (*domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1`

	subscription, err := scanSubscription(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSubscriptionNotFound
	}

	return subscription, err
}

// Update rewrites a subscription record.
func (r *SubscriptionRepository) Update(ctx context.Context, subscription *domain.Subscription) error {
	query := `
		UPDATE subscriptions
		SET customer_id = $2, description = $3, monthly_value = $4, start_date = $5,
		    end_date = $6, active = $7, payment_day = $8, updated_at = $9
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		subscription.ID,
		subscription.CustomerID,
		subscription.Description,
		decimalToNumeric(subscription.MonthlyValue),
		subscription.StartDate,
		timePtrToPgTimestamptz(subscription.EndDate),
		subscription.Active,
		subscription.PaymentDay,
		subscription.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSubscriptionNotFound
	}

	return nil
}

// List retrieves subscriptions ordered by description.
func (r *SubscriptionRepository) List(ctx context.Context, limit, offset int) ([]*domain.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		ORDER BY description
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSubscriptions(rows)
}

// ListActive retrieves every active subscription.
func (r *SubscriptionRepository) ListActive(ctx context.Context) ([]*domain.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE active
		ORDER BY description
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSubscriptions(rows)
}

// ListAll retrieves every subscription, for export.
func (r *SubscriptionRepository) ListAll(ctx context.Context) ([]*domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSubscriptions(rows)
}

// Upsert inserts or replaces a subscription within a transaction.
func (r *SubscriptionRepository) Upsert(ctx context.Context, tx usecase.Transaction, subscription *domain.Subscription) error {
	query := `
		INSERT INTO subscriptions (` + subscriptionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE
		SET customer_id = EXCLUDED.customer_id, description = EXCLUDED.description,
		    monthly_value = EXCLUDED.monthly_value, start_date = EXCLUDED.start_date,
		    end_date = EXCLUDED.end_date, active = EXCLUDED.active,
		    payment_day = EXCLUDED.payment_day, updated_at = EXCLUDED.updated_at
	`

	_, err := txQuerier(tx, r.pool).Exec(ctx, query,
		subscription.ID,
		subscription.CustomerID,
		subscription.Description,
		decimalToNumeric(subscription.MonthlyValue),
		subscription.StartDate,
		timePtrToPgTimestamptz(subscription.EndDate),
		subscription.Active,
		subscription.PaymentDay,
		subscription.CreatedAt,
		subscription.UpdatedAt,
	)

	return err
}

func scanSubscription(row pgx.Row) (*domain.Subscription, error) {
	var (
		s            domain.Subscription
		monthlyValue pgtype.Numeric
		endDate      pgtype.Timestamptz
	)

	err := row.Scan(
		&s.ID,
		&s.CustomerID,
		&s.Description,
		&monthlyValue,
		&s.StartDate,
		&endDate,
		&s.Active,
		&s.PaymentDay,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.MonthlyValue = numericToDecimal(monthlyValue)
	s.EndDate = pgTimestamptzToTimePtr(endDate)

	return &s, nil
}

func scanSubscriptions(rows pgx.Rows) ([]*domain.Subscription, error) {
	var subscriptions []*domain.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subscriptions = append(subscriptions, s)
	}

	return subscriptions, rows.Err()
}
