package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contasapp/contas/internal/domain"
	"github.com/contasapp/contas/internal/usecase"
)

const quoteColumns = `id, customer_id, description, subtotal, discount, total, method,
	installments, status, sale_id, valid_until, created_at, updated_at`

// QuoteRepository implements usecase.QuoteRepository.
type QuoteRepository struct {
	pool *pgxpool.Pool
}

// NewQuoteRepository creates a new QuoteRepository.
func NewQuoteRepository(pool *pgxpool.Pool) *QuoteRepository {
	return &QuoteRepository{pool: pool}
}

// Create inserts a new quote.
func (r *QuoteRepository) Create(ctx context.Context, quote *domain.Quote) error {
	installments, err := json.Marshal(quote.Installments)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO quotes (` + quoteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = r.pool.Exec(ctx, query,
		quote.ID,
		quote.CustomerID,
		quote.Description,
		decimalToNumeric(quote.Subtotal),
		decimalToNumeric(quote.Discount),
		decimalToNumeric(quote.Total),
		quote.Method,
		installments,
		quote.Status,
		quote.SaleID,
		timePtrToPgTimestamptz(quote.ValidUntil),
		quote.CreatedAt,
		quote.UpdatedAt,
	)

	return err
}

// GetByID retrieves a quote by ID.
func (r *QuoteRepository) GetByID(ctx context.Context, id string) (*domain.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE id = $1`

	quote, err := scanQuote(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrQuoteNotFound
	}

	return quote, err
}

// GetByIDForUpdate retrieves a quote by ID with a FOR UPDATE lock.
func (r *QuoteRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE id = $1 FOR UPDATE`

	quote, err := scanQuote(txQuerier(tx, r.pool).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrQuoteNotFound
	}

	return quote, err
}

// Update rewrites a quote record.
func (r *QuoteRepository) Update(ctx context.Context, quote *domain.Quote) error {
	installments, err := json.Marshal(quote.Installments)
	if err != nil {
		return err
	}

	query := `
		UPDATE quotes
		SET customer_id = $2, description = $3, subtotal = $4, discount = $5, total = $6,
		    method = $7, installments = $8, status = $9, sale_id = $10, valid_until = $11,
		    updated_at = $12
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		quote.ID,
		quote.CustomerID,
		quote.Description,
		decimalToNumeric(quote.Subtotal),
		decimalToNumeric(quote.Discount),
		decimalToNumeric(quote.Total),
		quote.Method,
		installments,
		quote.Status,
		quote.SaleID,
		timePtrToPgTimestamptz(quote.ValidUntil),
		quote.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuoteNotFound
	}

	return nil
}

// MarkConverted flags a quote as converted and records the resulting sale.
func (r *QuoteRepository) MarkConverted(ctx context.Context, tx usecase.Transaction, id, saleID string, at time.Time) error {
	query := `UPDATE quotes SET status = $2, sale_id = $3, updated_at = $4 WHERE id = $1`

	tag, err := txQuerier(tx, r.pool).Exec(ctx, query, id, domain.QuoteStatusConverted, saleID, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuoteNotFound
	}

	return nil
}

// List retrieves quotes, newest first.
func (r *QuoteRepository) List(ctx context.Context, limit, offset int) ([]*domain.Quote, error) {
	query := `
		SELECT ` + quoteColumns + `
		FROM quotes
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanQuotes(rows)
}

// ListAll retrieves every quote, for export.
func (r *QuoteRepository) ListAll(ctx context.Context) ([]*domain.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanQuotes(rows)
}

// Upsert inserts or replaces a quote within a transaction.
func (r *QuoteRepository) Upsert(ctx context.Context, tx usecase.Transaction, quote *domain.Quote) error {
	installments, err := json.Marshal(quote.Installments)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO quotes (` + quoteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE
		SET customer_id = EXCLUDED.customer_id, description = EXCLUDED.description,
		    subtotal = EXCLUDED.subtotal, discount = EXCLUDED.discount, total = EXCLUDED.total,
		    method = EXCLUDED.method, installments = EXCLUDED.installments,
		    status = EXCLUDED.status, sale_id = EXCLUDED.sale_id,
		    valid_until = EXCLUDED.valid_until, updated_at = EXCLUDED.updated_at
	`

	_, err = txQuerier(tx, r.pool).Exec(ctx, query,
		quote.ID,
		quote.CustomerID,
		quote.Description,
		decimalToNumeric(quote.Subtotal),
		decimalToNumeric(quote.Discount),
		decimalToNumeric(quote.Total),
		quote.Method,
		installments,
		quote.Status,
		quote.SaleID,
		timePtrToPgTimestamptz(quote.ValidUntil),
		quote.CreatedAt,
		quote.UpdatedAt,
	)

	return err
}

func scanQuote(row pgx.Row) (*domain.Quote, error) {
	var (
		q            domain.Quote
		subtotal     pgtype.Numeric
		discount     pgtype.Numeric
		total        pgtype.Numeric
		validUntil   pgtype.Timestamptz
		installments []byte
	)

	err := row.Scan(
		&q.ID,
		&q.CustomerID,
		&q.Description,
		&subtotal,
		&discount,
		&total,
		&q.Method,
		&installments,
		&q.Status,
		&q.SaleID,
		&validUntil,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	q.Subtotal = numericToDecimal(subtotal)
	q.Discount = numericToDecimal(discount)
	q.Total = numericToDecimal(total)
	q.ValidUntil = pgTimestamptzToTimePtr(validUntil)

	if len(installments) > 0 {
		if err := json.Unmarshal(installments, &q.Installments); err != nil {
			return nil, err
		}
	}

	return &q, nil
}

func scanQuotes(rows pgx.Rows) ([]*domain.Quote, error) {
	var quotes []*domain.Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}

	return quotes, rows.Err()
}
