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

const saleColumns = `id, customer_id, description, subtotal, discount, total, method, status,
	due_date, installments, created_at, updated_at`

// SaleRepository implements usecase.SaleRepository.
type SaleRepository struct {
	pool *pgxpool.Pool
}

// NewSaleRepository creates a new SaleRepository.
func NewSaleRepository(pool *pgxpool.Pool) *SaleRepository {
	return &SaleRepository{pool: pool}
}

// Create inserts a new sale within a transaction.
func (r *SaleRepository) Create(ctx context.Context, tx usecase.Transaction, sale *domain.Sale) error {
	installments, err := json.Marshal(sale.Installments)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = txQuerier(tx, r.pool).Exec(ctx, query,
		sale.ID,
		sale.CustomerID,
		sale.Description,
		decimalToNumeric(sale.Subtotal),
		decimalToNumeric(sale.Discount),
		decimalToNumeric(sale.Total),
		sale.Method,
		sale.Status,
		timePtrToPgTimestamptz(sale.DueDate),
		installments,
		sale.CreatedAt,
		sale.UpdatedAt,
	)

	return err
}

// GetByID retrieves a sale by ID.
func (r *SaleRepository) GetByID(ctx context.Context, id string) (*domain.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`

	sale, err := scanSale(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSaleNotFound
	}

	return sale, err
}

// Update rewrites a sale within a transaction.
func (r *SaleRepository) Update(ctx context.Context, tx usecase.Transaction, sale *domain.Sale) error {
	installments, err := json.Marshal(sale.Installments)
	if err != nil {
		return err
	}

	query := `
		UPDATE sales
		SET customer_id = $2, description = $3, subtotal = $4, discount = $5, total = $6,
		    method = $7, status = $8, due_date = $9, installments = $10, updated_at = $11
		WHERE id = $1
	`

	tag, err := txQuerier(tx, r.pool).Exec(ctx, query,
		sale.ID,
		sale.CustomerID,
		sale.Description,
		decimalToNumeric(sale.Subtotal),
		decimalToNumeric(sale.Discount),
		decimalToNumeric(sale.Total),
		sale.Method,
		sale.Status,
		timePtrToPgTimestamptz(sale.DueDate),
		installments,
		sale.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSaleNotFound
	}

	return nil
}

// UpdateStatus sets the derived status of a sale.
func (r *SaleRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.EntryStatus, updatedAt time.Time) error {
	query := `UPDATE sales SET status = $2, updated_at = $3 WHERE id = $1`

	tag, err := txQuerier(tx, r.pool).Exec(ctx, query, id, status, updatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSaleNotFound
	}

	return nil
}

// Delete removes a sale within a transaction.
func (r *SaleRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	tag, err := txQuerier(tx, r.pool).Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSaleNotFound
	}

	return nil
}

// List retrieves sales, newest first.
func (r *SaleRepository) List(ctx context.Context, limit, offset int) ([]*domain.Sale, error) {
	query := `
		SELECT ` + saleColumns + `
		FROM sales
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSales(rows)
}

// ListAll retrieves every sale, for export.
func (r *SaleRepository) ListAll(ctx context.Context) ([]*domain.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSales(rows)
}

// Upsert inserts or replaces a sale within a transaction.
func (r *SaleRepository) Upsert(ctx context.Context, tx usecase.Transaction, sale *domain.Sale) error {
	installments, err := json.Marshal(sale.Installments)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE
		SET customer_id = EXCLUDED.customer_id, description = EXCLUDED.description,
		    subtotal = EXCLUDED.subtotal, discount = EXCLUDED.discount, total = EXCLUDED.total,
		    method = EXCLUDED.method, status = EXCLUDED.status, due_date = EXCLUDED.due_date,
		    installments = EXCLUDED.installments, updated_at = EXCLUDED.updated_at
	`

	_, err = txQuerier(tx, r.pool).Exec(ctx, query,
		sale.ID,
		sale.CustomerID,
		sale.Description,
		decimalToNumeric(sale.Subtotal),
		decimalToNumeric(sale.Discount),
		decimalToNumeric(sale.Total),
		sale.Method,
		sale.Status,
		timePtrToPgTimestamptz(sale.DueDate),
		installments,
		sale.CreatedAt,
		sale.UpdatedAt,
	)

	return err
}

func scanSale(row pgx.Row) (*domain.Sale, error) {
	var (
		s            domain.Sale
		subtotal     pgtype.Numeric
		discount     pgtype.Numeric
		total        pgtype.Numeric
		dueDate      pgtype.Timestamptz
		installments []byte
	)

	err := row.Scan(
		&s.ID,
		&s.CustomerID,
		&s.Description,
		&subtotal,
		&discount,
		&total,
		&s.Method,
		&s.Status,
		&dueDate,
		&installments,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Subtotal = numericToDecimal(subtotal)
	s.Discount = numericToDecimal(discount)
	s.Total = numericToDecimal(total)
	s.DueDate = pgTimestamptzToTimePtr(dueDate)

	if len(installments) > 0 {
		if err := json.Unmarshal(installments, &s.Installments); err != nil {
			return nil, err
		}
	}

	return &s, nil
}

func scanSales(rows pgx.Rows) ([]*domain.Sale, error) {
	var sales []*domain.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}

	return sales, rows.Err()
}
