package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/contasapp/contas/internal/domain"
	"github.com/contasapp/contas/internal/infrastructure/metrics"
)

// SaleUseCase manages sales and the financial entries derived from them.
// Editing a sale regenerates its entries from scratch: prior payment
// history on that sale is discarded together with the old entries.
type SaleUseCase struct {
	txManager    TransactionManager
	saleRepo     SaleRepository
	entryRepo    EntryRepository
	customerRepo CustomerRepository
	outboxRepo   OutboxRepository
	auditRepo    AuditRepository
	idGen        IDGenerator
	metrics      *metrics.Metrics
}

// NewSaleUseCase creates a new SaleUseCase.
func NewSaleUseCase(
	txManager TransactionManager,
	saleRepo SaleRepository,
	entryRepo EntryRepository,
	customerRepo CustomerRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *SaleUseCase {
	return &SaleUseCase{
		txManager:    txManager,
		saleRepo:     saleRepo,
		entryRepo:    entryRepo,
		customerRepo: customerRepo,
		outboxRepo:   outboxRepo,
		auditRepo:    auditRepo,
		idGen:        idGen,
		metrics:      metrics,
	}
}

// SaleInput carries the commercial fields of a sale. A Count above one
// splits the total into monthly installments starting at DueDate;
// FirstAmount, when set, fixes the first installment and redistributes
// the remainder evenly.
type SaleInput struct {
	CustomerID  string
	Description string
	Subtotal    decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal
	Method      domain.PaymentMethod
	DueDate     *time.Time
	Count       int
	FirstAmount *decimal.Decimal
}

// buildSale assembles and validates a sale from input, without an ID.
func (uc *SaleUseCase) buildSale(input SaleInput, now time.Time) (*domain.Sale, error) {
	sale := &domain.Sale{
		CustomerID:  input.CustomerID,
		Description: input.Description,
		Subtotal:    input.Subtotal,
		Discount:    input.Discount,
		Total:       input.Total,
		Method:      input.Method,
		Status:      domain.StatusPending,
		DueDate:     input.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if input.Count > 1 {
		base := now
		if input.DueDate != nil {
			base = *input.DueDate
		}
		plan, err := domain.PlanInstallments(input.Total, input.Count, base, input.Method)
		if err != nil {
			return nil, err
		}
		if input.FirstAmount != nil {
			if err := domain.RedistributeFromFirst(plan, *input.FirstAmount, input.Total); err != nil {
				return nil, err
			}
		}
		sale.Installments = plan
	}

	if err := sale.Validate(); err != nil {
		return nil, err
	}
	return sale, nil
}

// CreateSale records a new sale and generates its entries. Immediate
// payment methods produce already-settled entries; the open method leaves
// them to be collected.
func (uc *SaleUseCase) CreateSale(ctx context.Context, input SaleInput) (*domain.Sale, error) {
	if _, err := uc.customerRepo.GetByID(ctx, input.CustomerID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sale, err := uc.buildSale(input, now)
	if err != nil {
		return nil, err
	}
	sale.ID = uc.idGen.Generate()

	entries := sale.GenerateEntries(now)
	for _, e := range entries {
		e.ID = uc.idGen.Generate()
	}
	sale.Status = domain.DeriveSaleStatus(entries)

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.saleRepo.Create(txCtx, tx, sale); err != nil {
		return nil, err
	}
	for _, e := range entries {
		if err := uc.entryRepo.Create(txCtx, tx, e); err != nil {
			return nil, err
		}
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   sale.ID,
		AggregateType: domain.AggregateTypeSale,
		EventType:     domain.EventTypeSaleCreated,
		Payload: map[string]any{
			"sale_id":     sale.ID,
			"customer_id": sale.CustomerID,
			"total":       sale.Total.String(),
			"entries":     len(entries),
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := uc.audit(txCtx, tx, domain.AuditActionSaleCreate, sale.ID, nil, sale, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.SalesCreated.Inc()
	}

	return sale, nil
}

// GetSale returns a sale together with its current entries.
func (uc *SaleUseCase) GetSale(ctx context.Context, id string) (*domain.Sale, []*domain.Entry, error) {
	sale, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	entries, err := uc.entryRepo.ListBySale(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return sale, entries, nil
}

// ListSales returns a page of sales.
func (uc *SaleUseCase) ListSales(ctx context.Context, limit, offset int) ([]*domain.Sale, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.saleRepo.List(ctx, limit, offset)
}

// UpdateSale replaces the sale's commercial fields and regenerates every
// entry from the new state. Payments recorded against the old entries are
// not carried over.
func (uc *SaleUseCase) UpdateSale(ctx context.Context, id string, input SaleInput) (*domain.Sale, error) {
	existing, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sale, err := uc.buildSale(input, now)
	if err != nil {
		return nil, err
	}
	sale.ID = existing.ID
	sale.CreatedAt = existing.CreatedAt

	entries := sale.GenerateEntries(now)
	for _, e := range entries {
		e.ID = uc.idGen.Generate()
	}
	sale.Status = domain.DeriveSaleStatus(entries)

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.entryRepo.DeleteBySale(txCtx, tx, sale.ID); err != nil {
		return nil, err
	}
	for _, e := range entries {
		if err := uc.entryRepo.Create(txCtx, tx, e); err != nil {
			return nil, err
		}
	}
	if err := uc.saleRepo.Update(txCtx, tx, sale); err != nil {
		return nil, err
	}

	if err := uc.audit(txCtx, tx, domain.AuditActionSaleUpdate, sale.ID, domain.MarshalState(existing), sale, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesReplaced.Add(float64(len(entries)))
	}

	return sale, nil
}

// DeleteSale removes a sale and every entry generated from it.
func (uc *SaleUseCase) DeleteSale(ctx context.Context, id string) error {
	existing, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.entryRepo.DeleteBySale(txCtx, tx, id); err != nil {
		return err
	}
	if err := uc.saleRepo.Delete(txCtx, tx, id); err != nil {
		return err
	}

	if err := uc.audit(txCtx, tx, domain.AuditActionSaleDelete, id, domain.MarshalState(existing), nil, now); err != nil {
		return err
	}

	return tx.Commit(txCtx)
}

func (uc *SaleUseCase) audit(ctx context.Context, tx Transaction, action domain.AuditAction, resourceID string, before domain.JSON, after any, now time.Time) error {
	if uc.auditRepo == nil {
		return nil
	}

	userID := "system"
	if user, ok := domain.UserFromContext(ctx); ok {
		userID = user.ID
	}

	var afterState domain.JSON
	if after != nil {
		afterState = domain.MarshalState(after)
	}

	return uc.auditRepo.CreateTx(ctx, tx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       userID,
		Action:       string(action),
		ResourceType: domain.AggregateTypeSale,
		ResourceID:   resourceID,
		BeforeState:  before,
		AfterState:   afterState,
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    now,
	})
}
