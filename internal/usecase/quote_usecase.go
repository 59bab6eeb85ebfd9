package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/contasapp/contas/internal/domain"
	"github.com/contasapp/contas/internal/infrastructure/metrics"
)

// QuoteUseCase manages quotes and their one-time conversion into sales.
type QuoteUseCase struct {
	txManager    TransactionManager
	quoteRepo    QuoteRepository
	saleRepo     SaleRepository
	entryRepo    EntryRepository
	customerRepo CustomerRepository
	outboxRepo   OutboxRepository
	auditRepo    AuditRepository
	idGen        IDGenerator
	metrics      *metrics.Metrics
}

// NewQuoteUseCase creates a new QuoteUseCase.
func NewQuoteUseCase(
	txManager TransactionManager,
	quoteRepo QuoteRepository,
	saleRepo SaleRepository,
	entryRepo EntryRepository,
	customerRepo CustomerRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *QuoteUseCase {
	return &QuoteUseCase{
		txManager:    txManager,
		quoteRepo:    quoteRepo,
		saleRepo:     saleRepo,
		entryRepo:    entryRepo,
		customerRepo: customerRepo,
		outboxRepo:   outboxRepo,
		auditRepo:    auditRepo,
		idGen:        idGen,
		metrics:      metrics,
	}
}

// QuoteInput carries the commercial fields of a quote.
type QuoteInput struct {
	CustomerID   string
	Description  string
	Subtotal     decimal.Decimal
	Discount     decimal.Decimal
	Total        decimal.Decimal
	Method       domain.PaymentMethod
	Installments []domain.Installment
	ValidUntil   *time.Time
}

// CreateQuote records a new quote in the open state.
func (uc *QuoteUseCase) CreateQuote(ctx context.Context, input QuoteInput) (*domain.Quote, error) {
	if _, err := uc.customerRepo.GetByID(ctx, input.CustomerID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	quote := &domain.Quote{
		ID:           uc.idGen.Generate(),
		CustomerID:   input.CustomerID,
		Description:  input.Description,
		Subtotal:     input.Subtotal,
		Discount:     input.Discount,
		Total:        input.Total,
		Method:       input.Method,
		Installments: input.Installments,
		Status:       domain.QuoteStatusOpen,
		ValidUntil:   input.ValidUntil,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := quote.Validate(); err != nil {
		return nil, err
	}

	if err := uc.quoteRepo.Create(ctx, quote); err != nil {
		return nil, err
	}
	return quote, nil
}

// GetQuote returns a quote by id.
func (uc *QuoteUseCase) GetQuote(ctx context.Context, id string) (*domain.Quote, error) {
	return uc.quoteRepo.GetByID(ctx, id)
}

// ListQuotes returns a page of quotes.
func (uc *QuoteUseCase) ListQuotes(ctx context.Context, limit, offset int) ([]*domain.Quote, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.quoteRepo.List(ctx, limit, offset)
}

// UpdateQuote replaces the commercial fields of an open quote.
func (uc *QuoteUseCase) UpdateQuote(ctx context.Context, id string, input QuoteInput) (*domain.Quote, error) {
	quote, err := uc.quoteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quote.Status != domain.QuoteStatusOpen {
		return nil, domain.ErrQuoteAlreadyConverted
	}

	quote.CustomerID = input.CustomerID
	quote.Description = input.Description
	quote.Subtotal = input.Subtotal
	quote.Discount = input.Discount
	quote.Total = input.Total
	quote.Method = input.Method
	quote.Installments = input.Installments
	quote.ValidUntil = input.ValidUntil
	quote.UpdatedAt = time.Now().UTC()

	if err := quote.Validate(); err != nil {
		return nil, err
	}
	if err := uc.quoteRepo.Update(ctx, quote); err != nil {
		return nil, err
	}
	return quote, nil
}

// RejectQuote marks an open quote as rejected.
func (uc *QuoteUseCase) RejectQuote(ctx context.Context, id string) (*domain.Quote, error) {
	quote, err := uc.quoteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quote.Status != domain.QuoteStatusOpen {
		return nil, domain.ErrQuoteAlreadyConverted
	}

	quote.Status = domain.QuoteStatusRejected
	quote.UpdatedAt = time.Now().UTC()
	if err := uc.quoteRepo.Update(ctx, quote); err != nil {
		return nil, err
	}
	return quote, nil
}

// ConvertQuote turns an open quote into a sale with generated entries.
// The quote keeps a reference to the sale and cannot be converted again.
func (uc *QuoteUseCase) ConvertQuote(ctx context.Context, id string) (*domain.Sale, error) {
	now := time.Now().UTC()

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	quote, err := uc.quoteRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return nil, err
	}
	if quote.Status != domain.QuoteStatusOpen {
		return nil, domain.ErrQuoteAlreadyConverted
	}

	sale := quote.ToSale(now)
	sale.ID = uc.idGen.Generate()

	entries := sale.GenerateEntries(now)
	for _, e := range entries {
		e.ID = uc.idGen.Generate()
	}
	sale.Status = domain.DeriveSaleStatus(entries)

	if err := uc.saleRepo.Create(txCtx, tx, sale); err != nil {
		return nil, err
	}
	for _, e := range entries {
		if err := uc.entryRepo.Create(txCtx, tx, e); err != nil {
			return nil, err
		}
	}
	if err := uc.quoteRepo.MarkConverted(txCtx, tx, quote.ID, sale.ID, now); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   quote.ID,
		AggregateType: domain.AggregateTypeQuote,
		EventType:     domain.EventTypeQuoteConverted,
		Payload: map[string]any{
			"quote_id": quote.ID,
			"sale_id":  sale.ID,
			"total":    sale.Total.String(),
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if uc.auditRepo != nil {
		userID := "system"
		if user, ok := domain.UserFromContext(txCtx); ok {
			userID = user.ID
		}
		log := &domain.AuditLog{
			ID:           uc.idGen.Generate(),
			UserID:       userID,
			Action:       string(domain.AuditActionQuoteConvert),
			ResourceType: domain.AggregateTypeQuote,
			ResourceID:   quote.ID,
			BeforeState:  domain.JSON{"status": string(domain.QuoteStatusOpen)},
			AfterState:   domain.JSON{"status": string(domain.QuoteStatusConverted), "sale_id": sale.ID},
			Status:       string(domain.AuditStatusSuccess),
			CreatedAt:    now,
		}
		if err := uc.auditRepo.CreateTx(txCtx, tx, log); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.QuotesConverted.Inc()
	}

	return sale, nil
}
