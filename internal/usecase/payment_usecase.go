package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/contasapp/contas/internal/domain"
	"github.com/contasapp/contas/internal/infrastructure/metrics"
)

// PaymentUseCase applies payment events to financial entries and cascades
// the resulting status to the parent sale. Every operation runs inside a
// single database transaction: a failed cascade rolls back entirely
// instead of leaving half-applied writes behind.
type PaymentUseCase struct {
	txManager  TransactionManager
	entryRepo  EntryRepository
	saleRepo   SaleRepository
	outboxRepo OutboxRepository
	auditRepo  AuditRepository
	idGen      IDGenerator
	metrics    *metrics.Metrics
	retrier    Retrier
}

// NewPaymentUseCase creates a new PaymentUseCase.
func NewPaymentUseCase(
	txManager TransactionManager,
	entryRepo EntryRepository,
	saleRepo SaleRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *PaymentUseCase {
	return &PaymentUseCase{
		txManager:  txManager,
		entryRepo:  entryRepo,
		saleRepo:   saleRepo,
		outboxRepo: outboxRepo,
		auditRepo:  auditRepo,
		idGen:      idGen,
		metrics:    metrics,
	}
}

// WithRetrier configures the use case to retry operations that fail
// with retryable database errors such as deadlocks.
func (uc *PaymentUseCase) WithRetrier(retrier Retrier) *PaymentUseCase {
	uc.retrier = retrier
	return uc
}

// retry runs op through the configured retrier, or directly when none
// is set.
func (uc *PaymentUseCase) retry(ctx context.Context, op func() error) error {
	if uc.retrier == nil {
		return op()
	}
	return uc.retrier.Retry(ctx, op)
}

// PayEntryInput represents input for settling an entry in full.
type PayEntryInput struct {
	EntryID string
	Method  domain.PaymentMethod
}

// PayEntry settles an entry in full and recomputes the parent sale
// status. Settling an already-paid entry does not disturb the balance.
func (uc *PaymentUseCase) PayEntry(ctx context.Context, input PayEntryInput) (*domain.Entry, error) {
	var entry *domain.Entry
	err := uc.retry(ctx, func() error {
		var opErr error
		entry, opErr = uc.payEntry(ctx, input)
		return opErr
	})
	return entry, err
}

func (uc *PaymentUseCase) payEntry(ctx context.Context, input PayEntryInput) (*domain.Entry, error) {
	if !input.Method.IsValid() || !input.Method.Immediate() {
		return nil, domain.ErrInvalidPaymentMethod
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	entry, err := uc.entryRepo.GetByIDForUpdate(txCtx, tx, input.EntryID)
	if err != nil {
		return nil, err
	}

	before := domain.MarshalState(entry)
	now := time.Now().UTC()

	entry.MarkPaid(input.Method, now)
	if err := uc.entryRepo.Update(txCtx, tx, entry); err != nil {
		return nil, err
	}

	if err := uc.cascadeSaleStatus(txCtx, tx, entry.SaleID, now); err != nil {
		return nil, err
	}

	saleID := ""
	if entry.SaleID != nil {
		saleID = *entry.SaleID
	}
	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   entry.ID,
		AggregateType: domain.AggregateTypeEntry,
		EventType:     domain.EventTypeEntryPaid,
		Payload: map[string]any{
			"entry_id": entry.ID,
			"sale_id":  saleID,
			"amount":   entry.Amount.String(),
			"method":   string(input.Method),
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := uc.audit(txCtx, tx, domain.AuditActionEntryPay, entry.ID, before, entry, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesPaid.Inc()
		amt, _ := entry.Amount.Float64()
		uc.metrics.PaymentAmount.Observe(amt)
	}

	return entry, nil
}

// PayPartialInput represents input for a partial payment.
type PayPartialInput struct {
	EntryID string
	Amount  decimal.Decimal
	Method  domain.PaymentMethod
}

// PayPartial applies a partial payment: the open entry shrinks by the
// paid amount and a separate settled marker entry records the payment.
// An amount at or above the remaining balance degrades to a full payment.
// The second return value is the marker, nil when the payment degraded.
func (uc *PaymentUseCase) PayPartial(ctx context.Context, input PayPartialInput) (*domain.Entry, *domain.Entry, error) {
	var entry, marker *domain.Entry
	err := uc.retry(ctx, func() error {
		var opErr error
		entry, marker, opErr = uc.payPartial(ctx, input)
		return opErr
	})
	return entry, marker, err
}

func (uc *PaymentUseCase) payPartial(ctx context.Context, input PayPartialInput) (*domain.Entry, *domain.Entry, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, nil, err
	}
	if !input.Method.IsValid() || !input.Method.Immediate() {
		return nil, nil, domain.ErrInvalidPaymentMethod
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	entry, err := uc.entryRepo.GetByIDForUpdate(txCtx, tx, input.EntryID)
	if err != nil {
		return nil, nil, err
	}
	if entry.Status == domain.StatusPaid {
		return nil, nil, domain.ErrEntryNotOpen
	}

	before := domain.MarshalState(entry)
	now := time.Now().UTC()

	// Boundary at equality rounds toward a full payment.
	if input.Amount.GreaterThanOrEqual(entry.Remaining) {
		tx.Rollback(txCtx)
		paid, err := uc.payEntry(ctx, PayEntryInput{EntryID: input.EntryID, Method: input.Method})
		return paid, nil, err
	}

	if err := entry.ApplyPartialPayment(input.Amount, now); err != nil {
		return nil, nil, err
	}

	marker := domain.NewPartialMarker(entry, input.Amount, input.Method, now)
	marker.ID = uc.idGen.Generate()

	if err := uc.entryRepo.Update(txCtx, tx, entry); err != nil {
		return nil, nil, err
	}
	if err := uc.entryRepo.Create(txCtx, tx, marker); err != nil {
		return nil, nil, err
	}

	if err := uc.cascadeSaleStatus(txCtx, tx, entry.SaleID, now); err != nil {
		return nil, nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   entry.ID,
		AggregateType: domain.AggregateTypeEntry,
		EventType:     domain.EventTypeEntryPartiallyPaid,
		Payload: map[string]any{
			"entry_id":  entry.ID,
			"marker_id": marker.ID,
			"paid":      input.Amount.String(),
			"remaining": entry.Remaining.String(),
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, nil, err
	}

	if err := uc.audit(txCtx, tx, domain.AuditActionEntryPayPartial, entry.ID, before, entry, now); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, nil, err
	}

	if uc.metrics != nil {
		uc.metrics.PartialPayments.Inc()
		amt, _ := input.Amount.Float64()
		uc.metrics.PaymentAmount.Observe(amt)
	}

	return entry, marker, nil
}

// ReverseEntry undoes a recorded payment.
//
// A plain paid entry returns to pending with its balance restored. A
// partial-payment marker folds its amount back into the sibling open
// entry for the same sale and is deleted; when no open sibling remains
// the marker itself is converted back into an open entry.
func (uc *PaymentUseCase) ReverseEntry(ctx context.Context, entryID string) (*domain.Entry, error) {
	var entry *domain.Entry
	err := uc.retry(ctx, func() error {
		var opErr error
		entry, opErr = uc.reverseEntry(ctx, entryID)
		return opErr
	})
	return entry, err
}

func (uc *PaymentUseCase) reverseEntry(ctx context.Context, entryID string) (*domain.Entry, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	entry, err := uc.entryRepo.GetByIDForUpdate(txCtx, tx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.StatusPaid {
		return nil, domain.ErrEntryNotPaid
	}
	if entry.SubscriptionID != nil {
		return nil, domain.ErrSubscriptionEntry
	}

	before := domain.MarshalState(entry)
	now := time.Now().UTC()
	reversed := entry
	wasMerge := false

	if entry.IsPartialMarker() && entry.SaleID != nil {
		sibling, err := uc.findOpenSibling(txCtx, tx, *entry.SaleID, entry.ID)
		if err != nil {
			return nil, err
		}

		if sibling != nil {
			if err := sibling.AbsorbReversal(entry.Amount, now); err != nil {
				return nil, err
			}
			if err := uc.entryRepo.Update(txCtx, tx, sibling); err != nil {
				return nil, err
			}
			if err := uc.entryRepo.Delete(txCtx, tx, entry.ID); err != nil {
				return nil, err
			}
			reversed = sibling
			wasMerge = true
		} else {
			if err := entry.ConvertMarkerToOpen(now); err != nil {
				return nil, err
			}
			if err := uc.entryRepo.Update(txCtx, tx, entry); err != nil {
				return nil, err
			}
		}
	} else {
		if err := entry.Revert(now); err != nil {
			return nil, err
		}
		if err := uc.entryRepo.Update(txCtx, tx, entry); err != nil {
			return nil, err
		}
	}

	if err := uc.cascadeSaleStatus(txCtx, tx, entry.SaleID, now); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   entryID,
		AggregateType: domain.AggregateTypeEntry,
		EventType:     domain.EventTypeEntryReversed,
		Payload: map[string]any{
			"entry_id":  entryID,
			"amount":    entry.Amount.String(),
			"was_merge": wasMerge,
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := uc.audit(txCtx, tx, domain.AuditActionEntryReverse, entryID, before, reversed, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.PaymentsReversed.Inc()
	}

	return reversed, nil
}

// findOpenSibling locates another entry of the same sale that still has
// an open balance.
func (uc *PaymentUseCase) findOpenSibling(ctx context.Context, tx Transaction, saleID, excludeID string) (*domain.Entry, error) {
	siblings, err := uc.entryRepo.ListBySaleForUpdate(ctx, tx, saleID)
	if err != nil {
		return nil, err
	}

	for _, s := range siblings {
		if s.ID != excludeID && s.Status != domain.StatusPaid {
			return s, nil
		}
	}
	return nil, nil
}

// cascadeSaleStatus recomputes the parent sale's aggregate status from
// its current entry set.
func (uc *PaymentUseCase) cascadeSaleStatus(ctx context.Context, tx Transaction, saleID *string, now time.Time) error {
	if saleID == nil {
		return nil
	}

	entries, err := uc.entryRepo.ListBySaleForUpdate(ctx, tx, *saleID)
	if err != nil {
		return err
	}

	status := domain.DeriveSaleStatus(entries)
	return uc.saleRepo.UpdateStatus(ctx, tx, *saleID, status, now)
}

func (uc *PaymentUseCase) audit(ctx context.Context, tx Transaction, action domain.AuditAction, resourceID string, before domain.JSON, after any, now time.Time) error {
	if uc.auditRepo == nil {
		return nil
	}

	userID := "system"
	if user, ok := domain.UserFromContext(ctx); ok {
		userID = user.ID
	}

	return uc.auditRepo.CreateTx(ctx, tx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       userID,
		Action:       string(action),
		ResourceType: domain.AggregateTypeEntry,
		ResourceID:   resourceID,
		BeforeState:  before,
		AfterState:   domain.MarshalState(after),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    now,
	})
}
