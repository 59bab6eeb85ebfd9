package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/contasapp/contas/internal/domain"
	"github.com/contasapp/contas/internal/infrastructure/metrics"
)

// SubscriptionUseCase manages recurring obligations. Periods stay virtual
// until a pay or skip event materializes them; paying a period also
// materializes its entry so received-payment reports see it.
type SubscriptionUseCase struct {
	txManager        TransactionManager
	subscriptionRepo SubscriptionRepository
	paymentRepo      SubscriptionPaymentRepository
	entryRepo        EntryRepository
	customerRepo     CustomerRepository
	outboxRepo       OutboxRepository
	auditRepo        AuditRepository
	idGen            IDGenerator
	metrics          *metrics.Metrics
}

// NewSubscriptionUseCase creates a new SubscriptionUseCase.
func NewSubscriptionUseCase(
	txManager TransactionManager,
	subscriptionRepo SubscriptionRepository,
	paymentRepo SubscriptionPaymentRepository,
	entryRepo EntryRepository,
	customerRepo CustomerRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *SubscriptionUseCase {
	return &SubscriptionUseCase{
		txManager:        txManager,
		subscriptionRepo: subscriptionRepo,
		paymentRepo:      paymentRepo,
		entryRepo:        entryRepo,
		customerRepo:     customerRepo,
		outboxRepo:       outboxRepo,
		auditRepo:        auditRepo,
		idGen:            idGen,
		metrics:          metrics,
	}
}

// SubscriptionInput carries the fields of a subscription.
type SubscriptionInput struct {
	CustomerID   string
	Description  string
	MonthlyValue decimal.Decimal
	StartDate    time.Time
	EndDate      *time.Time
	PaymentDay   int
}

// CreateSubscription records a new active subscription.
func (uc *SubscriptionUseCase) CreateSubscription(ctx context.Context, input SubscriptionInput) (*domain.Subscription, error) {
	if _, err := uc.customerRepo.GetByID(ctx, input.CustomerID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sub := &domain.Subscription{
		ID:           uc.idGen.Generate(),
		CustomerID:   input.CustomerID,
		Description:  input.Description,
		MonthlyValue: input.MonthlyValue,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		Active:       true,
		PaymentDay:   input.PaymentDay,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	if err := uc.subscriptionRepo.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// GetSubscription returns a subscription by id.
func (uc *SubscriptionUseCase) GetSubscription(ctx context.Context, id string) (*domain.Subscription, error) {
	return uc.subscriptionRepo.GetByID(ctx, id)
}

// ListSubscriptions returns a page of subscriptions.
func (uc *SubscriptionUseCase) ListSubscriptions(ctx context.Context, limit, offset int) ([]*domain.Subscription, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.subscriptionRepo.List(ctx, limit, offset)
}

// UpdateSubscription replaces the editable fields of a subscription.
// Already-materialized periods keep the amount they were paid with.
func (uc *SubscriptionUseCase) UpdateSubscription(ctx context.Context, id string, input SubscriptionInput) (*domain.Subscription, error) {
	sub, err := uc.subscriptionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sub.CustomerID = input.CustomerID
	sub.Description = input.Description
	sub.MonthlyValue = input.MonthlyValue
	sub.StartDate = input.StartDate
	sub.EndDate = input.EndDate
	sub.PaymentDay = input.PaymentDay
	sub.UpdatedAt = time.Now().UTC()

	if err := sub.Validate(); err != nil {
		return nil, err
	}
	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// DeactivateSubscription stops period derivation for the subscription.
// Materialized payment records are untouched.
func (uc *SubscriptionUseCase) DeactivateSubscription(ctx context.Context, id string) (*domain.Subscription, error) {
	sub, err := uc.subscriptionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sub.Active = false
	sub.UpdatedAt = time.Now().UTC()
	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// PeriodView is one calendar month of a subscription as shown to callers:
// the derived entry plus skip state when the period is materialized.
type PeriodView struct {
	Key        domain.PeriodKey
	Entry      *domain.Entry
	Skipped    bool
	SkipReason string
}

// ListPeriods derives the subscription's months from the given month on,
// merged with materialized payment records.
func (uc *SubscriptionUseCase) ListPeriods(ctx context.Context, id string, from time.Time, months int) ([]PeriodView, error) {
	sub, err := uc.subscriptionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	payments, err := uc.paymentRepo.ListBySubscription(ctx, id)
	if err != nil {
		return nil, err
	}
	byKey := make(map[domain.PeriodKey]*domain.SubscriptionPayment, len(payments))
	for _, p := range payments {
		byKey[p.Key()] = p
	}

	keys := sub.Periods(from, months)
	views := make([]PeriodView, 0, len(keys))
	for _, key := range keys {
		payment := byKey[key]
		view := PeriodView{
			Key:   key,
			Entry: sub.PeriodEntry(key.Year, time.Month(key.Month), payment),
		}
		if payment != nil {
			view.Skipped = payment.Skipped
			view.SkipReason = payment.SkipReason
		}
		views = append(views, view)
	}
	return views, nil
}

// PayPeriodInput identifies a period and how it was paid. Amount, when
// set, overrides the subscription's monthly value for this period only.
type PayPeriodInput struct {
	SubscriptionID string
	Year           int
	Month          int
	Amount         *decimal.Decimal
	Method         domain.PaymentMethod
}

// PayPeriod materializes a period as paid, creating the settled entry it
// links to.
func (uc *SubscriptionUseCase) PayPeriod(ctx context.Context, input PayPeriodInput) (*domain.SubscriptionPayment, error) {
	key := domain.PeriodKey{SubscriptionID: input.SubscriptionID, Year: input.Year, Month: input.Month}
	if err := key.Validate(); err != nil {
		return nil, err
	}
	if !input.Method.IsValid() || !input.Method.Immediate() {
		return nil, domain.ErrInvalidPaymentMethod
	}

	sub, err := uc.subscriptionRepo.GetByID(ctx, input.SubscriptionID)
	if err != nil {
		return nil, err
	}

	amount := sub.MonthlyValue
	if input.Amount != nil {
		amount = *input.Amount
	}
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	payment, err := uc.paymentRepo.GetByPeriodForUpdate(txCtx, tx, key)
	if err != nil && !errors.Is(err, domain.ErrPeriodNotFound) {
		return nil, err
	}
	if payment != nil {
		if payment.Skipped {
			return nil, domain.ErrPeriodSkipped
		}
		if payment.Status == domain.StatusPaid {
			return nil, domain.ErrPeriodAlreadyPaid
		}
	}

	entry := sub.PeriodEntry(input.Year, time.Month(input.Month), nil)
	entry.ID = uc.idGen.Generate()
	entry.Amount = amount
	entry.OriginalAmount = amount
	entry.Remaining = amount
	entry.MarkPaid(input.Method, now)
	entry.CreatedAt = now
	entry.UpdatedAt = now

	if err := uc.entryRepo.Create(txCtx, tx, entry); err != nil {
		return nil, err
	}

	if payment == nil {
		payment = &domain.SubscriptionPayment{
			ID:             uc.idGen.Generate(),
			SubscriptionID: input.SubscriptionID,
			Year:           input.Year,
			Month:          input.Month,
			CreatedAt:      now,
		}
		payment.Amount = amount
		payment.Status = domain.StatusPaid
		payment.Method = input.Method
		payment.EntryID = &entry.ID
		payment.PaidAt = &now
		payment.UpdatedAt = now
		if err := uc.paymentRepo.Create(txCtx, tx, payment); err != nil {
			return nil, err
		}
	} else {
		payment.Amount = amount
		payment.Status = domain.StatusPaid
		payment.Method = input.Method
		payment.EntryID = &entry.ID
		payment.PaidAt = &now
		payment.UpdatedAt = now
		if err := uc.paymentRepo.Update(txCtx, tx, payment); err != nil {
			return nil, err
		}
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   input.SubscriptionID,
		AggregateType: domain.AggregateTypeSubscription,
		EventType:     domain.EventTypePeriodPaid,
		Payload: map[string]any{
			"subscription_id": input.SubscriptionID,
			"year":            input.Year,
			"month":           input.Month,
			"amount":          amount.String(),
			"entry_id":        entry.ID,
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := uc.audit(txCtx, tx, domain.AuditActionPeriodPay, payment.ID, nil, payment, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.PeriodsPaid.Inc()
	}

	return payment, nil
}

// SkipPeriodInput identifies a period to skip with an optional reason.
type SkipPeriodInput struct {
	SubscriptionID string
	Year           int
	Month          int
	Reason         string
}

// SkipPeriod materializes a period as skipped: it no longer shows up as
// receivable and cannot be paid until reverted.
func (uc *SubscriptionUseCase) SkipPeriod(ctx context.Context, input SkipPeriodInput) (*domain.SubscriptionPayment, error) {
	key := domain.PeriodKey{SubscriptionID: input.SubscriptionID, Year: input.Year, Month: input.Month}
	if err := key.Validate(); err != nil {
		return nil, err
	}

	if _, err := uc.subscriptionRepo.GetByID(ctx, input.SubscriptionID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	payment, err := uc.paymentRepo.GetByPeriodForUpdate(txCtx, tx, key)
	if err != nil && !errors.Is(err, domain.ErrPeriodNotFound) {
		return nil, err
	}
	if payment != nil {
		if payment.Status == domain.StatusPaid {
			return nil, domain.ErrPeriodAlreadyPaid
		}
		if payment.Skipped {
			return payment, nil
		}
		payment.Skipped = true
		payment.SkipReason = input.Reason
		payment.UpdatedAt = now
		if err := uc.paymentRepo.Update(txCtx, tx, payment); err != nil {
			return nil, err
		}
	} else {
		payment = &domain.SubscriptionPayment{
			ID:             uc.idGen.Generate(),
			SubscriptionID: input.SubscriptionID,
			Year:           input.Year,
			Month:          input.Month,
			Status:         domain.StatusPending,
			Method:         domain.MethodOpen,
			Skipped:        true,
			SkipReason:     input.Reason,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := uc.paymentRepo.Create(txCtx, tx, payment); err != nil {
			return nil, err
		}
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   input.SubscriptionID,
		AggregateType: domain.AggregateTypeSubscription,
		EventType:     domain.EventTypePeriodSkipped,
		Payload: map[string]any{
			"subscription_id": input.SubscriptionID,
			"year":            input.Year,
			"month":           input.Month,
			"reason":          input.Reason,
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := uc.audit(txCtx, tx, domain.AuditActionPeriodSkip, payment.ID, nil, payment, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.PeriodsSkipped.Inc()
	}

	return payment, nil
}

// RevertPeriod returns a materialized period to the pending state. A paid
// period loses its entry and payment details; a skipped period is
// un-skipped. The record itself stays materialized.
func (uc *SubscriptionUseCase) RevertPeriod(ctx context.Context, key domain.PeriodKey) (*domain.SubscriptionPayment, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	payment, err := uc.paymentRepo.GetByPeriodForUpdate(txCtx, tx, key)
	if err != nil {
		return nil, err
	}

	before := domain.MarshalState(payment)

	if payment.EntryID != nil {
		if err := uc.entryRepo.Delete(txCtx, tx, *payment.EntryID); err != nil && !errors.Is(err, domain.ErrEntryNotFound) {
			return nil, err
		}
	}

	payment.Status = domain.StatusPending
	payment.Method = domain.MethodOpen
	payment.Skipped = false
	payment.SkipReason = ""
	payment.EntryID = nil
	payment.PaidAt = nil
	payment.UpdatedAt = now

	if err := uc.paymentRepo.Update(txCtx, tx, payment); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   key.SubscriptionID,
		AggregateType: domain.AggregateTypeSubscription,
		EventType:     domain.EventTypePeriodReverted,
		Payload: map[string]any{
			"subscription_id": key.SubscriptionID,
			"year":            key.Year,
			"month":           key.Month,
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := uc.audit(txCtx, tx, domain.AuditActionPeriodRevert, payment.ID, before, payment, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.PeriodsReverted.Inc()
	}

	return payment, nil
}

func (uc *SubscriptionUseCase) audit(ctx context.Context, tx Transaction, action domain.AuditAction, resourceID string, before domain.JSON, after any, now time.Time) error {
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
		ResourceType: domain.AggregateTypeSubscription,
		ResourceID:   resourceID,
		BeforeState:  before,
		AfterState:   domain.MarshalState(after),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    now,
	})
}
