package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/contasapp/contas/internal/domain"
	"github.com/contasapp/contas/internal/usecase"
	"github.com/contasapp/contas/internal/usecase/mocks"
)

type subscriptionFixture struct {
	uc          *usecase.SubscriptionUseCase
	subRepo     *mocks.MockSubscriptionRepository
	paymentRepo *mocks.MockSubscriptionPaymentRepository
	entryRepo   *mocks.MockEntryRepository
}

func newSubscriptionFixture() *subscriptionFixture {
	subRepo := mocks.NewMockSubscriptionRepository()
	paymentRepo := mocks.NewMockSubscriptionPaymentRepository()
	entryRepo := mocks.NewMockEntryRepository()
	customerRepo := mocks.NewMockCustomerRepository()

	_ = customerRepo.Create(context.Background(), &domain.Customer{ID: "cust-1", Name: "Bruno Lima"})

	uc := usecase.NewSubscriptionUseCase(
		mocks.NewMockTransactionManager(),
		subRepo,
		paymentRepo,
		entryRepo,
		customerRepo,
		mocks.NewMockOutboxRepository(),
		mocks.NewMockAuditRepository(),
		mocks.NewMockIDGenerator(),
		nil,
	)
	return &subscriptionFixture{uc, subRepo, paymentRepo, entryRepo}
}

func (f *subscriptionFixture) createSubscription(t *testing.T) *domain.Subscription {
	t.Helper()
	sub, err := f.uc.CreateSubscription(context.Background(), usecase.SubscriptionInput{
		CustomerID:   "cust-1",
		Description:  "Contabilidade mensal",
		MonthlyValue: decimal.NewFromInt(350),
		StartDate:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		PaymentDay:   10,
	})
	if err != nil {
		t.Fatalf("create subscription: %v", err)
	}
	return sub
}

func TestSubscriptionUseCase_ListPeriods_Virtual(t *testing.T) {
	f := newSubscriptionFixture()
	sub := f.createSubscription(t)

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	views, err := f.uc.ListPeriods(context.Background(), sub.ID, from, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(views) != 6 {
		t.Fatalf("expected 6 periods, got %d", len(views))
	}
	first := views[0]
	if first.Key.Year != 2026 || first.Key.Month != 3 {
		t.Errorf("expected first period 2026-03, got %04d-%02d", first.Key.Year, first.Key.Month)
	}
	if first.Entry.Status != domain.StatusPending {
		t.Errorf("virtual period must be pending, got %s", first.Entry.Status)
	}
	if first.Entry.DueDate == nil || first.Entry.DueDate.Day() != 10 {
		t.Error("expected due on the payment day")
	}
}

func TestSubscriptionUseCase_PayPeriod(t *testing.T) {
	f := newSubscriptionFixture()
	sub := f.createSubscription(t)

	payment, err := f.uc.PayPeriod(context.Background(), usecase.PayPeriodInput{
		SubscriptionID: sub.ID,
		Year:           2026,
		Month:          3,
		Method:         domain.MethodPix,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if payment.Status != domain.StatusPaid || !payment.Amount.Equal(decimal.NewFromInt(350)) {
		t.Errorf("expected paid 350 record, got %s/%s", payment.Status, payment.Amount)
	}
	if payment.EntryID == nil {
		t.Fatal("expected a linked entry")
	}

	entry, err := f.entryRepo.GetByID(context.Background(), *payment.EntryID)
	if err != nil {
		t.Fatalf("linked entry missing: %v", err)
	}
	if entry.Status != domain.StatusPaid || entry.SubscriptionID == nil {
		t.Error("expected settled subscription-linked entry")
	}

	// Listing now shows the period as paid.
	views, _ := f.uc.ListPeriods(context.Background(), sub.ID, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), 1)
	if views[0].Entry.Status != domain.StatusPaid {
		t.Errorf("expected paid period view, got %s", views[0].Entry.Status)
	}

	// Paying the same period again must fail.
	_, err = f.uc.PayPeriod(context.Background(), usecase.PayPeriodInput{
		SubscriptionID: sub.ID,
		Year:           2026,
		Month:          3,
		Method:         domain.MethodCash,
	})
	if !errors.Is(err, domain.ErrPeriodAlreadyPaid) {
		t.Errorf("expected ErrPeriodAlreadyPaid, got %v", err)
	}
}

func TestSubscriptionUseCase_PayPeriod_AmountOverride(t *testing.T) {
	f := newSubscriptionFixture()
	sub := f.createSubscription(t)

	override := decimal.NewFromInt(200)
	payment, err := f.uc.PayPeriod(context.Background(), usecase.PayPeriodInput{
		SubscriptionID: sub.ID,
		Year:           2026,
		Month:          4,
		Amount:         &override,
		Method:         domain.MethodCard,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !payment.Amount.Equal(override) {
		t.Errorf("expected override 200, got %s", payment.Amount)
	}
}

func TestSubscriptionUseCase_SkipPeriod(t *testing.T) {
	f := newSubscriptionFixture()
	sub := f.createSubscription(t)

	payment, err := f.uc.SkipPeriod(context.Background(), usecase.SkipPeriodInput{
		SubscriptionID: sub.ID,
		Year:           2026,
		Month:          5,
		Reason:         "cliente em ferias",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !payment.Skipped || payment.SkipReason == "" {
		t.Error("expected skipped record with reason")
	}

	// A skipped period cannot be paid.
	_, err = f.uc.PayPeriod(context.Background(), usecase.PayPeriodInput{
		SubscriptionID: sub.ID,
		Year:           2026,
		Month:          5,
		Method:         domain.MethodPix,
	})
	if !errors.Is(err, domain.ErrPeriodSkipped) {
		t.Errorf("expected ErrPeriodSkipped, got %v", err)
	}

	// Skipping a paid period is rejected.
	if _, err := f.uc.PayPeriod(context.Background(), usecase.PayPeriodInput{
		SubscriptionID: sub.ID, Year: 2026, Month: 6, Method: domain.MethodPix,
	}); err != nil {
		t.Fatalf("pay: %v", err)
	}
	_, err = f.uc.SkipPeriod(context.Background(), usecase.SkipPeriodInput{
		SubscriptionID: sub.ID, Year: 2026, Month: 6,
	})
	if !errors.Is(err, domain.ErrPeriodAlreadyPaid) {
		t.Errorf("expected ErrPeriodAlreadyPaid, got %v", err)
	}
}

func TestSubscriptionUseCase_RevertPeriod(t *testing.T) {
	f := newSubscriptionFixture()
	sub := f.createSubscription(t)
	key := domain.PeriodKey{SubscriptionID: sub.ID, Year: 2026, Month: 3}

	paid, err := f.uc.PayPeriod(context.Background(), usecase.PayPeriodInput{
		SubscriptionID: sub.ID, Year: 2026, Month: 3, Method: domain.MethodPix,
	})
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	entryID := *paid.EntryID

	reverted, err := f.uc.RevertPeriod(context.Background(), key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reverted.Status != domain.StatusPending || reverted.EntryID != nil || reverted.PaidAt != nil {
		t.Error("expected pending record with cleared payment details")
	}
	if _, err := f.entryRepo.GetByID(context.Background(), entryID); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Error("expected the materialized entry to be deleted")
	}

	// The period is payable again after the revert.
	if _, err := f.uc.PayPeriod(context.Background(), usecase.PayPeriodInput{
		SubscriptionID: sub.ID, Year: 2026, Month: 3, Method: domain.MethodCash,
	}); err != nil {
		t.Errorf("expected period to be payable again, got %v", err)
	}
}

func TestSubscriptionUseCase_RevertPeriod_UnSkips(t *testing.T) {
	f := newSubscriptionFixture()
	sub := f.createSubscription(t)
	key := domain.PeriodKey{SubscriptionID: sub.ID, Year: 2026, Month: 7}

	if _, err := f.uc.SkipPeriod(context.Background(), usecase.SkipPeriodInput{
		SubscriptionID: sub.ID, Year: 2026, Month: 7, Reason: "pausa",
	}); err != nil {
		t.Fatalf("skip: %v", err)
	}

	reverted, err := f.uc.RevertPeriod(context.Background(), key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reverted.Skipped || reverted.SkipReason != "" {
		t.Error("expected skip state cleared")
	}
}

func TestSubscriptionUseCase_RevertPeriod_NotMaterialized(t *testing.T) {
	f := newSubscriptionFixture()
	sub := f.createSubscription(t)

	_, err := f.uc.RevertPeriod(context.Background(), domain.PeriodKey{SubscriptionID: sub.ID, Year: 2026, Month: 2})
	if !errors.Is(err, domain.ErrPeriodNotFound) {
		t.Errorf("expected ErrPeriodNotFound, got %v", err)
	}
}
