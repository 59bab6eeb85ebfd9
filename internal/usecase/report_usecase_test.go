package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/contasapp/contas/internal/domain"
	"github.com/contasapp/contas/internal/usecase"
	"github.com/contasapp/contas/internal/usecase/mocks"
)

type reportFixture struct {
	uc          *usecase.ReportUseCase
	entryRepo   *mocks.MockEntryRepository
	subRepo     *mocks.MockSubscriptionRepository
	paymentRepo *mocks.MockSubscriptionPaymentRepository
	cache       *mocks.MockCache
}

func newReportFixture() *reportFixture {
	entryRepo := mocks.NewMockEntryRepository()
	subRepo := mocks.NewMockSubscriptionRepository()
	paymentRepo := mocks.NewMockSubscriptionPaymentRepository()
	cache := mocks.NewMockCache()

	uc := usecase.NewReportUseCase(entryRepo, subRepo, paymentRepo, cache)
	return &reportFixture{uc, entryRepo, subRepo, paymentRepo, cache}
}

func incomeEntry(id string, amount int64, due *time.Time, status domain.EntryStatus) *domain.Entry {
	e := &domain.Entry{
		ID:             id,
		Type:           domain.EntryTypeIncome,
		Description:    "Servico",
		Amount:         decimal.NewFromInt(amount),
		OriginalAmount: decimal.NewFromInt(amount),
		Remaining:      decimal.NewFromInt(amount),
		Status:         status,
		Method:         domain.MethodOpen,
		DueDate:        due,
	}
	if status == domain.StatusPaid {
		e.Remaining = decimal.Zero
		paidAt := time.Now().UTC()
		if due != nil {
			paidAt = *due
		}
		e.PaidAt = &paidAt
		e.Method = domain.MethodPix
	}
	return e
}

func TestReportUseCase_OpenAccounts(t *testing.T) {
	f := newReportFixture()
	today := time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC)

	past := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	future := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	f.entryRepo.Seed(
		incomeEntry("e-overdue", 100, &past, domain.StatusPending),
		incomeEntry("e-later", 200, &future, domain.StatusPending),
		incomeEntry("e-undated", 50, nil, domain.StatusPending),
		incomeEntry("e-paid", 300, &past, domain.StatusPaid),
	)

	items, err := f.uc.OpenAccountsAsOf(context.Background(), today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(items) != 3 {
		t.Fatalf("expected 3 open accounts, got %d", len(items))
	}
	if items[0].Entry.ID != "e-overdue" || items[0].Class != domain.DueOverdue {
		t.Errorf("expected overdue entry first, got %s/%s", items[0].Entry.ID, items[0].Class)
	}
	if items[len(items)-1].Entry.ID != "e-undated" {
		t.Error("expected undated entry last")
	}
	if items[len(items)-1].Class != domain.DueUnscheduled {
		t.Errorf("expected unscheduled class, got %s", items[len(items)-1].Class)
	}
}

func TestReportUseCase_OpenAccounts_ExcludesReferencedEntries(t *testing.T) {
	f := newReportFixture()
	today := time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC)

	due := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	linked := incomeEntry("e-linked", 150, &due, domain.StatusPending)
	f.entryRepo.Seed(linked)

	entryID := "e-linked"
	_ = f.paymentRepo.Create(context.Background(), nil, &domain.SubscriptionPayment{
		ID:             "sp-1",
		SubscriptionID: "sub-1",
		Year:           2026,
		Month:          8,
		Status:         domain.StatusPending,
		EntryID:        &entryID,
	})

	items, err := f.uc.OpenAccountsAsOf(context.Background(), today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, it := range items {
		if it.Entry.ID == "e-linked" {
			t.Error("entry referenced by a subscription payment must not be listed")
		}
	}
}

func TestReportUseCase_OpenAccounts_CurrentMonthSubscription(t *testing.T) {
	f := newReportFixture()
	today := time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC)

	_ = f.subRepo.Create(context.Background(), &domain.Subscription{
		ID:           "sub-1",
		CustomerID:   "cust-1",
		Description:  "Mensalidade",
		MonthlyValue: decimal.NewFromInt(150),
		StartDate:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Active:       true,
		PaymentDay:   10,
	})
	_ = f.subRepo.Create(context.Background(), &domain.Subscription{
		ID:           "sub-skipped",
		CustomerID:   "cust-1",
		Description:  "Pausada",
		MonthlyValue: decimal.NewFromInt(80),
		StartDate:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Active:       true,
	})
	_ = f.paymentRepo.Create(context.Background(), nil, &domain.SubscriptionPayment{
		ID:             "sp-skip",
		SubscriptionID: "sub-skipped",
		Year:           2026,
		Month:          8,
		Skipped:        true,
	})

	items, err := f.uc.OpenAccountsAsOf(context.Background(), today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(items) != 1 {
		t.Fatalf("expected only the active period, got %d items", len(items))
	}
	it := items[0]
	if it.Entry.SubscriptionID == nil || *it.Entry.SubscriptionID != "sub-1" {
		t.Error("expected the current month period of sub-1")
	}
	// Due day has passed within August, but a subscription period only
	// turns overdue in the following month.
	if it.Class == domain.DueOverdue {
		t.Error("subscription period must not be overdue within its own month")
	}
}

func TestReportUseCase_ReceivedByMonth(t *testing.T) {
	f := newReportFixture()

	jan := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	mar1 := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	mar2 := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	f.entryRepo.Seed(
		incomeEntry("p-jan", 100, &jan, domain.StatusPaid),
		incomeEntry("p-mar1", 200, &mar1, domain.StatusPaid),
		incomeEntry("p-mar2", 50, &mar2, domain.StatusPaid),
	)

	totals, err := f.uc.ReceivedByMonth(context.Background(), 2026)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(totals) != 2 {
		t.Fatalf("expected 2 month buckets, got %d", len(totals))
	}
	if totals[0].Month != 3 || !totals[0].Total.Equal(decimal.NewFromInt(250)) || totals[0].Count != 2 {
		t.Errorf("expected March 250 x2 first, got %+v", totals[0])
	}
	if totals[1].Month != 1 || !totals[1].Total.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected January 100 second, got %+v", totals[1])
	}
}

func TestReportUseCase_Forecast(t *testing.T) {
	f := newReportFixture()
	today := time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC)

	sep := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	f.entryRepo.Seed(
		incomeEntry("f-sep-open", 300, &sep, domain.StatusPending),
		incomeEntry("f-sep-paid", 100, &sep, domain.StatusPaid),
	)

	_ = f.subRepo.Create(context.Background(), &domain.Subscription{
		ID:           "sub-1",
		CustomerID:   "cust-1",
		Description:  "Mensalidade",
		MonthlyValue: decimal.NewFromInt(150),
		StartDate:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Active:       true,
	})

	buckets, err := f.uc.ForecastAsOf(context.Background(), today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(buckets) != domain.LookAheadMonths {
		t.Fatalf("expected %d buckets, got %d", domain.LookAheadMonths, len(buckets))
	}
	if buckets[0].Year != 2026 || buckets[0].Month != 8 {
		t.Errorf("expected first bucket 2026-08, got %04d-%02d", buckets[0].Year, buckets[0].Month)
	}

	// August: only the subscription period.
	if !buckets[0].Total.Equal(decimal.NewFromInt(150)) {
		t.Errorf("expected August total 150, got %s", buckets[0].Total)
	}
	// September: open 300 + settled 100 + subscription 150, status-blind.
	if !buckets[1].Total.Equal(decimal.NewFromInt(550)) {
		t.Errorf("expected September total 550, got %s", buckets[1].Total)
	}
	// Later months carry just the subscription.
	if !buckets[5].Total.Equal(decimal.NewFromInt(150)) {
		t.Errorf("expected steady 150, got %s", buckets[5].Total)
	}
}
