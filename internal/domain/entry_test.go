package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func openEntry(amount string) *Entry {
	a := decimal.RequireFromString(amount)
	return &Entry{
		ID:             "ent-1",
		Type:           EntryTypeIncome,
		Description:    "Website maintenance",
		Amount:         a,
		OriginalAmount: a,
		Remaining:      a,
		Status:         StatusPending,
		Method:         MethodOpen,
	}
}

func TestEntry_MarkPaid(t *testing.T) {
	now := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)

	e := openEntry("500.00")
	e.MarkPaid(MethodPix, now)

	if !e.Remaining.IsZero() {
		t.Errorf("expected remaining 0, got %s", e.Remaining)
	}
	if e.Status != StatusPaid {
		t.Errorf("expected status paid, got %s", e.Status)
	}
	if e.PaidAt == nil || !e.PaidAt.Equal(now) {
		t.Error("expected paid_at set to now")
	}
	if err := e.CheckInvariants(); err != nil {
		t.Errorf("invariants violated: %v", err)
	}

	// Paying an already-paid entry must not disturb the balance.
	later := now.Add(time.Hour)
	e.MarkPaid(MethodCash, later)

	if !e.Remaining.IsZero() {
		t.Errorf("expected remaining to stay 0, got %s", e.Remaining)
	}
	if !e.Amount.Equal(decimal.RequireFromString("500.00")) {
		t.Errorf("expected amount unchanged, got %s", e.Amount)
	}
	if err := e.CheckInvariants(); err != nil {
		t.Errorf("invariants violated after repeat payment: %v", err)
	}
}

func TestEntry_ApplyPartialPayment(t *testing.T) {
	now := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)

	t.Run("500 minus 200 leaves 300 partial", func(t *testing.T) {
		e := openEntry("500.00")

		if err := e.ApplyPartialPayment(decimal.RequireFromString("200.00"), now); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !e.Remaining.Equal(decimal.RequireFromString("300.00")) {
			t.Errorf("expected remaining 300.00, got %s", e.Remaining)
		}
		if !e.Amount.Equal(decimal.RequireFromString("300.00")) {
			t.Errorf("expected amount 300.00, got %s", e.Amount)
		}
		if !e.OriginalAmount.Equal(decimal.RequireFromString("500.00")) {
			t.Errorf("expected original amount untouched, got %s", e.OriginalAmount)
		}
		if e.Status != StatusPartial {
			t.Errorf("expected status partial, got %s", e.Status)
		}
	})

	t.Run("amount equal to remaining is rejected", func(t *testing.T) {
		e := openEntry("500.00")
		err := e.ApplyPartialPayment(decimal.RequireFromString("500.00"), now)
		if err != ErrAmountExceedsBalance {
			t.Errorf("expected ErrAmountExceedsBalance, got %v", err)
		}
	})

	t.Run("non-positive amount is rejected", func(t *testing.T) {
		e := openEntry("500.00")
		err := e.ApplyPartialPayment(decimal.Zero, now)
		if err != ErrInvalidAmount {
			t.Errorf("expected ErrInvalidAmount, got %v", err)
		}
	})
}

func TestEntry_RevertRoundTrip(t *testing.T) {
	now := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)

	e := openEntry("250.00")
	e.MarkPaid(MethodCard, now)

	if err := e.Revert(now.Add(time.Minute)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if e.Status != StatusPending {
		t.Errorf("expected status pending, got %s", e.Status)
	}
	if e.Method != MethodOpen {
		t.Errorf("expected method open, got %s", e.Method)
	}
	if e.PaidAt != nil {
		t.Error("expected paid_at cleared")
	}
	if !e.Remaining.Equal(e.OriginalAmount) {
		t.Errorf("expected remaining restored to %s, got %s", e.OriginalAmount, e.Remaining)
	}
}

func TestEntry_RevertUnpaid(t *testing.T) {
	e := openEntry("250.00")
	if err := e.Revert(time.Now()); err != ErrEntryNotPaid {
		t.Errorf("expected ErrEntryNotPaid, got %v", err)
	}
}

func TestPartialMarkerRoundTrip(t *testing.T) {
	now := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	paid := decimal.RequireFromString("200.00")

	e := openEntry("500.00")
	if err := e.ApplyPartialPayment(paid, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	marker := NewPartialMarker(e, paid, MethodPix, now)
	if !marker.IsPartialMarker() {
		t.Error("expected marker to be detected as partial marker")
	}
	if marker.Status != StatusPaid || !marker.Remaining.IsZero() {
		t.Error("expected marker to be a settled entry")
	}
	if marker.SaleID != e.SaleID {
		t.Error("expected marker to share the sale link")
	}

	// Reversing the marker folds its amount back into the sibling.
	if err := e.AbsorbReversal(marker.Amount, now.Add(time.Minute)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !e.Remaining.Equal(decimal.RequireFromString("500.00")) {
		t.Errorf("expected remaining restored to 500.00, got %s", e.Remaining)
	}
	if e.Status != StatusPending {
		t.Errorf("expected status pending, got %s", e.Status)
	}
}

func TestEntry_ClassifyDue(t *testing.T) {
	today := time.Date(2026, 8, 14, 10, 30, 0, 0, time.UTC)
	day := func(y int, m time.Month, d int) *time.Time {
		t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &t
	}
	subID := "sub-1"

	tests := []struct {
		name           string
		due            *time.Time
		subscriptionID *string
		want           DueClass
	}{
		{"no due date", nil, nil, DueUnscheduled},
		{"yesterday", day(2026, 8, 13), nil, DueOverdue},
		{"today", day(2026, 8, 14), nil, DueToday},
		{"in three days", day(2026, 8, 17), nil, DueSoon},
		{"in four days", day(2026, 8, 18), nil, DueLater},
		{"next month", day(2026, 9, 14), nil, DueLater},
		{"subscription, nominal day passed this month", day(2026, 8, 5), &subID, DueToday},
		{"subscription, previous month", day(2026, 7, 31), &subID, DueOverdue},
		{"subscription, due ahead in month", day(2026, 8, 16), &subID, DueSoon},
		{"subscription, later this month", day(2026, 8, 31), &subID, DueLater},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := openEntry("100.00")
			e.DueDate = tt.due
			e.SubscriptionID = tt.subscriptionID

			if got := e.ClassifyDue(today); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestEntry_CheckInvariants(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Entry)
		expectError bool
	}{
		{"fresh open entry", func(e *Entry) {}, false},
		{"negative remaining", func(e *Entry) { e.Remaining = decimal.NewFromInt(-1) }, true},
		{"remaining above amount", func(e *Entry) { e.Remaining = e.Amount.Add(decimal.NewFromInt(1)) }, true},
		{"amount above original", func(e *Entry) { e.Amount = e.OriginalAmount.Add(decimal.NewFromInt(1)) }, true},
		{"paid with remaining", func(e *Entry) { e.Status = StatusPaid }, true},
		{"pending with zero remaining", func(e *Entry) { e.Remaining = decimal.Zero }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := openEntry("100.00")
			tt.mutate(e)

			err := e.CheckInvariants()
			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
