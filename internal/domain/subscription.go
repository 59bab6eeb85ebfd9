package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Subscription is a recurring monthly obligation source. It does not own
// entries: period entries are derived on demand and only materialized into
// a SubscriptionPayment record by a pay or skip event.
type Subscription struct {
	ID           string
	CustomerID   string
	Description  string
	MonthlyValue decimal.Decimal
	StartDate    time.Time
	EndDate      *time.Time
	Active       bool
	PaymentDay   int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LookAheadMonths is the derivation window for open-ended subscriptions.
const LookAheadMonths = 12

// Validate checks structural validity of the subscription.
func (s *Subscription) Validate() error {
	if s.MonthlyValue.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if s.EndDate != nil && s.EndDate.Before(s.StartDate) {
		return fmt.Errorf("%w: end date before start date", ErrInvalidPeriod)
	}
	if s.PaymentDay < 0 || s.PaymentDay > 31 {
		return fmt.Errorf("%w: payment day %d", ErrInvalidPeriod, s.PaymentDay)
	}
	return nil
}

// ActiveIn reports whether the subscription covers the given calendar
// month.
func (s *Subscription) ActiveIn(year int, month time.Month) bool {
	if !s.Active {
		return false
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	if last.Before(dateOnly(s.StartDate.UTC())) {
		return false
	}
	if s.EndDate != nil && first.After(dateOnly(s.EndDate.UTC())) {
		return false
	}
	return true
}

// Periods lists the calendar months covered by the subscription starting
// at from, bounded by the end date or the look-ahead window.
func (s *Subscription) Periods(from time.Time, months int) []PeriodKey {
	if months <= 0 {
		months = LookAheadMonths
	}

	var keys []PeriodKey
	cursor := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	for range months {
		if s.ActiveIn(cursor.Year(), cursor.Month()) {
			keys = append(keys, PeriodKey{
				SubscriptionID: s.ID,
				Year:           cursor.Year(),
				Month:          int(cursor.Month()),
			})
		}
		cursor = cursor.AddDate(0, 1, 0)
	}
	return keys
}

// PeriodDueDate is the default due date of a period: the subscription's
// payment day when set, otherwise the last business day of the month.
func (s *Subscription) PeriodDueDate(year int, month time.Month) time.Time {
	if s.PaymentDay > 0 {
		last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
		day := min(s.PaymentDay, last.Day())
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	}
	return LastBusinessDay(year, month)
}

// PeriodEntry derives the financial entry for one calendar month. This is
// the single derivation point used by every query site: open accounts, the
// receivables forecast and the period listing all call it.
//
// payment, when non-nil, is the materialized record for the period and
// overrides amount and status.
func (s *Subscription) PeriodEntry(year int, month time.Month, payment *SubscriptionPayment) *Entry {
	due := s.PeriodDueDate(year, month)
	amount := s.MonthlyValue
	status := StatusPending
	method := MethodOpen
	var paidAt *time.Time

	if payment != nil {
		if payment.Amount.IsPositive() {
			amount = payment.Amount
		}
		if payment.Status == StatusPaid {
			status = StatusPaid
			method = payment.Method
			paidAt = payment.PaidAt
		}
	}

	remaining := amount
	if status == StatusPaid {
		remaining = decimal.Zero
	}

	return &Entry{
		Type:           EntryTypeIncome,
		Description:    fmt.Sprintf("%s (%02d/%d)", s.Description, int(month), year),
		Amount:         amount,
		OriginalAmount: amount,
		Remaining:      remaining,
		Status:         status,
		Method:         method,
		DueDate:        &due,
		PaidAt:         paidAt,
		CustomerID:     &s.CustomerID,
		SubscriptionID: &s.ID,
	}
}

// LastBusinessDay returns the last weekday (Mon-Fri) of the month.
func LastBusinessDay(year int, month time.Month) time.Time {
	d := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// PeriodKey identifies one calendar month of a subscription.
type PeriodKey struct {
	SubscriptionID string
	Year           int
	Month          int
}

// Validate checks the period key.
func (k PeriodKey) Validate() error {
	if k.Month < 1 || k.Month > 12 {
		return fmt.Errorf("%w: month %d", ErrInvalidPeriod, k.Month)
	}
	if k.Year < 2000 || k.Year > 2200 {
		return fmt.Errorf("%w: year %d", ErrInvalidPeriod, k.Year)
	}
	return nil
}

// SubscriptionPayment materializes one period of a subscription. It exists
// only after the first state-changing event (pay or skip); until then the
// period is virtual and treated as pending.
type SubscriptionPayment struct {
	ID             string
	SubscriptionID string
	Month          int
	Year           int
	Amount         decimal.Decimal
	Status         EntryStatus
	Method         PaymentMethod
	Skipped        bool
	SkipReason     string
	EntryID        *string
	PaidAt         *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Key returns the period key of the payment record.
func (p *SubscriptionPayment) Key() PeriodKey {
	return PeriodKey{SubscriptionID: p.SubscriptionID, Year: p.Year, Month: p.Month}
}
