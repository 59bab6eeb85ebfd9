package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EntryType is the direction of a financial entry.
type EntryType string

const (
	EntryTypeIncome  EntryType = "income"
	EntryTypeExpense EntryType = "expense"
)

// IsValid reports whether the entry type is known.
func (t EntryType) IsValid() bool {
	return t == EntryTypeIncome || t == EntryTypeExpense
}

// EntryStatus is the payment status of an entry (and, derived, of a sale).
type EntryStatus string

const (
	StatusPending EntryStatus = "pending"
	StatusPartial EntryStatus = "partial"
	StatusPaid    EntryStatus = "paid"
)

// IsValid reports whether the status is known.
func (s EntryStatus) IsValid() bool {
	return s == StatusPending || s == StatusPartial || s == StatusPaid
}

// PaymentMethod identifies how an entry is settled. MethodOpen means the
// entry is still awaiting payment.
type PaymentMethod string

const (
	MethodOpen     PaymentMethod = "open"
	MethodPix      PaymentMethod = "pix"
	MethodCash     PaymentMethod = "cash"
	MethodCard     PaymentMethod = "card"
	MethodTransfer PaymentMethod = "transfer"
)

// IsValid reports whether the payment method is known.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodOpen, MethodPix, MethodCash, MethodCard, MethodTransfer:
		return true
	}
	return false
}

// Immediate reports whether the method settles at the moment of sale,
// as opposed to MethodOpen which leaves a balance to collect.
func (m PaymentMethod) Immediate() bool {
	return m != MethodOpen
}

// partialMarker tags entries created by a partial payment so that a later
// reversal can find the sibling open entry and fold the amount back.
const partialMarker = "(parcial)"

// Entry represents one expected or realized cash movement.
//
// Amount is the current open balance base: a partial payment shrinks it
// together with Remaining. OriginalAmount keeps the contracted value and
// never changes after creation.
type Entry struct {
	ID             string
	Type           EntryType
	Description    string
	Amount         decimal.Decimal
	OriginalAmount decimal.Decimal
	Remaining      decimal.Decimal
	Status         EntryStatus
	Method         PaymentMethod
	DueDate        *time.Time
	PaidAt         *time.Time
	CustomerID     *string
	SaleID         *string
	SubscriptionID *string
	Installment    int
	Installments   int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate checks structural validity of the entry.
func (e *Entry) Validate() error {
	if !e.Type.IsValid() {
		return ErrInvalidEntryType
	}
	if !e.Status.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, e.Status)
	}
	if !e.Method.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidPaymentMethod, e.Method)
	}
	if e.OriginalAmount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	return e.CheckInvariants()
}

// CheckInvariants verifies the balance invariants:
// 0 <= remaining <= amount <= original amount, and status consistency.
func (e *Entry) CheckInvariants() error {
	if e.Remaining.IsNegative() {
		return fmt.Errorf("%w: remaining %s is negative", ErrInvariantViolated, e.Remaining)
	}
	if e.Remaining.GreaterThan(e.Amount) {
		return fmt.Errorf("%w: remaining %s exceeds amount %s", ErrInvariantViolated, e.Remaining, e.Amount)
	}
	if e.Amount.GreaterThan(e.OriginalAmount) {
		return fmt.Errorf("%w: amount %s exceeds original %s", ErrInvariantViolated, e.Amount, e.OriginalAmount)
	}
	if (e.Status == StatusPaid) != e.Remaining.IsZero() {
		return fmt.Errorf("%w: status %s with remaining %s", ErrInvariantViolated, e.Status, e.Remaining)
	}
	return nil
}

// MarkPaid settles the entry in full. Paying an already-paid entry is a
// no-op on the balance; it only refreshes the method and timestamp.
func (e *Entry) MarkPaid(method PaymentMethod, now time.Time) {
	e.Remaining = decimal.Zero
	e.Status = StatusPaid
	e.Method = method
	e.PaidAt = &now
	e.UpdatedAt = now
}

// ApplyPartialPayment reduces the open balance by amount. The caller must
// have checked that amount < Remaining; paying the remainder or more is a
// full payment, not a partial one.
func (e *Entry) ApplyPartialPayment(amount decimal.Decimal, now time.Time) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if amount.GreaterThanOrEqual(e.Remaining) {
		return ErrAmountExceedsBalance
	}

	e.Amount = e.Amount.Sub(amount)
	e.Remaining = e.Remaining.Sub(amount)
	e.Status = StatusPartial
	e.UpdatedAt = now

	return e.CheckInvariants()
}

// NewPartialMarker builds the paid entry that records a partial payment
// against e. The caller assigns the ID.
func NewPartialMarker(e *Entry, amount decimal.Decimal, method PaymentMethod, now time.Time) *Entry {
	return &Entry{
		Type:           e.Type,
		Description:    e.Description + " " + partialMarker,
		Amount:         amount,
		OriginalAmount: amount,
		Remaining:      decimal.Zero,
		Status:         StatusPaid,
		Method:         method,
		DueDate:        e.DueDate,
		PaidAt:         &now,
		CustomerID:     e.CustomerID,
		SaleID:         e.SaleID,
		Installment:    e.Installment,
		Installments:   e.Installments,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// IsPartialMarker reports whether this entry was created by a partial
// payment.
func (e *Entry) IsPartialMarker() bool {
	return strings.Contains(e.Description, partialMarker)
}

// Revert returns a paid entry to its open state, restoring the full
// current balance.
func (e *Entry) Revert(now time.Time) error {
	if e.Status != StatusPaid {
		return ErrEntryNotPaid
	}

	e.Status = StatusPending
	e.Method = MethodOpen
	e.PaidAt = nil
	e.Remaining = e.Amount
	e.UpdatedAt = now

	return nil
}

// ConvertMarkerToOpen turns a reversed partial marker into a standalone
// open entry for the full reversed amount. Used when the sibling open
// entry was fully consumed and there is nothing to merge back into.
func (e *Entry) ConvertMarkerToOpen(now time.Time) error {
	if err := e.Revert(now); err != nil {
		return err
	}
	e.Description = strings.TrimSuffix(e.Description, " "+partialMarker)
	return nil
}

// AbsorbReversal folds the amount of a reversed partial marker back into
// this open sibling entry.
func (e *Entry) AbsorbReversal(amount decimal.Decimal, now time.Time) error {
	if e.Status == StatusPaid {
		return ErrEntryNotOpen
	}

	e.Amount = e.Amount.Add(amount)
	e.Remaining = e.Remaining.Add(amount)
	if e.Amount.Equal(e.OriginalAmount) {
		e.Status = StatusPending
	} else {
		e.Status = StatusPartial
	}
	e.UpdatedAt = now

	return e.CheckInvariants()
}

// DueClass classifies an entry relative to its due date.
type DueClass string

const (
	DueOverdue     DueClass = "overdue"
	DueToday       DueClass = "due_today"
	DueSoon        DueClass = "due_soon"
	DueLater       DueClass = "due_later"
	DueUnscheduled DueClass = "unscheduled"
)

// dueSoonWindow is the number of days ahead still reported as "due soon".
const dueSoonWindow = 3

// ClassifyDue classifies the entry against today (dates compared at day
// granularity).
//
// Subscription-derived entries only turn overdue once the calendar rolls
// into a month after the period month; within the period month a missed
// nominal day is still just "due today".
func (e *Entry) ClassifyDue(today time.Time) DueClass {
	if e.DueDate == nil {
		return DueUnscheduled
	}

	due := dateOnly(*e.DueDate)
	today = dateOnly(today)

	if e.SubscriptionID != nil {
		switch {
		case today.Year() > due.Year() || (today.Year() == due.Year() && today.Month() > due.Month()):
			return DueOverdue
		case today.Before(due):
			return classifyAhead(today, due)
		default:
			return DueToday
		}
	}

	switch {
	case due.Before(today):
		return DueOverdue
	case due.Equal(today):
		return DueToday
	default:
		return classifyAhead(today, due)
	}
}

func classifyAhead(today, due time.Time) DueClass {
	if !due.After(today.AddDate(0, 0, dueSoonWindow)) {
		return DueSoon
	}
	return DueLater
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
