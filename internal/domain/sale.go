package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Installment is one slice of a sale's payment plan. Number is 1-based.
type Installment struct {
	Number  int
	Amount  decimal.Decimal
	DueDate time.Time
	Method  PaymentMethod
}

// Sale is a one-time transaction, possibly split into installments.
// Status is derived from the child entries, never set directly.
type Sale struct {
	ID           string
	CustomerID   string
	Description  string
	Subtotal     decimal.Decimal
	Discount     decimal.Decimal
	Total        decimal.Decimal
	Method       PaymentMethod
	Status       EntryStatus
	DueDate      *time.Time
	Installments []Installment
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate checks commercial consistency of the sale.
func (s *Sale) Validate() error {
	if s.Total.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if !s.Subtotal.Sub(s.Discount).Equal(s.Total) {
		return fmt.Errorf("%w: subtotal %s - discount %s != total %s",
			ErrInvalidAmount, s.Subtotal, s.Discount, s.Total)
	}
	if !s.Method.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidPaymentMethod, s.Method)
	}
	if len(s.Installments) > 0 {
		return ValidateInstallments(s.Installments, s.Total)
	}
	return nil
}

// PlanInstallments splits total into n installments due one month apart,
// the first one in the month of base. Cent remainders go to the last
// installment so the plan always sums to total.
func PlanInstallments(total decimal.Decimal, n int, base time.Time, method PaymentMethod) ([]Installment, error) {
	if n < 1 {
		return nil, ErrInvalidInstallments
	}
	if total.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	per := total.Div(decimal.NewFromInt(int64(n))).RoundBank(2)
	plan := make([]Installment, n)
	running := decimal.Zero

	for i := range n {
		amount := per
		if i == n-1 {
			amount = total.Sub(running)
		}
		plan[i] = Installment{
			Number:  i + 1,
			Amount:  amount,
			DueDate: base.AddDate(0, i, 0),
			Method:  method,
		}
		running = running.Add(amount)
	}

	return plan, nil
}

// RedistributeFromFirst sets the first installment to first and splits the
// remainder evenly across the others (first-installment-drives-the-split).
func RedistributeFromFirst(plan []Installment, first, total decimal.Decimal) error {
	if len(plan) < 2 {
		return ErrInvalidInstallments
	}
	if first.LessThanOrEqual(decimal.Zero) || first.GreaterThanOrEqual(total) {
		return ErrInvalidAmount
	}

	rest := total.Sub(first)
	n := len(plan) - 1
	per := rest.Div(decimal.NewFromInt(int64(n))).RoundBank(2)

	plan[0].Amount = first
	running := first
	for i := 1; i < len(plan); i++ {
		amount := per
		if i == len(plan)-1 {
			amount = total.Sub(running)
		}
		plan[i].Amount = amount
		running = running.Add(amount)
	}

	return nil
}

// ValidateInstallments checks that the plan is ordered, positive and sums
// to total.
func ValidateInstallments(plan []Installment, total decimal.Decimal) error {
	sum := decimal.Zero
	for i, inst := range plan {
		if inst.Number != i+1 {
			return fmt.Errorf("%w: installment %d numbered %d", ErrInvalidInstallments, i+1, inst.Number)
		}
		if inst.Amount.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: installment %d has non-positive amount", ErrInvalidInstallments, inst.Number)
		}
		if !inst.Method.IsValid() {
			return fmt.Errorf("%w: %s", ErrInvalidPaymentMethod, inst.Method)
		}
		sum = sum.Add(inst.Amount)
	}
	if !sum.Equal(total) {
		return fmt.Errorf("%w: installments sum %s != total %s", ErrInvalidInstallments, sum, total)
	}
	return nil
}

// GenerateEntries derives the financial entries for the sale from its
// current state. IDs are assigned by the caller.
//
// Regeneration is full-replace: callers delete every prior entry of the
// sale before persisting the result.
func (s *Sale) GenerateEntries(now time.Time) []*Entry {
	if len(s.Installments) == 0 {
		e := newSaleEntry(s, s.Total, s.Method, s.DueDate, 0, 0, now)
		return []*Entry{e}
	}

	entries := make([]*Entry, 0, len(s.Installments))
	for _, inst := range s.Installments {
		due := inst.DueDate
		e := newSaleEntry(s, inst.Amount, inst.Method, &due, inst.Number, len(s.Installments), now)
		e.Description = fmt.Sprintf("%s (%d/%d)", s.Description, inst.Number, len(s.Installments))
		entries = append(entries, e)
	}
	return entries
}

func newSaleEntry(s *Sale, amount decimal.Decimal, method PaymentMethod, due *time.Time, number, count int, now time.Time) *Entry {
	e := &Entry{
		Type:           EntryTypeIncome,
		Description:    s.Description,
		Amount:         amount,
		OriginalAmount: amount,
		Remaining:      amount,
		Status:         StatusPending,
		Method:         method,
		DueDate:        due,
		CustomerID:     &s.CustomerID,
		SaleID:         &s.ID,
		Installment:    number,
		Installments:   count,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if method.Immediate() {
		e.MarkPaid(method, now)
	}
	return e
}

// DeriveSaleStatus recomputes the aggregate payment status of a sale from
// its child entries: paid when all are paid, partial when any payment has
// landed, pending otherwise.
func DeriveSaleStatus(entries []*Entry) EntryStatus {
	if len(entries) == 0 {
		return StatusPending
	}

	allPaid := true
	anyPayment := false
	for _, e := range entries {
		switch e.Status {
		case StatusPaid:
			anyPayment = true
		case StatusPartial:
			anyPayment = true
			allPaid = false
		default:
			allPaid = false
		}
	}

	switch {
	case allPaid:
		return StatusPaid
	case anyPayment:
		return StatusPartial
	default:
		return StatusPending
	}
}
