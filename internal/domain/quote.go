package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuoteStatus is the lifecycle state of a quote.
type QuoteStatus string

const (
	QuoteStatusOpen      QuoteStatus = "open"
	QuoteStatusConverted QuoteStatus = "converted"
	QuoteStatusRejected  QuoteStatus = "rejected"
)

// Quote holds the same commercial fields as a sale and can be converted
// into one exactly once.
type Quote struct {
	ID           string
	CustomerID   string
	Description  string
	Subtotal     decimal.Decimal
	Discount     decimal.Decimal
	Total        decimal.Decimal
	Method       PaymentMethod
	Installments []Installment
	Status       QuoteStatus
	SaleID       *string
	ValidUntil   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate checks commercial consistency of the quote.
func (q *Quote) Validate() error {
	s := Sale{
		Subtotal:     q.Subtotal,
		Discount:     q.Discount,
		Total:        q.Total,
		Method:       q.Method,
		Installments: q.Installments,
	}
	return s.Validate()
}

// ToSale builds the sale a quote converts into. The caller assigns the ID
// and persists both sides in one transaction.
func (q *Quote) ToSale(now time.Time) *Sale {
	installments := make([]Installment, len(q.Installments))
	copy(installments, q.Installments)

	return &Sale{
		CustomerID:   q.CustomerID,
		Description:  q.Description,
		Subtotal:     q.Subtotal,
		Discount:     q.Discount,
		Total:        q.Total,
		Method:       q.Method,
		Status:       StatusPending,
		Installments: installments,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
