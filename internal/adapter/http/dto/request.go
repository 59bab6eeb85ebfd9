package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/contasapp/contas/internal/domain"
	"github.com/contasapp/contas/internal/usecase"
)

// CustomerRequest represents a request to create or update a customer.
type CustomerRequest struct {
	Name     string `json:"name"`
	Document string `json:"document,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CustomerRequest) ToUseCaseInput() usecase.CustomerInput {
	return usecase.CustomerInput{
		Name:     r.Name,
		Document: r.Document,
		Email:    r.Email,
		Phone:    r.Phone,
		Address:  r.Address,
		City:     r.City,
		State:    r.State,
		Notes:    r.Notes,
	}
}

// SaleRequest represents a request to create or update a sale.
type SaleRequest struct {
	CustomerID  string               `json:"customer_id"`
	Description string               `json:"description"`
	Subtotal    decimal.Decimal      `json:"subtotal"`
	Discount    decimal.Decimal      `json:"discount"`
	Total       decimal.Decimal      `json:"total"`
	Method      domain.PaymentMethod `json:"method"`
	DueDate     *time.Time           `json:"due_date,omitempty"`
	Count       int                  `json:"installments,omitempty"`
	FirstAmount *decimal.Decimal     `json:"first_amount,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *SaleRequest) ToUseCaseInput() usecase.SaleInput {
	return usecase.SaleInput{
		CustomerID:  r.CustomerID,
		Description: r.Description,
		Subtotal:    r.Subtotal,
		Discount:    r.Discount,
		Total:       r.Total,
		Method:      r.Method,
		DueDate:     r.DueDate,
		Count:       r.Count,
		FirstAmount: r.FirstAmount,
	}
}

// QuoteRequest represents a request to create or update a quote.
type QuoteRequest struct {
	CustomerID   string               `json:"customer_id"`
	Description  string               `json:"description"`
	Subtotal     decimal.Decimal      `json:"subtotal"`
	Discount     decimal.Decimal      `json:"discount"`
	Total        decimal.Decimal      `json:"total"`
	Method       domain.PaymentMethod `json:"method"`
	Installments []InstallmentItem    `json:"installments,omitempty"`
	ValidUntil   *time.Time           `json:"valid_until,omitempty"`
}

// InstallmentItem represents a single planned installment.
type InstallmentItem struct {
	Number  int                  `json:"number"`
	Amount  decimal.Decimal      `json:"amount"`
	DueDate time.Time            `json:"due_date"`
	Method  domain.PaymentMethod `json:"method"`
}

// ToUseCaseInput converts to use case input.
func (r *QuoteRequest) ToUseCaseInput() usecase.QuoteInput {
	installments := make([]domain.Installment, len(r.Installments))
	for i, item := range r.Installments {
		installments[i] = domain.Installment{
			Number:  item.Number,
			Amount:  item.Amount,
			DueDate: item.DueDate,
			Method:  item.Method,
		}
	}
	return usecase.QuoteInput{
		CustomerID:   r.CustomerID,
		Description:  r.Description,
		Subtotal:     r.Subtotal,
		Discount:     r.Discount,
		Total:        r.Total,
		Method:       r.Method,
		Installments: installments,
		ValidUntil:   r.ValidUntil,
	}
}

// EntryRequest represents a request to record a manual entry.
type EntryRequest struct {
	Type        domain.EntryType     `json:"type"`
	Description string               `json:"description"`
	Amount      decimal.Decimal      `json:"amount"`
	Method      domain.PaymentMethod `json:"method"`
	DueDate     *time.Time           `json:"due_date,omitempty"`
	CustomerID  *string              `json:"customer_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *EntryRequest) ToUseCaseInput() usecase.EntryInput {
	return usecase.EntryInput{
		Type:        r.Type,
		Description: r.Description,
		Amount:      r.Amount,
		Method:      r.Method,
		DueDate:     r.DueDate,
		CustomerID:  r.CustomerID,
	}
}

// PayRequest represents a request to settle an entry in full.
type PayRequest struct {
	Method domain.PaymentMethod `json:"method"`
}

// PayPartialRequest represents a request for a partial payment.
type PayPartialRequest struct {
	Amount decimal.Decimal      `json:"amount"`
	Method domain.PaymentMethod `json:"method"`
}

// SubscriptionRequest represents a request to create or update a subscription.
type SubscriptionRequest struct {
	CustomerID   string          `json:"customer_id"`
	Description  string          `json:"description"`
	MonthlyValue decimal.Decimal `json:"monthly_value"`
	StartDate    time.Time       `json:"start_date"`
	EndDate      *time.Time      `json:"end_date,omitempty"`
	PaymentDay   int             `json:"payment_day,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *SubscriptionRequest) ToUseCaseInput() usecase.SubscriptionInput {
	return usecase.SubscriptionInput{
		CustomerID:   r.CustomerID,
		Description:  r.Description,
		MonthlyValue: r.MonthlyValue,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		PaymentDay:   r.PaymentDay,
	}
}

// PayPeriodRequest represents a request to pay a subscription period.
type PayPeriodRequest struct {
	Amount *decimal.Decimal     `json:"amount,omitempty"`
	Method domain.PaymentMethod `json:"method"`
}

// SkipPeriodRequest represents a request to skip a subscription period.
type SkipPeriodRequest struct {
	Reason string `json:"reason,omitempty"`
}

// CreateUserRequest represents a request to create a user.
type CreateUserRequest struct {
	Email    string      `json:"email"`
	Name     string      `json:"name"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateUserRequest) ToUseCaseInput() usecase.CreateUserInput {
	return usecase.CreateUserInput{
		Email:    r.Email,
		Name:     r.Name,
		Password: r.Password,
		Role:     r.Role,
	}
}

// UpdateUserRequest represents a request to update a user.
type UpdateUserRequest struct {
	Name     *string      `json:"name,omitempty"`
	Role     *domain.Role `json:"role,omitempty"`
	Active   *bool        `json:"active,omitempty"`
	Password *string      `json:"password,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateUserRequest) ToUseCaseInput(id string) usecase.UpdateUserInput {
	return usecase.UpdateUserInput{
		ID:       id,
		Name:     r.Name,
		Role:     r.Role,
		Active:   r.Active,
		Password: r.Password,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
