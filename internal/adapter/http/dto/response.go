package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/contasapp/contas/internal/domain"
	"github.com/contasapp/contas/internal/usecase"
)

// ErrorResponse is the wire shape of every error the API returns.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// CustomerResponse is the wire shape of a customer.
type CustomerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Document  string    `json:"document,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	City      string    `json:"city,omitempty"`
	State     string    `json:"state,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CustomerFromDomain converts a domain customer to its wire shape.
func CustomerFromDomain(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Document:  c.Document,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		City:      c.City,
		State:     c.State,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// CustomersFromDomain converts a slice of domain customers.
func CustomersFromDomain(customers []*domain.Customer) []CustomerResponse {
	out := make([]CustomerResponse, len(customers))
	for i, c := range customers {
		out[i] = CustomerFromDomain(c)
	}
	return out
}

// EntryResponse is the wire shape of a financial entry.
type EntryResponse struct {
	ID             string               `json:"id"`
	Type           domain.EntryType     `json:"type"`
	Description    string               `json:"description"`
	Amount         decimal.Decimal      `json:"amount"`
	OriginalAmount decimal.Decimal      `json:"original_amount"`
	Remaining      decimal.Decimal      `json:"remaining"`
	Status         domain.EntryStatus   `json:"status"`
	Method         domain.PaymentMethod `json:"method"`
	DueDate        *time.Time           `json:"due_date,omitempty"`
	PaidAt         *time.Time           `json:"paid_at,omitempty"`
	CustomerID     *string              `json:"customer_id,omitempty"`
	SaleID         *string              `json:"sale_id,omitempty"`
	SubscriptionID *string              `json:"subscription_id,omitempty"`
	Installment    int                  `json:"installment,omitempty"`
	Installments   int                  `json:"installments,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// EntryFromDomain converts a domain entry to its wire shape.
func EntryFromDomain(e *domain.Entry) EntryResponse {
	return EntryResponse{
		ID:             e.ID,
		Type:           e.Type,
		Description:    e.Description,
		Amount:         e.Amount,
		OriginalAmount: e.OriginalAmount,
		Remaining:      e.Remaining,
		Status:         e.Status,
		Method:         e.Method,
		DueDate:        e.DueDate,
		PaidAt:         e.PaidAt,
		CustomerID:     e.CustomerID,
		SaleID:         e.SaleID,
		SubscriptionID: e.SubscriptionID,
		Installment:    e.Installment,
		Installments:   e.Installments,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

// EntriesFromDomain converts a slice of domain entries.
func EntriesFromDomain(entries []*domain.Entry) []EntryResponse {
	out := make([]EntryResponse, len(entries))
	for i, e := range entries {
		out[i] = EntryFromDomain(e)
	}
	return out
}

// PaymentResponse carries the paid entry plus the remainder marker
// created by a partial payment, when one exists.
type PaymentResponse struct {
	Entry  EntryResponse  `json:"entry"`
	Marker *EntryResponse `json:"marker,omitempty"`
}

// PaymentFromDomain converts a payment result to its wire shape.
func PaymentFromDomain(entry, marker *domain.Entry) PaymentResponse {
	resp := PaymentResponse{Entry: EntryFromDomain(entry)}
	if marker != nil {
		m := EntryFromDomain(marker)
		resp.Marker = &m
	}
	return resp
}

// SaleResponse is the wire shape of a sale.
type SaleResponse struct {
	ID           string               `json:"id"`
	CustomerID   string               `json:"customer_id"`
	Description  string               `json:"description"`
	Subtotal     decimal.Decimal      `json:"subtotal"`
	Discount     decimal.Decimal      `json:"discount"`
	Total        decimal.Decimal      `json:"total"`
	Method       domain.PaymentMethod `json:"method"`
	Status       domain.EntryStatus   `json:"status"`
	DueDate      *time.Time           `json:"due_date,omitempty"`
	Installments []InstallmentItem    `json:"installments,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// SaleFromDomain converts a domain sale to its wire shape.
func SaleFromDomain(s *domain.Sale) SaleResponse {
	return SaleResponse{
		ID:           s.ID,
		CustomerID:   s.CustomerID,
		Description:  s.Description,
		Subtotal:     s.Subtotal,
		Discount:     s.Discount,
		Total:        s.Total,
		Method:       s.Method,
		Status:       s.Status,
		DueDate:      s.DueDate,
		Installments: installmentsFromDomain(s.Installments),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// SalesFromDomain converts a slice of domain sales.
func SalesFromDomain(sales []*domain.Sale) []SaleResponse {
	out := make([]SaleResponse, len(sales))
	for i, s := range sales {
		out[i] = SaleFromDomain(s)
	}
	return out
}

// SaleDetailResponse is a sale together with its child entries.
type SaleDetailResponse struct {
	Sale    SaleResponse    `json:"sale"`
	Entries []EntryResponse `json:"entries"`
}

func installmentsFromDomain(installments []domain.Installment) []InstallmentItem {
	if len(installments) == 0 {
		return nil
	}
	out := make([]InstallmentItem, len(installments))
	for i, inst := range installments {
		out[i] = InstallmentItem{
			Number:  inst.Number,
			Amount:  inst.Amount,
			DueDate: inst.DueDate,
			Method:  inst.Method,
		}
	}
	return out
}

// QuoteResponse is the wire shape of a quote.
type QuoteResponse struct {
	ID           string               `json:"id"`
	CustomerID   string               `json:"customer_id"`
	Description  string               `json:"description"`
	Subtotal     decimal.Decimal      `json:"subtotal"`
	Discount     decimal.Decimal      `json:"discount"`
	Total        decimal.Decimal      `json:"total"`
	Method       domain.PaymentMethod `json:"method"`
	Installments []InstallmentItem    `json:"installments,omitempty"`
	Status       domain.QuoteStatus   `json:"status"`
	SaleID       *string              `json:"sale_id,omitempty"`
	ValidUntil   *time.Time           `json:"valid_until,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// QuoteFromDomain converts a domain quote to its wire shape.
func QuoteFromDomain(q *domain.Quote) QuoteResponse {
	return QuoteResponse{
		ID:           q.ID,
		CustomerID:   q.CustomerID,
		Description:  q.Description,
		Subtotal:     q.Subtotal,
		Discount:     q.Discount,
		Total:        q.Total,
		Method:       q.Method,
		Installments: installmentsFromDomain(q.Installments),
		Status:       q.Status,
		SaleID:       q.SaleID,
		ValidUntil:   q.ValidUntil,
		CreatedAt:    q.CreatedAt,
		UpdatedAt:    q.UpdatedAt,
	}
}

// QuotesFromDomain converts a slice of domain quotes.
func QuotesFromDomain(quotes []*domain.Quote) []QuoteResponse {
	out := make([]QuoteResponse, len(quotes))
	for i, q := range quotes {
		out[i] = QuoteFromDomain(q)
	}
	return out
}

// SubscriptionResponse is the wire shape of a subscription.
type SubscriptionResponse struct {
	ID           string          `json:"id"`
	CustomerID   string          `json:"customer_id"`
	Description  string          `json:"description"`
	MonthlyValue decimal.Decimal `json:"monthly_value"`
	StartDate    time.Time       `json:"start_date"`
	EndDate      *time.Time      `json:"end_date,omitempty"`
	Active       bool            `json:"active"`
	PaymentDay   int             `json:"payment_day,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// SubscriptionFromDomain converts a domain subscription to its wire shape.
func SubscriptionFromDomain(s *domain.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:           s.ID,
		CustomerID:   s.CustomerID,
		Description:  s.Description,
		MonthlyValue: s.MonthlyValue,
		StartDate:    s.StartDate,
		EndDate:      s.EndDate,
		Active:       s.Active,
		PaymentDay:   s.PaymentDay,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// SubscriptionsFromDomain converts a slice of domain subscriptions.
func SubscriptionsFromDomain(subs []*domain.Subscription) []SubscriptionResponse {
	out := make([]SubscriptionResponse, len(subs))
	for i, s := range subs {
		out[i] = SubscriptionFromDomain(s)
	}
	return out
}

// SubscriptionPaymentResponse is the wire shape of a period record.
type SubscriptionPaymentResponse struct {
	ID             string               `json:"id"`
	SubscriptionID string               `json:"subscription_id"`
	Year           int                  `json:"year"`
	Month          int                  `json:"month"`
	Amount         decimal.Decimal      `json:"amount"`
	Status         domain.EntryStatus   `json:"status"`
	Method         domain.PaymentMethod `json:"method,omitempty"`
	Skipped        bool                 `json:"skipped"`
	SkipReason     string               `json:"skip_reason,omitempty"`
	EntryID        *string              `json:"entry_id,omitempty"`
	PaidAt         *time.Time           `json:"paid_at,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// SubscriptionPaymentFromDomain converts a period record to its wire shape.
func SubscriptionPaymentFromDomain(p *domain.SubscriptionPayment) SubscriptionPaymentResponse {
	return SubscriptionPaymentResponse{
		ID:             p.ID,
		SubscriptionID: p.SubscriptionID,
		Year:           p.Year,
		Month:          p.Month,
		Amount:         p.Amount,
		Status:         p.Status,
		Method:         p.Method,
		Skipped:        p.Skipped,
		SkipReason:     p.SkipReason,
		EntryID:        p.EntryID,
		PaidAt:         p.PaidAt,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// PeriodResponse is the wire shape of one subscription billing month.
type PeriodResponse struct {
	Year       int            `json:"year"`
	Month      int            `json:"month"`
	Entry      *EntryResponse `json:"entry,omitempty"`
	Skipped    bool           `json:"skipped"`
	SkipReason string         `json:"skip_reason,omitempty"`
}

// PeriodsFromUseCase converts period views to their wire shape.
func PeriodsFromUseCase(periods []usecase.PeriodView) []PeriodResponse {
	out := make([]PeriodResponse, len(periods))
	for i, p := range periods {
		resp := PeriodResponse{
			Year:       p.Key.Year,
			Month:      p.Key.Month,
			Skipped:    p.Skipped,
			SkipReason: p.SkipReason,
		}
		if p.Entry != nil {
			e := EntryFromDomain(p.Entry)
			resp.Entry = &e
		}
		out[i] = resp
	}
	return out
}

// OpenAccountResponse is an open entry with its due classification.
type OpenAccountResponse struct {
	Entry EntryResponse   `json:"entry"`
	Class domain.DueClass `json:"class"`
}

// OpenAccountsFromUseCase converts open account views to their wire shape.
func OpenAccountsFromUseCase(accounts []usecase.OpenAccount) []OpenAccountResponse {
	out := make([]OpenAccountResponse, len(accounts))
	for i, a := range accounts {
		out[i] = OpenAccountResponse{
			Entry: EntryFromDomain(a.Entry),
			Class: a.Class,
		}
	}
	return out
}

// UserResponse is the wire shape of a user. The password hash never leaves
// the server.
type UserResponse struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Role      domain.Role `json:"role"`
	Active    bool        `json:"active"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// UserFromDomain converts a domain user to its wire shape.
func UserFromDomain(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// UsersFromDomain converts a slice of domain users.
func UsersFromDomain(users []*domain.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i, u := range users {
		out[i] = UserFromDomain(u)
	}
	return out
}

// AuditLogResponse is the wire shape of an audit record.
type AuditLogResponse struct {
	ID           string      `json:"id"`
	UserID       string      `json:"user_id,omitempty"`
	Action       string      `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id"`
	RequestID    string      `json:"request_id,omitempty"`
	BeforeState  domain.JSON `json:"before_state,omitempty"`
	AfterState   domain.JSON `json:"after_state,omitempty"`
	Status       string      `json:"status"`
	ErrorMessage string      `json:"error_message,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// AuditLogFromDomain converts an audit record to its wire shape.
func AuditLogFromDomain(l *domain.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:           l.ID,
		UserID:       l.UserID,
		Action:       l.Action,
		ResourceType: l.ResourceType,
		ResourceID:   l.ResourceID,
		RequestID:    l.RequestID,
		BeforeState:  l.BeforeState,
		AfterState:   l.AfterState,
		Status:       l.Status,
		ErrorMessage: l.ErrorMessage,
		CreatedAt:    l.CreatedAt,
	}
}

// AuditLogsFromDomain converts a slice of audit records.
func AuditLogsFromDomain(logs []*domain.AuditLog) []AuditLogResponse {
	out := make([]AuditLogResponse, len(logs))
	for i, l := range logs {
		out[i] = AuditLogFromDomain(l)
	}
	return out
}

// LoginResponse carries the issued token and the authenticated user.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ListResponse wraps a collection with its pagination window.
type ListResponse[T any] struct {
	Items  []T `json:"items"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
