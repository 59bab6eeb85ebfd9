package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/contasapp/contas/internal/adapter/http/dto"
	"github.com/contasapp/contas/internal/domain"
	"github.com/contasapp/contas/internal/usecase"
)

// SubscriptionService is the slice of the subscription use case this
// handler needs.
type SubscriptionService interface {
	CreateSubscription(ctx context.Context, input usecase.SubscriptionInput) (*domain.Subscription, error)
	GetSubscription(ctx context.Context, id string) (*domain.Subscription, error)
	ListSubscriptions(ctx context.Context, limit, offset int) ([]*domain.Subscription, error)
	UpdateSubscription(ctx context.Context, id string, input usecase.SubscriptionInput) (*domain.Subscription, error)
	DeactivateSubscription(ctx context.Context, id string) (*domain.Subscription, error)
	ListPeriods(ctx context.Context, id string, from time.Time, months int) ([]usecase.PeriodView, error)
	PayPeriod(ctx context.Context, input usecase.PayPeriodInput) (*domain.SubscriptionPayment, error)
	SkipPeriod(ctx context.Context, input usecase.SkipPeriodInput) (*domain.SubscriptionPayment, error)
	RevertPeriod(ctx context.Context, key domain.PeriodKey) (*domain.SubscriptionPayment, error)
}

// SubscriptionHandler serves the subscription endpoints.
type SubscriptionHandler struct {
	service SubscriptionService
}

// NewSubscriptionHandler creates a subscription handler.
func NewSubscriptionHandler(service SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

// Create handles POST /subscriptions.
func (h *SubscriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.SubscriptionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	sub, err := h.service.CreateSubscription(r.Context(), req.ToUseCaseInput())
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.SubscriptionFromDomain(sub))
}

// Get handles GET /subscriptions/{id}.
func (h *SubscriptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sub, err := h.service.GetSubscription(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.SubscriptionFromDomain(sub))
}

// List handles GET /subscriptions.
func (h *SubscriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	subs, err := h.service.ListSubscriptions(r.Context(), limit, offset)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ListResponse[dto.SubscriptionResponse]{
		Items:  dto.SubscriptionsFromDomain(subs),
		Limit:  limit,
		Offset: offset,
	})
}

// Update handles PUT /subscriptions/{id}.
func (h *SubscriptionHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.SubscriptionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	sub, err := h.service.UpdateSubscription(r.Context(), chi.URLParam(r, "id"), req.ToUseCaseInput())
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.SubscriptionFromDomain(sub))
}

// Deactivate handles POST /subscriptions/{id}/deactivate.
func (h *SubscriptionHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	sub, err := h.service.DeactivateSubscription(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.SubscriptionFromDomain(sub))
}

// ListPeriods handles GET /subscriptions/{id}/periods. The window starts
// at the "from" query month (YYYY-MM, current month when absent) and spans
// "months" entries.
func (h *SubscriptionHandler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	from := time.Now().UTC()
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "from must be YYYY-MM")
			return
		}
		from = parsed
	}
	months := parseIntQuery(r, "months", domain.LookAheadMonths)

	periods, err := h.service.ListPeriods(r.Context(), chi.URLParam(r, "id"), from, months)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.PeriodsFromUseCase(periods))
}

// PayPeriod handles POST /subscriptions/{id}/periods/{year}/{month}/pay.
func (h *SubscriptionHandler) PayPeriod(w http.ResponseWriter, r *http.Request) {
	key, ok := periodKeyFromURL(w, r)
	if !ok {
		return
	}

	var req dto.PayPeriodRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	payment, err := h.service.PayPeriod(r.Context(), usecase.PayPeriodInput{
		SubscriptionID: key.SubscriptionID,
		Year:           key.Year,
		Month:          key.Month,
		Amount:         req.Amount,
		Method:         req.Method,
	})
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.SubscriptionPaymentFromDomain(payment))
}

// SkipPeriod handles POST /subscriptions/{id}/periods/{year}/{month}/skip.
func (h *SubscriptionHandler) SkipPeriod(w http.ResponseWriter, r *http.Request) {
	key, ok := periodKeyFromURL(w, r)
	if !ok {
		return
	}

	var req dto.SkipPeriodRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	payment, err := h.service.SkipPeriod(r.Context(), usecase.SkipPeriodInput{
		SubscriptionID: key.SubscriptionID,
		Year:           key.Year,
		Month:          key.Month,
		Reason:         req.Reason,
	})
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.SubscriptionPaymentFromDomain(payment))
}

// RevertPeriod handles POST /subscriptions/{id}/periods/{year}/{month}/revert.
func (h *SubscriptionHandler) RevertPeriod(w http.ResponseWriter, r *http.Request) {
	key, ok := periodKeyFromURL(w, r)
	if !ok {
		return
	}

	payment, err := h.service.RevertPeriod(r.Context(), key)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.SubscriptionPaymentFromDomain(payment))
}

func periodKeyFromURL(w http.ResponseWriter, r *http.Request) (domain.PeriodKey, bool) {
	key := domain.PeriodKey{SubscriptionID: chi.URLParam(r, "id")}
	var err error
	if key.Year, err = parseURLInt(r, "year"); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "year must be numeric")
		return key, false
	}
	if key.Month, err = parseURLInt(r, "month"); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "month must be numeric")
		return key, false
	}
	return key, true
}
