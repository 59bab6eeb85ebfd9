package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/contasapp/contas/internal/adapter/http/dto"
	"github.com/contasapp/contas/internal/domain"
	"github.com/contasapp/contas/internal/usecase"
)

// CustomerService is the slice of the customer use case this handler needs.
type CustomerService interface {
	CreateCustomer(ctx context.Context, input usecase.CustomerInput) (*domain.Customer, error)
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	ListCustomers(ctx context.Context, limit, offset int) ([]*domain.Customer, error)
	UpdateCustomer(ctx context.Context, id string, input usecase.CustomerInput) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
}

// CustomerHandler serves the customer endpoints.
type CustomerHandler struct {
	service CustomerService
}

// NewCustomerHandler creates a customer handler.
func NewCustomerHandler(service CustomerService) *CustomerHandler {
	return &CustomerHandler{service: service}
}

// Create handles POST /customers.
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	customer, err := h.service.CreateCustomer(r.Context(), req.ToUseCaseInput())
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.CustomerFromDomain(customer))
}

// Get handles GET /customers/{id}.
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	customer, err := h.service.GetCustomer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.CustomerFromDomain(customer))
}

// List handles GET /customers.
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	customers, err := h.service.ListCustomers(r.Context(), limit, offset)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ListResponse[dto.CustomerResponse]{
		Items:  dto.CustomersFromDomain(customers),
		Limit:  limit,
		Offset: offset,
	})
}

// Update handles PUT /customers/{id}.
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.CustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	customer, err := h.service.UpdateCustomer(r.Context(), chi.URLParam(r, "id"), req.ToUseCaseInput())
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.CustomerFromDomain(customer))
}

// Delete handles DELETE /customers/{id}.
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCustomer(r.Context(), chi.URLParam(r, "id")); err != nil {
		mapDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
