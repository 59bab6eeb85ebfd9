package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/contasapp/contas/internal/adapter/http/dto"
	"github.com/contasapp/contas/internal/domain"
	"github.com/contasapp/contas/internal/usecase"
)

// SaleService is the slice of the sale use case this handler needs.
type SaleService interface {
	CreateSale(ctx context.Context, input usecase.SaleInput) (*domain.Sale, error)
	GetSale(ctx context.Context, id string) (*domain.Sale, []*domain.Entry, error)
	ListSales(ctx context.Context, limit, offset int) ([]*domain.Sale, error)
	UpdateSale(ctx context.Context, id string, input usecase.SaleInput) (*domain.Sale, error)
	DeleteSale(ctx context.Context, id string) error
}

// SaleHandler serves the sale endpoints.
type SaleHandler struct {
	service SaleService
}

// NewSaleHandler creates a sale handler.
func NewSaleHandler(service SaleService) *SaleHandler {
	return &SaleHandler{service: service}
}

// Create handles POST /sales.
func (h *SaleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.SaleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	sale, err := h.service.CreateSale(r.Context(), req.ToUseCaseInput())
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.SaleFromDomain(sale))
}

// Get handles GET /sales/{id}, returning the sale with its entries.
func (h *SaleHandler) Get(w http.ResponseWriter, r *http.Request) {
	sale, entries, err := h.service.GetSale(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.SaleDetailResponse{
		Sale:    dto.SaleFromDomain(sale),
		Entries: dto.EntriesFromDomain(entries),
	})
}

// List handles GET /sales.
func (h *SaleHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	sales, err := h.service.ListSales(r.Context(), limit, offset)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ListResponse[dto.SaleResponse]{
		Items:  dto.SalesFromDomain(sales),
		Limit:  limit,
		Offset: offset,
	})
}

// Update handles PUT /sales/{id}. The sale's entries are regenerated,
// so any payments already recorded against them are lost.
func (h *SaleHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.SaleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	sale, err := h.service.UpdateSale(r.Context(), chi.URLParam(r, "id"), req.ToUseCaseInput())
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.SaleFromDomain(sale))
}

// Delete handles DELETE /sales/{id}.
func (h *SaleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteSale(r.Context(), chi.URLParam(r, "id")); err != nil {
		mapDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
