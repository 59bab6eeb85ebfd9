package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/contasapp/contas/internal/adapter/http/dto"
	"github.com/contasapp/contas/internal/domain"
	"github.com/contasapp/contas/internal/usecase"
)

// EntryService is the slice of the entry use case this handler needs.
type EntryService interface {
	CreateEntry(ctx context.Context, input usecase.EntryInput) (*domain.Entry, error)
	GetEntry(ctx context.Context, id string) (*domain.Entry, error)
	ListEntries(ctx context.Context, filter usecase.EntryFilter) ([]*domain.Entry, error)
	DeleteEntry(ctx context.Context, id string) error
}

// PaymentService is the slice of the payment use case this handler needs.
type PaymentService interface {
	PayEntry(ctx context.Context, input usecase.PayEntryInput) (*domain.Entry, error)
	PayPartial(ctx context.Context, input usecase.PayPartialInput) (*domain.Entry, *domain.Entry, error)
	ReverseEntry(ctx context.Context, entryID string) (*domain.Entry, error)
}

// EntryHandler serves the entry and payment endpoints.
type EntryHandler struct {
	entries  EntryService
	payments PaymentService
}

// NewEntryHandler creates an entry handler.
func NewEntryHandler(entries EntryService, payments PaymentService) *EntryHandler {
	return &EntryHandler{entries: entries, payments: payments}
}

// Create handles POST /entries.
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.EntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	entry, err := h.entries.CreateEntry(r.Context(), req.ToUseCaseInput())
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// Get handles GET /entries/{id}.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.entries.GetEntry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// List handles GET /entries with optional type and status filters.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := usecase.EntryFilter{
		Type:   domain.EntryType(r.URL.Query().Get("type")),
		Status: domain.EntryStatus(r.URL.Query().Get("status")),
		Limit:  parseIntQuery(r, "limit", 50),
		Offset: parseIntQuery(r, "offset", 0),
	}

	entries, err := h.entries.ListEntries(r.Context(), filter)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ListResponse[dto.EntryResponse]{
		Items:  dto.EntriesFromDomain(entries),
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

// Delete handles DELETE /entries/{id}.
func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.entries.DeleteEntry(r.Context(), chi.URLParam(r, "id")); err != nil {
		mapDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Pay handles POST /entries/{id}/pay.
func (h *EntryHandler) Pay(w http.ResponseWriter, r *http.Request) {
	var req dto.PayRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	entry, err := h.payments.PayEntry(r.Context(), usecase.PayEntryInput{
		EntryID: chi.URLParam(r, "id"),
		Method:  req.Method,
	})
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.PaymentFromDomain(entry, nil))
}

// PayPartial handles POST /entries/{id}/pay-partial.
func (h *EntryHandler) PayPartial(w http.ResponseWriter, r *http.Request) {
	var req dto.PayPartialRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	entry, marker, err := h.payments.PayPartial(r.Context(), usecase.PayPartialInput{
		EntryID: chi.URLParam(r, "id"),
		Amount:  req.Amount,
		Method:  req.Method,
	})
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.PaymentFromDomain(entry, marker))
}

// Reverse handles POST /entries/{id}/reverse.
func (h *EntryHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	entry, err := h.payments.ReverseEntry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}
