package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/contasapp/contas/internal/adapter/http/dto"
	"github.com/contasapp/contas/internal/domain"
	"github.com/contasapp/contas/internal/usecase"
)

// QuoteService is the slice of the quote use case this handler needs.
type QuoteService interface {
	CreateQuote(ctx context.Context, input usecase.QuoteInput) (*domain.Quote, error)
	GetQuote(ctx context.Context, id string) (*domain.Quote, error)
	ListQuotes(ctx context.Context, limit, offset int) ([]*domain.Quote, error)
	UpdateQuote(ctx context.Context, id string, input usecase.QuoteInput) (*domain.Quote, error)
	RejectQuote(ctx context.Context, id string) (*domain.Quote, error)
	ConvertQuote(ctx context.Context, id string) (*domain.Sale, error)
}

// QuoteHandler serves the quote endpoints.
type QuoteHandler struct {
	service QuoteService
}

// NewQuoteHandler creates a quote handler.
func NewQuoteHandler(service QuoteService) *QuoteHandler {
	return &QuoteHandler{service: service}
}

// Create handles POST /quotes.
func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.QuoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	quote, err := h.service.CreateQuote(r.Context(), req.ToUseCaseInput())
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.QuoteFromDomain(quote))
}

// Get handles GET /quotes/{id}.
func (h *QuoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	quote, err := h.service.GetQuote(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.QuoteFromDomain(quote))
}

// List handles GET /quotes.
func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	quotes, err := h.service.ListQuotes(r.Context(), limit, offset)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ListResponse[dto.QuoteResponse]{
		Items:  dto.QuotesFromDomain(quotes),
		Limit:  limit,
		Offset: offset,
	})
}

// Update handles PUT /quotes/{id}.
func (h *QuoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.QuoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	quote, err := h.service.UpdateQuote(r.Context(), chi.URLParam(r, "id"), req.ToUseCaseInput())
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.QuoteFromDomain(quote))
}

// Reject handles POST /quotes/{id}/reject.
func (h *QuoteHandler) Reject(w http.ResponseWriter, r *http.Request) {
	quote, err := h.service.RejectQuote(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.QuoteFromDomain(quote))
}

// Convert handles POST /quotes/{id}/convert, turning the quote into a sale.
func (h *QuoteHandler) Convert(w http.ResponseWriter, r *http.Request) {
	sale, err := h.service.ConvertQuote(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.SaleFromDomain(sale))
}
