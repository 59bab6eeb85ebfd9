package handler

import (
	"context"
	"net/http"

	"github.com/contasapp/contas/internal/adapter/http/dto"
	"github.com/contasapp/contas/internal/usecase"
)

// ReportService is the slice of the report use case this handler needs.
type ReportService interface {
	OpenAccounts(ctx context.Context) ([]usecase.OpenAccount, error)
	ReceivedByMonth(ctx context.Context, year int) ([]usecase.MonthTotal, error)
	Forecast(ctx context.Context) ([]usecase.ForecastBucket, error)
}

// ReportHandler serves the reporting endpoints.
type ReportHandler struct {
	service ReportService
}

// NewReportHandler creates a report handler.
func NewReportHandler(service ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// OpenAccounts handles GET /reports/open-accounts.
func (h *ReportHandler) OpenAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.OpenAccounts(r.Context())
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OpenAccountsFromUseCase(accounts))
}

// ReceivedByMonth handles GET /reports/received/{year}.
func (h *ReportHandler) ReceivedByMonth(w http.ResponseWriter, r *http.Request) {
	year, err := parseURLInt(r, "year")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "year must be numeric")
		return
	}
	totals, err := h.service.ReceivedByMonth(r.Context(), year)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

// Forecast handles GET /reports/forecast, the next twelve months of
// expected inflows starting from the current month.
func (h *ReportHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	buckets, err := h.service.Forecast(r.Context())
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, buckets)
}
