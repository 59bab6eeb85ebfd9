package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/contasapp/contas/internal/adapter/http/dto"
	"github.com/contasapp/contas/internal/domain"
)

// AuditService is the slice of the audit use case this handler needs.
type AuditService interface {
	ListAuditLogs(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// AuditHandler serves the audit trail endpoint.
type AuditHandler struct {
	service AuditService
}

// NewAuditHandler creates an audit handler.
func NewAuditHandler(service AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

// List handles GET /audit with optional user, action, resource and date
// range filters.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.AuditFilter{
		UserID:       q.Get("user_id"),
		Action:       q.Get("action"),
		ResourceType: q.Get("resource_type"),
		ResourceID:   q.Get("resource_id"),
		Limit:        parseIntQuery(r, "limit", 100),
		Offset:       parseIntQuery(r, "offset", 0),
	}

	if raw := q.Get("start_date"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "start_date must be RFC 3339")
			return
		}
		filter.StartDate = &t
	}
	if raw := q.Get("end_date"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "end_date must be RFC 3339")
			return
		}
		filter.EndDate = &t
	}

	logs, err := h.service.ListAuditLogs(r.Context(), filter)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ListResponse[dto.AuditLogResponse]{
		Items:  dto.AuditLogsFromDomain(logs),
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}
