package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/contasapp/contas/internal/usecase"
)

const maxBackupSize = 64 << 20

// BackupService is the slice of the backup use case this handler needs.
type BackupService interface {
	ExportJSON(ctx context.Context) ([]byte, error)
	ImportJSON(ctx context.Context, raw []byte) (*usecase.ImportCounts, error)
}

// BackupHandler serves the backup endpoints.
type BackupHandler struct {
	service BackupService
}

// NewBackupHandler creates a backup handler.
func NewBackupHandler(service BackupService) *BackupHandler {
	return &BackupHandler{service: service}
}

// Export handles GET /backup, streaming the full snapshot as a download.
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	raw, err := h.service.ExportJSON(r.Context())
	if err != nil {
		mapDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="backup.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

// Import handles POST /backup, restoring a snapshot by upsert.
func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBackupSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "failed to read request body")
		return
	}

	counts, err := h.service.ImportJSON(r.Context(), raw)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}
