package usecase

import (
	"context"

	"github.com/contasapp/contas/internal/domain"
)

// AuditUseCase exposes the audit trail for inspection.
type AuditUseCase struct {
	auditRepo AuditRepository
}

// NewAuditUseCase creates an audit use case.
func NewAuditUseCase(auditRepo AuditRepository) *AuditUseCase {
	return &AuditUseCase{auditRepo: auditRepo}
}

// ListAuditLogs returns audit records matching the filter, newest first.
func (uc *AuditUseCase) ListAuditLogs(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	return uc.auditRepo.List(ctx, filter)
}
