package domain

import (
	"encoding/json"
	"time"
)

// AuditLog records one state-changing operation for traceability. Because
// a partial payment shrinks the open entry's amount in place, the audit
// trail is the only place the intermediate balances survive.
type AuditLog struct {
	ID           string
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	RequestID    string
	BeforeState  JSON
	AfterState   JSON
	Status       string
	ErrorMessage string
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data.
type JSON map[string]any

// AuditAction represents different types of auditable actions.
type AuditAction string

const (
	AuditActionSaleCreate   AuditAction = "sale.create"
	AuditActionSaleUpdate   AuditAction = "sale.update"
	AuditActionSaleDelete   AuditAction = "sale.delete"
	AuditActionQuoteConvert AuditAction = "quote.convert"

	AuditActionEntryPay        AuditAction = "entry.pay"
	AuditActionEntryPayPartial AuditAction = "entry.pay_partial"
	AuditActionEntryReverse    AuditAction = "entry.reverse"

	AuditActionPeriodPay    AuditAction = "period.pay"
	AuditActionPeriodSkip   AuditAction = "period.skip"
	AuditActionPeriodRevert AuditAction = "period.revert"

	AuditActionBackupImport AuditAction = "backup.import"
	AuditActionUserLogin    AuditAction = "user.login"
)

// AuditStatus represents the status of an audited action.
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
)

// MarshalState converts a domain object to JSON for audit logging.
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}
	return result
}

// AuditFilter defines filters for querying audit logs.
type AuditFilter struct {
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	StartDate    *time.Time
	EndDate      *time.Time
	Limit        int
	Offset       int
}
