package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database
	// transaction. Payment cascades touch several tables and must not
	// hold locks indefinitely.
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour

	// ReportCacheTTL is how long read-side report payloads stay cached.
	ReportCacheTTL = time.Minute

	// ImportTransactionTimeout bounds a full backup import, which upserts
	// every table in one transaction.
	ImportTransactionTimeout = 2 * time.Minute
)
