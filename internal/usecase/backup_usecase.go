package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/contasapp/contas/internal/domain"
	"github.com/contasapp/contas/internal/infrastructure/metrics"
)

// BackupVersion tags the export format.
const BackupVersion = "1"

// Backup is a full-system snapshot as one JSON document.
type Backup struct {
	Version              string                        `json:"version"`
	ExportedAt           time.Time                     `json:"exported_at"`
	ExportedBy           string                        `json:"exported_by"`
	Customers            []*domain.Customer            `json:"customers"`
	Quotes               []*domain.Quote               `json:"quotes"`
	Sales                []*domain.Sale                `json:"sales"`
	Subscriptions        []*domain.Subscription        `json:"subscriptions"`
	Entries              []*domain.Entry               `json:"entries"`
	SubscriptionPayments []*domain.SubscriptionPayment `json:"subscription_payments"`
}

// BackupUseCase exports and imports full-system snapshots. Import is an
// upsert keyed by primary id, applied in dependency order inside one
// transaction.
type BackupUseCase struct {
	txManager        TransactionManager
	customerRepo     CustomerRepository
	quoteRepo        QuoteRepository
	saleRepo         SaleRepository
	subscriptionRepo SubscriptionRepository
	entryRepo        EntryRepository
	paymentRepo      SubscriptionPaymentRepository
	auditRepo        AuditRepository
	idGen            IDGenerator
	metrics          *metrics.Metrics
}

// NewBackupUseCase creates a new BackupUseCase.
func NewBackupUseCase(
	txManager TransactionManager,
	customerRepo CustomerRepository,
	quoteRepo QuoteRepository,
	saleRepo SaleRepository,
	subscriptionRepo SubscriptionRepository,
	entryRepo EntryRepository,
	paymentRepo SubscriptionPaymentRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *BackupUseCase {
	return &BackupUseCase{
		txManager:        txManager,
		customerRepo:     customerRepo,
		quoteRepo:        quoteRepo,
		saleRepo:         saleRepo,
		subscriptionRepo: subscriptionRepo,
		entryRepo:        entryRepo,
		paymentRepo:      paymentRepo,
		auditRepo:        auditRepo,
		idGen:            idGen,
		metrics:          metrics,
	}
}

// Export builds a snapshot of every table.
func (uc *BackupUseCase) Export(ctx context.Context) (*Backup, error) {
	customers, err := uc.customerRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	quotes, err := uc.quoteRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	sales, err := uc.saleRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	subscriptions, err := uc.subscriptionRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := uc.entryRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := uc.paymentRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	exportedBy := "system"
	if user, ok := domain.UserFromContext(ctx); ok {
		exportedBy = user.Email
	}

	backup := &Backup{
		Version:              BackupVersion,
		ExportedAt:           time.Now().UTC(),
		ExportedBy:           exportedBy,
		Customers:            customers,
		Quotes:               quotes,
		Sales:                sales,
		Subscriptions:        subscriptions,
		Entries:              entries,
		SubscriptionPayments: payments,
	}

	if uc.metrics != nil {
		uc.metrics.BackupsExported.Inc()
	}
	return backup, nil
}

// ExportJSON serializes the snapshot.
func (uc *BackupUseCase) ExportJSON(ctx context.Context) ([]byte, error) {
	backup, err := uc.Export(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(backup, "", "  ")
}

// ImportCounts reports what an import touched per table.
type ImportCounts struct {
	Customers            int `json:"customers"`
	Quotes               int `json:"quotes"`
	Sales                int `json:"sales"`
	Subscriptions        int `json:"subscriptions"`
	Entries              int `json:"entries"`
	SubscriptionPayments int `json:"subscription_payments"`
}

// Import upserts a snapshot table-by-table: customers first, then the
// records that reference them, then entries and period records. Any
// failure rolls back the whole import.
func (uc *BackupUseCase) Import(ctx context.Context, backup *Backup) (*ImportCounts, error) {
	if backup.Version != BackupVersion {
		return nil, fmt.Errorf("unsupported backup version %q", backup.Version)
	}

	txCtx, cancel := context.WithTimeout(ctx, ImportTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	counts := &ImportCounts{}

	for _, c := range backup.Customers {
		if err := uc.customerRepo.Upsert(txCtx, tx, c); err != nil {
			return nil, fmt.Errorf("import customer %s: %w", c.ID, err)
		}
		counts.Customers++
	}
	for _, s := range backup.Sales {
		if err := uc.saleRepo.Upsert(txCtx, tx, s); err != nil {
			return nil, fmt.Errorf("import sale %s: %w", s.ID, err)
		}
		counts.Sales++
	}
	// Sales go first so a converted quote's sale reference resolves.
	for _, q := range backup.Quotes {
		if err := uc.quoteRepo.Upsert(txCtx, tx, q); err != nil {
			return nil, fmt.Errorf("import quote %s: %w", q.ID, err)
		}
		counts.Quotes++
	}
	for _, s := range backup.Subscriptions {
		if err := uc.subscriptionRepo.Upsert(txCtx, tx, s); err != nil {
			return nil, fmt.Errorf("import subscription %s: %w", s.ID, err)
		}
		counts.Subscriptions++
	}
	for _, e := range backup.Entries {
		if err := uc.entryRepo.Upsert(txCtx, tx, e); err != nil {
			return nil, fmt.Errorf("import entry %s: %w", e.ID, err)
		}
		counts.Entries++
	}
	for _, p := range backup.SubscriptionPayments {
		if err := uc.paymentRepo.Upsert(txCtx, tx, p); err != nil {
			return nil, fmt.Errorf("import subscription payment %s: %w", p.ID, err)
		}
		counts.SubscriptionPayments++
	}

	if uc.auditRepo != nil {
		userID := "system"
		if user, ok := domain.UserFromContext(txCtx); ok {
			userID = user.ID
		}
		log := &domain.AuditLog{
			ID:           uc.idGen.Generate(),
			UserID:       userID,
			Action:       string(domain.AuditActionBackupImport),
			ResourceType: "backup",
			ResourceID:   backup.Version,
			AfterState:   domain.MarshalState(counts),
			Status:       string(domain.AuditStatusSuccess),
			CreatedAt:    time.Now().UTC(),
		}
		if err := uc.auditRepo.CreateTx(txCtx, tx, log); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.BackupsImported.Inc()
	}
	return counts, nil
}

// ImportJSON deserializes and imports a snapshot.
func (uc *BackupUseCase) ImportJSON(ctx context.Context, raw []byte) (*ImportCounts, error) {
	var backup Backup
	if err := json.Unmarshal(raw, &backup); err != nil {
		return nil, fmt.Errorf("parse backup: %w", err)
	}
	return uc.Import(ctx, &backup)
}
