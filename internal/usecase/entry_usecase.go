package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/contasapp/contas/internal/domain"
)

// EntryUseCase manages standalone financial entries: manual income or
// expense records not generated from a sale or subscription.
type EntryUseCase struct {
	txManager TransactionManager
	entryRepo EntryRepository
	idGen     IDGenerator
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(txManager TransactionManager, entryRepo EntryRepository, idGen IDGenerator) *EntryUseCase {
	return &EntryUseCase{txManager: txManager, entryRepo: entryRepo, idGen: idGen}
}

// EntryInput carries the fields of a manual entry.
type EntryInput struct {
	Type        domain.EntryType
	Description string
	Amount      decimal.Decimal
	Method      domain.PaymentMethod
	DueDate     *time.Time
	CustomerID  *string
}

// CreateEntry records a manual entry. Immediate methods settle it on the
// spot; the open method leaves it pending.
func (uc *EntryUseCase) CreateEntry(ctx context.Context, input EntryInput) (*domain.Entry, error) {
	now := time.Now().UTC()
	entry := &domain.Entry{
		ID:             uc.idGen.Generate(),
		Type:           input.Type,
		Description:    input.Description,
		Amount:         input.Amount,
		OriginalAmount: input.Amount,
		Remaining:      input.Amount,
		Status:         domain.StatusPending,
		Method:         input.Method,
		DueDate:        input.DueDate,
		CustomerID:     input.CustomerID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if input.Method.Immediate() {
		entry.MarkPaid(input.Method, now)
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.entryRepo.Create(txCtx, tx, entry); err != nil {
		return nil, err
	}
	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}
	return entry, nil
}

// GetEntry returns an entry by id.
func (uc *EntryUseCase) GetEntry(ctx context.Context, id string) (*domain.Entry, error) {
	return uc.entryRepo.GetByID(ctx, id)
}

// ListEntries returns entries matching the filter.
func (uc *EntryUseCase) ListEntries(ctx context.Context, filter EntryFilter) ([]*domain.Entry, error) {
	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)
	return uc.entryRepo.List(ctx, filter)
}

// DeleteEntry removes an entry. Entries generated from a sale or
// subscription are managed through their parent instead.
func (uc *EntryUseCase) DeleteEntry(ctx context.Context, id string) error {
	entry, err := uc.entryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if entry.SaleID != nil {
		return domain.ErrEntryHasParent
	}
	if entry.SubscriptionID != nil {
		return domain.ErrSubscriptionEntry
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.entryRepo.Delete(txCtx, tx, id); err != nil {
		return err
	}
	return tx.Commit(txCtx)
}
