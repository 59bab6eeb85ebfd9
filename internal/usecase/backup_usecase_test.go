package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/contasapp/contas/internal/domain"
	"github.com/contasapp/contas/internal/usecase"
	"github.com/contasapp/contas/internal/usecase/mocks"
)

func newBackupUseCase() (*usecase.BackupUseCase, *mocks.MockCustomerRepository, *mocks.MockEntryRepository) {
	customerRepo := mocks.NewMockCustomerRepository()
	entryRepo := mocks.NewMockEntryRepository()

	uc := usecase.NewBackupUseCase(
		mocks.NewMockTransactionManager(),
		customerRepo,
		mocks.NewMockQuoteRepository(),
		mocks.NewMockSaleRepository(),
		mocks.NewMockSubscriptionRepository(),
		entryRepo,
		mocks.NewMockSubscriptionPaymentRepository(),
		mocks.NewMockAuditRepository(),
		mocks.NewMockIDGenerator(),
		nil,
	)
	return uc, customerRepo, entryRepo
}

func TestBackupUseCase_ExportImportRoundTrip(t *testing.T) {
	source, customerRepo, entryRepo := newBackupUseCase()

	_ = customerRepo.Create(context.Background(), &domain.Customer{
		ID:   "cust-1",
		Name: "Clara Dias",
	})
	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	entryRepo.Seed(&domain.Entry{
		ID:             "entry-1",
		Type:           domain.EntryTypeIncome,
		Description:    "Manutencao",
		Amount:         decimal.NewFromInt(120),
		OriginalAmount: decimal.NewFromInt(120),
		Remaining:      decimal.NewFromInt(120),
		Status:         domain.StatusPending,
		Method:         domain.MethodOpen,
		DueDate:        &due,
	})

	raw, err := source.ExportJSON(context.Background())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(string(raw), `"version": "1"`) {
		t.Error("expected version tag in export")
	}

	target, targetCustomers, targetEntries := newBackupUseCase()
	counts, err := target.ImportJSON(context.Background(), raw)
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if counts.Customers != 1 || counts.Entries != 1 {
		t.Errorf("unexpected counts: %+v", counts)
	}
	if _, err := targetCustomers.GetByID(context.Background(), "cust-1"); err != nil {
		t.Error("imported customer missing")
	}
	imported, err := targetEntries.GetByID(context.Background(), "entry-1")
	if err != nil {
		t.Fatal("imported entry missing")
	}
	if !imported.Amount.Equal(decimal.NewFromInt(120)) {
		t.Errorf("imported amount %s, want 120", imported.Amount)
	}

	// Re-import is an upsert: same counts, no duplicates.
	again, err := target.ImportJSON(context.Background(), raw)
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if again.Customers != 1 {
		t.Errorf("expected upsert semantics, got %+v", again)
	}
}

func TestBackupUseCase_Import_RejectsUnknownVersion(t *testing.T) {
	uc, _, _ := newBackupUseCase()

	_, err := uc.Import(context.Background(), &usecase.Backup{Version: "99"})
	if err == nil {
		t.Fatal("expected version error")
	}
}
