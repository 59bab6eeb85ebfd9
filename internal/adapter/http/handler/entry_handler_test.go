package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/contasapp/contas/internal/adapter/http/dto"
	"github.com/contasapp/contas/internal/domain"
	"github.com/contasapp/contas/internal/usecase"
)

type entryServiceStub struct {
	createFn func(ctx context.Context, input usecase.EntryInput) (*domain.Entry, error)
	getFn    func(ctx context.Context, id string) (*domain.Entry, error)
	listFn   func(ctx context.Context, filter usecase.EntryFilter) ([]*domain.Entry, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *entryServiceStub) CreateEntry(ctx context.Context, input usecase.EntryInput) (*domain.Entry, error) {
	return s.createFn(ctx, input)
}

func (s *entryServiceStub) GetEntry(ctx context.Context, id string) (*domain.Entry, error) {
	return s.getFn(ctx, id)
}

func (s *entryServiceStub) ListEntries(ctx context.Context, filter usecase.EntryFilter) ([]*domain.Entry, error) {
	return s.listFn(ctx, filter)
}

func (s *entryServiceStub) DeleteEntry(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

type paymentServiceStub struct {
	payFn        func(ctx context.Context, input usecase.PayEntryInput) (*domain.Entry, error)
	payPartialFn func(ctx context.Context, input usecase.PayPartialInput) (*domain.Entry, *domain.Entry, error)
	reverseFn    func(ctx context.Context, entryID string) (*domain.Entry, error)
}

func (s *paymentServiceStub) PayEntry(ctx context.Context, input usecase.PayEntryInput) (*domain.Entry, error) {
	return s.payFn(ctx, input)
}

func (s *paymentServiceStub) PayPartial(ctx context.Context, input usecase.PayPartialInput) (*domain.Entry, *domain.Entry, error) {
	return s.payPartialFn(ctx, input)
}

func (s *paymentServiceStub) ReverseEntry(ctx context.Context, entryID string) (*domain.Entry, error) {
	return s.reverseFn(ctx, entryID)
}

func TestEntryHandler_Pay_Success(t *testing.T) {
	paid := &domain.Entry{
		ID:     "ent-1",
		Type:   domain.EntryTypeIncome,
		Status: domain.StatusPaid,
		Amount: decimal.NewFromInt(100),
		Method: domain.MethodPix,
	}

	var captured usecase.PayEntryInput
	handler := NewEntryHandler(&entryServiceStub{}, &paymentServiceStub{
		payFn: func(ctx context.Context, input usecase.PayEntryInput) (*domain.Entry, error) {
			captured = input
			return paid, nil
		},
	})

	body, _ := json.Marshal(dto.PayRequest{Method: domain.MethodPix})
	req := httptest.NewRequest(http.MethodPost, "/entries/ent-1/pay", bytes.NewReader(body))
	req = setChiURLParam(req, "id", "ent-1")
	rec := httptest.NewRecorder()

	handler.Pay(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.EntryID != "ent-1" || captured.Method != domain.MethodPix {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.PaymentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Entry.ID != "ent-1" || resp.Marker != nil {
		t.Fatalf("expected paid entry without marker, got %+v", resp)
	}
}

func TestEntryHandler_PayPartial_ReturnsMarker(t *testing.T) {
	paid := &domain.Entry{ID: "ent-1", Status: domain.StatusPaid}
	marker := &domain.Entry{ID: "ent-2", Status: domain.StatusPending}

	handler := NewEntryHandler(&entryServiceStub{}, &paymentServiceStub{
		payPartialFn: func(ctx context.Context, input usecase.PayPartialInput) (*domain.Entry, *domain.Entry, error) {
			if !input.Amount.Equal(decimal.NewFromInt(40)) {
				t.Fatalf("expected amount 40, got %s", input.Amount)
			}
			return paid, marker, nil
		},
	})

	body, _ := json.Marshal(dto.PayPartialRequest{
		Amount: decimal.NewFromInt(40),
		Method: domain.MethodCash,
	})
	req := httptest.NewRequest(http.MethodPost, "/entries/ent-1/pay-partial", bytes.NewReader(body))
	req = setChiURLParam(req, "id", "ent-1")
	rec := httptest.NewRecorder()

	handler.PayPartial(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.PaymentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Marker == nil || resp.Marker.ID != "ent-2" {
		t.Fatalf("expected remainder marker in response, got %+v", resp)
	}
}

func TestEntryHandler_Pay_NotFound(t *testing.T) {
	handler := NewEntryHandler(&entryServiceStub{}, &paymentServiceStub{
		payFn: func(ctx context.Context, input usecase.PayEntryInput) (*domain.Entry, error) {
			return nil, domain.ErrEntryNotFound
		},
	})

	body, _ := json.Marshal(dto.PayRequest{Method: domain.MethodPix})
	req := httptest.NewRequest(http.MethodPost, "/entries/missing/pay", bytes.NewReader(body))
	req = setChiURLParam(req, "id", "missing")
	rec := httptest.NewRecorder()

	handler.Pay(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestEntryHandler_Reverse_Conflict(t *testing.T) {
	handler := NewEntryHandler(&entryServiceStub{}, &paymentServiceStub{
		reverseFn: func(ctx context.Context, entryID string) (*domain.Entry, error) {
			return nil, domain.ErrEntryNotPaid
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/entries/ent-1/reverse", nil)
	req = setChiURLParam(req, "id", "ent-1")
	rec := httptest.NewRecorder()

	handler.Reverse(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestEntryHandler_Create_InvalidJSON(t *testing.T) {
	handler := NewEntryHandler(&entryServiceStub{
		createFn: func(ctx context.Context, input usecase.EntryInput) (*domain.Entry, error) {
			t.Fatal("CreateEntry should not be called for invalid payload")
			return nil, nil
		},
	}, &paymentServiceStub{})

	req := httptest.NewRequest(http.MethodPost, "/entries", bytes.NewBufferString("{invalid json"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestEntryHandler_List_PassesFilter(t *testing.T) {
	handler := NewEntryHandler(&entryServiceStub{
		listFn: func(ctx context.Context, filter usecase.EntryFilter) ([]*domain.Entry, error) {
			if filter.Type != domain.EntryTypeIncome || filter.Status != domain.StatusPending {
				t.Fatalf("expected filter from query, got %+v", filter)
			}
			if filter.Limit != 10 || filter.Offset != 5 {
				t.Fatalf("expected limit=10 offset=5, got %+v", filter)
			}
			return []*domain.Entry{}, nil
		},
	}, &paymentServiceStub{})

	req := httptest.NewRequest(http.MethodGet, "/entries?type=income&status=pending&limit=10&offset=5", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
