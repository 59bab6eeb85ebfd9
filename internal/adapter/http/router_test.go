package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/contasapp/contas/internal/adapter/http/handler"
	apimiddleware "github.com/contasapp/contas/internal/adapter/http/middleware"
	"github.com/contasapp/contas/internal/domain"
	"github.com/contasapp/contas/internal/infrastructure/auth"
	"github.com/contasapp/contas/internal/usecase"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubRouterIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
		cfg.IdempotencyTTL = time.Minute
	}))

	body := `{"name":"Oficina Central","document":"11144477735"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
}

func TestNewRouter_AuthRequiredWhenEnabled(t *testing.T) {
	jwtManager := auth.NewJWTManager("router-test-secret", time.Minute)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.AuthMiddleware = apimiddleware.NewAuthMiddleware(jwtManager)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/entries/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without bearer token, got %d", rec.Code)
	}
}

func TestNewRouter_AdminRoutesRejectOperators(t *testing.T) {
	jwtManager := auth.NewJWTManager("router-test-secret", time.Minute)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.AuthMiddleware = apimiddleware.NewAuthMiddleware(jwtManager)
	}))

	token, err := jwtManager.Generate(&domain.User{
		ID:    "user-1",
		Email: "operator@example.com",
		Role:  domain.RoleOperator,
	})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/backup", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for operator on admin route, got %d", rec.Code)
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/auth/login",
		"GET /api/v1/customers/",
		"POST /api/v1/sales/",
		"POST /api/v1/quotes/{id}/convert",
		"POST /api/v1/entries/{id}/pay",
		"POST /api/v1/entries/{id}/pay-partial",
		"POST /api/v1/entries/{id}/reverse",
		"POST /api/v1/subscriptions/{id}/periods/{year}/{month}/pay",
		"GET /api/v1/reports/open-accounts",
		"GET /api/v1/reports/forecast",
		"GET /api/v1/backup",
		"POST /api/v1/backup",
		"GET /api/v1/audit",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	cfg := RouterConfig{
		CustomerHandler:     handler.NewCustomerHandler(stubCustomerService{}),
		SaleHandler:         handler.NewSaleHandler(stubSaleService{}),
		QuoteHandler:        handler.NewQuoteHandler(stubQuoteService{}),
		EntryHandler:        handler.NewEntryHandler(stubEntryService{}, stubPaymentService{}),
		SubscriptionHandler: handler.NewSubscriptionHandler(stubSubscriptionService{}),
		ReportHandler:       handler.NewReportHandler(stubReportService{}),
		BackupHandler:       handler.NewBackupHandler(stubBackupService{}),
		AuditHandler:        handler.NewAuditHandler(stubAuditService{}),
		AuthHandler:         handler.NewAuthHandler(stubAuthService{}, stubTokenIssuer{}),
		UserHandler:         handler.NewUserHandler(stubUserService{}),
		HealthHandler:       handler.NewHealthHandler(nil, nil),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubCustomerService struct{}

func (stubCustomerService) CreateCustomer(ctx context.Context, input usecase.CustomerInput) (*domain.Customer, error) {
	return &domain.Customer{ID: "cust"}, nil
}

func (stubCustomerService) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return &domain.Customer{ID: id}, nil
}

func (stubCustomerService) ListCustomers(ctx context.Context, limit, offset int) ([]*domain.Customer, error) {
	return []*domain.Customer{}, nil
}

func (stubCustomerService) UpdateCustomer(ctx context.Context, id string, input usecase.CustomerInput) (*domain.Customer, error) {
	return &domain.Customer{ID: id}, nil
}

func (stubCustomerService) DeleteCustomer(ctx context.Context, id string) error {
	return nil
}

type stubSaleService struct{}

func (stubSaleService) CreateSale(ctx context.Context, input usecase.SaleInput) (*domain.Sale, error) {
	return &domain.Sale{ID: "sale"}, nil
}

func (stubSaleService) GetSale(ctx context.Context, id string) (*domain.Sale, []*domain.Entry, error) {
	return &domain.Sale{ID: id}, []*domain.Entry{}, nil
}

func (stubSaleService) ListSales(ctx context.Context, limit, offset int) ([]*domain.Sale, error) {
	return []*domain.Sale{}, nil
}

func (stubSaleService) UpdateSale(ctx context.Context, id string, input usecase.SaleInput) (*domain.Sale, error) {
	return &domain.Sale{ID: id}, nil
}

func (stubSaleService) DeleteSale(ctx context.Context, id string) error {
	return nil
}

type stubQuoteService struct{}

func (stubQuoteService) CreateQuote(ctx context.Context, input usecase.QuoteInput) (*domain.Quote, error) {
	return &domain.Quote{ID: "quote"}, nil
}

func (stubQuoteService) GetQuote(ctx context.Context, id string) (*domain.Quote, error) {
	return &domain.Quote{ID: id}, nil
}

func (stubQuoteService) ListQuotes(ctx context.Context, limit, offset int) ([]*domain.Quote, error) {
	return []*domain.Quote{}, nil
}

func (stubQuoteService) UpdateQuote(ctx context.Context, id string, input usecase.QuoteInput) (*domain.Quote, error) {
	return &domain.Quote{ID: id}, nil
}

func (stubQuoteService) RejectQuote(ctx context.Context, id string) (*domain.Quote, error) {
	return &domain.Quote{ID: id}, nil
}

func (stubQuoteService) ConvertQuote(ctx context.Context, id string) (*domain.Sale, error) {
	return &domain.Sale{ID: "sale"}, nil
}

type stubEntryService struct{}

func (stubEntryService) CreateEntry(ctx context.Context, input usecase.EntryInput) (*domain.Entry, error) {
	return &domain.Entry{ID: "entry"}, nil
}

func (stubEntryService) GetEntry(ctx context.Context, id string) (*domain.Entry, error) {
	return &domain.Entry{ID: id}, nil
}

func (stubEntryService) ListEntries(ctx context.Context, filter usecase.EntryFilter) ([]*domain.Entry, error) {
	return []*domain.Entry{}, nil
}

func (stubEntryService) DeleteEntry(ctx context.Context, id string) error {
	return nil
}

type stubPaymentService struct{}

func (stubPaymentService) PayEntry(ctx context.Context, input usecase.PayEntryInput) (*domain.Entry, error) {
	return &domain.Entry{ID: input.EntryID}, nil
}

func (stubPaymentService) PayPartial(ctx context.Context, input usecase.PayPartialInput) (*domain.Entry, *domain.Entry, error) {
	return &domain.Entry{ID: input.EntryID}, nil, nil
}

func (stubPaymentService) ReverseEntry(ctx context.Context, entryID string) (*domain.Entry, error) {
	return &domain.Entry{ID: entryID}, nil
}

type stubSubscriptionService struct{}

func (stubSubscriptionService) CreateSubscription(ctx context.Context, input usecase.SubscriptionInput) (*domain.Subscription, error) {
	return &domain.Subscription{ID: "sub"}, nil
}

func (stubSubscriptionService) GetSubscription(ctx context.Context, id string) (*domain.Subscription, error) {
	return &domain.Subscription{ID: id}, nil
}

func (stubSubscriptionService) ListSubscriptions(ctx context.Context, limit, offset int) ([]*domain.Subscription, error) {
	return []*domain.Subscription{}, nil
}

func (stubSubscriptionService) UpdateSubscription(ctx context.Context, id string, input usecase.SubscriptionInput) (*domain.Subscription, error) {
	return &domain.Subscription{ID: id}, nil
}

func (stubSubscriptionService) DeactivateSubscription(ctx context.Context, id string) (*domain.Subscription, error) {
	return &domain.Subscription{ID: id}, nil
}

func (stubSubscriptionService) ListPeriods(ctx context.Context, id string, from time.Time, months int) ([]usecase.PeriodView, error) {
	return []usecase.PeriodView{}, nil
}

func (stubSubscriptionService) PayPeriod(ctx context.Context, input usecase.PayPeriodInput) (*domain.SubscriptionPayment, error) {
	return &domain.SubscriptionPayment{}, nil
}

func (stubSubscriptionService) SkipPeriod(ctx context.Context, input usecase.SkipPeriodInput) (*domain.SubscriptionPayment, error) {
	return &domain.SubscriptionPayment{}, nil
}

func (stubSubscriptionService) RevertPeriod(ctx context.Context, key domain.PeriodKey) (*domain.SubscriptionPayment, error) {
	return &domain.SubscriptionPayment{}, nil
}

type stubReportService struct{}

func (stubReportService) OpenAccounts(ctx context.Context) ([]usecase.OpenAccount, error) {
	return []usecase.OpenAccount{}, nil
}

func (stubReportService) ReceivedByMonth(ctx context.Context, year int) ([]usecase.MonthTotal, error) {
	return []usecase.MonthTotal{}, nil
}

func (stubReportService) Forecast(ctx context.Context) ([]usecase.ForecastBucket, error) {
	return []usecase.ForecastBucket{}, nil
}

type stubBackupService struct{}

func (stubBackupService) ExportJSON(ctx context.Context) ([]byte, error) {
	return []byte(`{}`), nil
}

func (stubBackupService) ImportJSON(ctx context.Context, raw []byte) (*usecase.ImportCounts, error) {
	return &usecase.ImportCounts{}, nil
}

type stubAuditService struct{}

func (stubAuditService) ListAuditLogs(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	return []*domain.AuditLog{}, nil
}

type stubAuthService struct{}

func (stubAuthService) Authenticate(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error) {
	return &domain.User{ID: "user", Email: input.Email, Role: domain.RoleViewer}, nil
}

type stubTokenIssuer struct{}

func (stubTokenIssuer) Generate(user *domain.User) (string, error) {
	return "token", nil
}

type stubUserService struct{}

func (stubUserService) CreateUser(ctx context.Context, input usecase.CreateUserInput) (*domain.User, error) {
	return &domain.User{ID: "user"}, nil
}

func (stubUserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return &domain.User{ID: id}, nil
}

func (stubUserService) UpdateUser(ctx context.Context, input usecase.UpdateUserInput) (*domain.User, error) {
	return &domain.User{ID: input.ID}, nil
}

func (stubUserService) ListUsers(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	return []*domain.User{}, nil
}

type stubRouterIdempotencyStore struct {
	checkCalled bool
}

func (s *stubRouterIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubRouterIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}
