package usecase

import (
	"context"
	"time"

	"github.com/contasapp/contas/internal/domain"
)

// CustomerRepository defines data access for customers.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*domain.Customer, error)
	ListAll(ctx context.Context) ([]*domain.Customer, error)
	Upsert(ctx context.Context, tx Transaction, customer *domain.Customer) error
}

// SaleRepository defines data access for sales.
type SaleRepository interface {
	Create(ctx context.Context, tx Transaction, sale *domain.Sale) error
	GetByID(ctx context.Context, id string) (*domain.Sale, error)
	Update(ctx context.Context, tx Transaction, sale *domain.Sale) error
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.EntryStatus, updatedAt time.Time) error
	Delete(ctx context.Context, tx Transaction, id string) error
	List(ctx context.Context, limit, offset int) ([]*domain.Sale, error)
	ListAll(ctx context.Context) ([]*domain.Sale, error)
	Upsert(ctx context.Context, tx Transaction, sale *domain.Sale) error
}

// QuoteRepository defines data access for quotes.
type QuoteRepository interface {
	Create(ctx context.Context, quote *domain.Quote) error
	GetByID(ctx context.Context, id string) (*domain.Quote, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Quote, error)
	Update(ctx context.Context, quote *domain.Quote) error
	MarkConverted(ctx context.Context, tx Transaction, id, saleID string, at time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Quote, error)
	ListAll(ctx context.Context) ([]*domain.Quote, error)
	Upsert(ctx context.Context, tx Transaction, quote *domain.Quote) error
}

// EntryFilter narrows entry listings.
type EntryFilter struct {
	Type   domain.EntryType
	Status domain.EntryStatus
	Limit  int
	Offset int
}

// EntryRepository defines data access for financial entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) error
	GetByID(ctx context.Context, id string) (*domain.Entry, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Entry, error)
	Update(ctx context.Context, tx Transaction, entry *domain.Entry) error
	Delete(ctx context.Context, tx Transaction, id string) error
	DeleteBySale(ctx context.Context, tx Transaction, saleID string) error
	ListBySale(ctx context.Context, saleID string) ([]*domain.Entry, error)
	ListBySaleForUpdate(ctx context.Context, tx Transaction, saleID string) ([]*domain.Entry, error)
	List(ctx context.Context, filter EntryFilter) ([]*domain.Entry, error)
	ListOpenIncome(ctx context.Context) ([]*domain.Entry, error)
	ListPaidIncomeByYear(ctx context.Context, year int) ([]*domain.Entry, error)
	ListDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Entry, error)
	ListAll(ctx context.Context) ([]*domain.Entry, error)
	Upsert(ctx context.Context, tx Transaction, entry *domain.Entry) error
}

// SubscriptionRepository defines data access for subscriptions.
type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *domain.Subscription) error
	GetByID(ctx context.Context, id string) (*domain.Subscription, error)
	Update(ctx context.Context, subscription *domain.Subscription) error
	List(ctx context.Context, limit, offset int) ([]*domain.Subscription, error)
	ListActive(ctx context.Context) ([]*domain.Subscription, error)
	ListAll(ctx context.Context) ([]*domain.Subscription, error)
	Upsert(ctx context.Context, tx Transaction, subscription *domain.Subscription) error
}

// SubscriptionPaymentRepository defines data access for materialized
// subscription periods.
type SubscriptionPaymentRepository interface {
	Create(ctx context.Context, tx Transaction, payment *domain.SubscriptionPayment) error
	GetByPeriod(ctx context.Context, key domain.PeriodKey) (*domain.SubscriptionPayment, error)
	GetByPeriodForUpdate(ctx context.Context, tx Transaction, key domain.PeriodKey) (*domain.SubscriptionPayment, error)
	Update(ctx context.Context, tx Transaction, payment *domain.SubscriptionPayment) error
	ListBySubscription(ctx context.Context, subscriptionID string) ([]*domain.SubscriptionPayment, error)
	// ListEntryRefs returns the ids of every entry referenced by a
	// subscription payment record; open-accounts uses it to avoid double
	// counting.
	ListEntryRefs(ctx context.Context) (map[string]bool, error)
	ListAll(ctx context.Context) ([]*domain.SubscriptionPayment, error)
	Upsert(ctx context.Context, tx Transaction, payment *domain.SubscriptionPayment) error
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	List(ctx context.Context, limit, offset int) ([]*domain.User, error)
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries an operation on transient failures such as database
// deadlocks.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
