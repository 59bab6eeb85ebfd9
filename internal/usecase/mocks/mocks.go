package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/contasapp/contas/internal/domain"
	"github.com/contasapp/contas/internal/usecase"
)

// MockCustomerRepository is a mock implementation of CustomerRepository.
type MockCustomerRepository struct {
	mu        sync.RWMutex
	customers map[string]*domain.Customer

	CreateFunc  func(ctx context.Context, customer *domain.Customer) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.Customer, error)
	UpdateFunc  func(ctx context.Context, customer *domain.Customer) error
	DeleteFunc  func(ctx context.Context, id string) error
	ListFunc    func(ctx context.Context, limit, offset int) ([]*domain.Customer, error)
	ListAllFunc func(ctx context.Context) ([]*domain.Customer, error)
	UpsertFunc  func(ctx context.Context, tx usecase.Transaction, customer *domain.Customer) error
}

func NewMockCustomerRepository() *MockCustomerRepository {
	return &MockCustomerRepository{
		customers: make(map[string]*domain.Customer),
	}
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, customer)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[customer.ID] = customer
	return nil
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.customers[id]; ok {
		return c, nil
	}
	return nil, domain.ErrCustomerNotFound
}

func (m *MockCustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, customer)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[customer.ID]; !ok {
		return domain.ErrCustomerNotFound
	}
	m.customers[customer.ID] = customer
	return nil
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[id]; !ok {
		return domain.ErrCustomerNotFound
	}
	delete(m.customers, id)
	return nil
}

func (m *MockCustomerRepository) List(ctx context.Context, limit, offset int) ([]*domain.Customer, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Customer, 0, len(m.customers))
	for _, c := range m.customers {
		out = append(out, c)
	}
	return out, nil
}

func (m *MockCustomerRepository) ListAll(ctx context.Context) ([]*domain.Customer, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return m.List(ctx, 0, 0)
}

func (m *MockCustomerRepository) Upsert(ctx context.Context, tx usecase.Transaction, customer *domain.Customer) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, tx, customer)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[customer.ID] = customer
	return nil
}

// MockSaleRepository is a mock implementation of SaleRepository.
type MockSaleRepository struct {
	mu    sync.RWMutex
	sales map[string]*domain.Sale

	CreateFunc       func(ctx context.Context, tx usecase.Transaction, sale *domain.Sale) error
	GetByIDFunc      func(ctx context.Context, id string) (*domain.Sale, error)
	UpdateFunc       func(ctx context.Context, tx usecase.Transaction, sale *domain.Sale) error
	UpdateStatusFunc func(ctx context.Context, tx usecase.Transaction, id string, status domain.EntryStatus, updatedAt time.Time) error
	DeleteFunc       func(ctx context.Context, tx usecase.Transaction, id string) error
	ListFunc         func(ctx context.Context, limit, offset int) ([]*domain.Sale, error)
	ListAllFunc      func(ctx context.Context) ([]*domain.Sale, error)
	UpsertFunc       func(ctx context.Context, tx usecase.Transaction, sale *domain.Sale) error
}

func NewMockSaleRepository() *MockSaleRepository {
	return &MockSaleRepository{
		sales: make(map[string]*domain.Sale),
	}
}

func (m *MockSaleRepository) Create(ctx context.Context, tx usecase.Transaction, sale *domain.Sale) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, sale)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sales[sale.ID] = sale
	return nil
}

func (m *MockSaleRepository) GetByID(ctx context.Context, id string) (*domain.Sale, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sales[id]; ok {
		return s, nil
	}
	return nil, domain.ErrSaleNotFound
}

func (m *MockSaleRepository) Update(ctx context.Context, tx usecase.Transaction, sale *domain.Sale) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, sale)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sales[sale.ID]; !ok {
		return domain.ErrSaleNotFound
	}
	m.sales[sale.ID] = sale
	return nil
}

func (m *MockSaleRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.EntryStatus, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sales[id]
	if !ok {
		return domain.ErrSaleNotFound
	}
	s.Status = status
	s.UpdatedAt = updatedAt
	return nil
}

func (m *MockSaleRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sales[id]; !ok {
		return domain.ErrSaleNotFound
	}
	delete(m.sales, id)
	return nil
}

func (m *MockSaleRepository) List(ctx context.Context, limit, offset int) ([]*domain.Sale, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return m.ListAll(ctx)
}

func (m *MockSaleRepository) ListAll(ctx context.Context) ([]*domain.Sale, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Sale, 0, len(m.sales))
	for _, s := range m.sales {
		out = append(out, s)
	}
	return out, nil
}

func (m *MockSaleRepository) Upsert(ctx context.Context, tx usecase.Transaction, sale *domain.Sale) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, tx, sale)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sales[sale.ID] = sale
	return nil
}

// MockQuoteRepository is a mock implementation of QuoteRepository.
type MockQuoteRepository struct {
	mu     sync.RWMutex
	quotes map[string]*domain.Quote

	CreateFunc           func(ctx context.Context, quote *domain.Quote) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Quote, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Quote, error)
	UpdateFunc           func(ctx context.Context, quote *domain.Quote) error
	MarkConvertedFunc    func(ctx context.Context, tx usecase.Transaction, id, saleID string, at time.Time) error
	ListFunc             func(ctx context.Context, limit, offset int) ([]*domain.Quote, error)
	ListAllFunc          func(ctx context.Context) ([]*domain.Quote, error)
	UpsertFunc           func(ctx context.Context, tx usecase.Transaction, quote *domain.Quote) error
}

func NewMockQuoteRepository() *MockQuoteRepository {
	return &MockQuoteRepository{
		quotes: make(map[string]*domain.Quote),
	}
}

func (m *MockQuoteRepository) Create(ctx context.Context, quote *domain.Quote) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, quote)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quotes[quote.ID] = quote
	return nil
}

func (m *MockQuoteRepository) GetByID(ctx context.Context, id string) (*domain.Quote, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if q, ok := m.quotes[id]; ok {
		return q, nil
	}
	return nil, domain.ErrQuoteNotFound
}

func (m *MockQuoteRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Quote, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockQuoteRepository) Update(ctx context.Context, quote *domain.Quote) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, quote)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.quotes[quote.ID]; !ok {
		return domain.ErrQuoteNotFound
	}
	m.quotes[quote.ID] = quote
	return nil
}

func (m *MockQuoteRepository) MarkConverted(ctx context.Context, tx usecase.Transaction, id, saleID string, at time.Time) error {
	if m.MarkConvertedFunc != nil {
		return m.MarkConvertedFunc(ctx, tx, id, saleID, at)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.quotes[id]
	if !ok {
		return domain.ErrQuoteNotFound
	}
	q.Status = domain.QuoteStatusConverted
	q.SaleID = &saleID
	q.UpdatedAt = at
	return nil
}

func (m *MockQuoteRepository) List(ctx context.Context, limit, offset int) ([]*domain.Quote, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return m.ListAll(ctx)
}

func (m *MockQuoteRepository) ListAll(ctx context.Context) ([]*domain.Quote, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Quote, 0, len(m.quotes))
	for _, q := range m.quotes {
		out = append(out, q)
	}
	return out, nil
}

func (m *MockQuoteRepository) Upsert(ctx context.Context, tx usecase.Transaction, quote *domain.Quote) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, tx, quote)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quotes[quote.ID] = quote
	return nil
}

// MockEntryRepository is a mock implementation of EntryRepository.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries map[string]*domain.Entry

	CreateFunc               func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error
	GetByIDFunc              func(ctx context.Context, id string) (*domain.Entry, error)
	GetByIDForUpdateFunc     func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Entry, error)
	UpdateFunc               func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error
	DeleteFunc               func(ctx context.Context, tx usecase.Transaction, id string) error
	DeleteBySaleFunc         func(ctx context.Context, tx usecase.Transaction, saleID string) error
	ListBySaleFunc           func(ctx context.Context, saleID string) ([]*domain.Entry, error)
	ListBySaleForUpdateFunc  func(ctx context.Context, tx usecase.Transaction, saleID string) ([]*domain.Entry, error)
	ListFunc                 func(ctx context.Context, filter usecase.EntryFilter) ([]*domain.Entry, error)
	ListOpenIncomeFunc       func(ctx context.Context) ([]*domain.Entry, error)
	ListPaidIncomeByYearFunc func(ctx context.Context, year int) ([]*domain.Entry, error)
	ListDueBetweenFunc       func(ctx context.Context, from, to time.Time) ([]*domain.Entry, error)
	ListAllFunc              func(ctx context.Context) ([]*domain.Entry, error)
	UpsertFunc               func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{
		entries: make(map[string]*domain.Entry),
	}
}

// Seed stores entries directly, bypassing any configured func overrides.
func (m *MockEntryRepository) Seed(entries ...*domain.Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		m.entries[e.ID] = e
	}
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID] = entry
	return nil
}

func (m *MockEntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockEntryRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Entry, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockEntryRepository) Update(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[entry.ID]; !ok {
		return domain.ErrEntryNotFound
	}
	m.entries[entry.ID] = entry
	return nil
}

func (m *MockEntryRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; !ok {
		return domain.ErrEntryNotFound
	}
	delete(m.entries, id)
	return nil
}

func (m *MockEntryRepository) DeleteBySale(ctx context.Context, tx usecase.Transaction, saleID string) error {
	if m.DeleteBySaleFunc != nil {
		return m.DeleteBySaleFunc(ctx, tx, saleID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, e := range m.entries {
		if e.SaleID != nil && *e.SaleID == saleID {
			delete(m.entries, id)
		}
	}
	return nil
}

func (m *MockEntryRepository) ListBySale(ctx context.Context, saleID string) ([]*domain.Entry, error) {
	if m.ListBySaleFunc != nil {
		return m.ListBySaleFunc(ctx, saleID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Entry
	for _, e := range m.entries {
		if e.SaleID != nil && *e.SaleID == saleID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockEntryRepository) ListBySaleForUpdate(ctx context.Context, tx usecase.Transaction, saleID string) ([]*domain.Entry, error) {
	if m.ListBySaleForUpdateFunc != nil {
		return m.ListBySaleForUpdateFunc(ctx, tx, saleID)
	}
	return m.ListBySale(ctx, saleID)
}

func (m *MockEntryRepository) List(ctx context.Context, filter usecase.EntryFilter) ([]*domain.Entry, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Entry
	for _, e := range m.entries {
		if filter.Type != "" && e.Type != filter.Type {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *MockEntryRepository) ListOpenIncome(ctx context.Context) ([]*domain.Entry, error) {
	if m.ListOpenIncomeFunc != nil {
		return m.ListOpenIncomeFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Entry
	for _, e := range m.entries {
		if e.Type == domain.EntryTypeIncome && e.Status != domain.StatusPaid {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockEntryRepository) ListPaidIncomeByYear(ctx context.Context, year int) ([]*domain.Entry, error) {
	if m.ListPaidIncomeByYearFunc != nil {
		return m.ListPaidIncomeByYearFunc(ctx, year)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Entry
	for _, e := range m.entries {
		if e.Type == domain.EntryTypeIncome && e.Status == domain.StatusPaid && e.PaidAt != nil && e.PaidAt.Year() == year {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockEntryRepository) ListDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Entry, error) {
	if m.ListDueBetweenFunc != nil {
		return m.ListDueBetweenFunc(ctx, from, to)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Entry
	for _, e := range m.entries {
		if e.DueDate == nil {
			continue
		}
		if !e.DueDate.Before(from) && e.DueDate.Before(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockEntryRepository) ListAll(ctx context.Context) ([]*domain.Entry, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Entry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	return out, nil
}

func (m *MockEntryRepository) Upsert(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID] = entry
	return nil
}

// MockSubscriptionRepository is a mock implementation of SubscriptionRepository.
type MockSubscriptionRepository struct {
	mu            sync.RWMutex
	subscriptions map[string]*domain.Subscription

	CreateFunc     func(ctx context.Context, subscription *domain.Subscription) error
	GetByIDFunc    func(ctx context.Context, id string) (*domain.Subscription, error)
	UpdateFunc     func(ctx context.Context, subscription *domain.Subscription) error
	ListFunc       func(ctx context.Context, limit, offset int) ([]*domain.Subscription, error)
	ListActiveFunc func(ctx context.Context) ([]*domain.Subscription, error)
	ListAllFunc    func(ctx context.Context) ([]*domain.Subscription, error)
	UpsertFunc     func(ctx context.Context, tx usecase.Transaction, subscription *domain.Subscription) error
}

func NewMockSubscriptionRepository() *MockSubscriptionRepository {
	return &MockSubscriptionRepository{
		subscriptions: make(map[string]*domain.Subscription),
	}
}

func (m *MockSubscriptionRepository) Create(ctx context.Context, subscription *domain.Subscription) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, subscription)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscriptions[subscription.ID] = subscription
	return nil
}

func (m *MockSubscriptionRepository) GetByID(ctx context.Context, id string) (*domain.Subscription, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.subscriptions[id]; ok {
		return s, nil
	}
	return nil, domain.ErrSubscriptionNotFound
}

func (m *MockSubscriptionRepository) Update(ctx context.Context, subscription *domain.Subscription) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, subscription)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subscriptions[subscription.ID]; !ok {
		return domain.ErrSubscriptionNotFound
	}
	m.subscriptions[subscription.ID] = subscription
	return nil
}

func (m *MockSubscriptionRepository) List(ctx context.Context, limit, offset int) ([]*domain.Subscription, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return m.ListAll(ctx)
}

func (m *MockSubscriptionRepository) ListActive(ctx context.Context) ([]*domain.Subscription, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Subscription
	for _, s := range m.subscriptions {
		if s.Active {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MockSubscriptionRepository) ListAll(ctx context.Context) ([]*domain.Subscription, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Subscription, 0, len(m.subscriptions))
	for _, s := range m.subscriptions {
		out = append(out, s)
	}
	return out, nil
}

func (m *MockSubscriptionRepository) Upsert(ctx context.Context, tx usecase.Transaction, subscription *domain.Subscription) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, tx, subscription)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscriptions[subscription.ID] = subscription
	return nil
}

// MockSubscriptionPaymentRepository is a mock implementation of
// SubscriptionPaymentRepository keyed by subscription id and period.
type MockSubscriptionPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.SubscriptionPayment

	CreateFunc             func(ctx context.Context, tx usecase.Transaction, payment *domain.SubscriptionPayment) error
	GetByPeriodFunc        func(ctx context.Context, key domain.PeriodKey) (*domain.SubscriptionPayment, error)
	GetByPeriodForUpdateFn func(ctx context.Context, tx usecase.Transaction, key domain.PeriodKey) (*domain.SubscriptionPayment, error)
	UpdateFunc             func(ctx context.Context, tx usecase.Transaction, payment *domain.SubscriptionPayment) error
	ListBySubscriptionFunc func(ctx context.Context, subscriptionID string) ([]*domain.SubscriptionPayment, error)
	ListEntryRefsFunc      func(ctx context.Context) (map[string]bool, error)
	ListAllFunc            func(ctx context.Context) ([]*domain.SubscriptionPayment, error)
	UpsertFunc             func(ctx context.Context, tx usecase.Transaction, payment *domain.SubscriptionPayment) error
}

func NewMockSubscriptionPaymentRepository() *MockSubscriptionPaymentRepository {
	return &MockSubscriptionPaymentRepository{
		payments: make(map[string]*domain.SubscriptionPayment),
	}
}

func periodMapKey(subscriptionID string, year, month int) string {
	return fmt.Sprintf("%s/%04d-%02d", subscriptionID, year, month)
}

func (m *MockSubscriptionPaymentRepository) Create(ctx context.Context, tx usecase.Transaction, payment *domain.SubscriptionPayment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, payment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[periodMapKey(payment.SubscriptionID, payment.Year, payment.Month)] = payment
	return nil
}

func (m *MockSubscriptionPaymentRepository) GetByPeriod(ctx context.Context, key domain.PeriodKey) (*domain.SubscriptionPayment, error) {
	if m.GetByPeriodFunc != nil {
		return m.GetByPeriodFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.payments[periodMapKey(key.SubscriptionID, key.Year, key.Month)]; ok {
		return p, nil
	}
	return nil, domain.ErrPeriodNotFound
}

func (m *MockSubscriptionPaymentRepository) GetByPeriodForUpdate(ctx context.Context, tx usecase.Transaction, key domain.PeriodKey) (*domain.SubscriptionPayment, error) {
	if m.GetByPeriodForUpdateFn != nil {
		return m.GetByPeriodForUpdateFn(ctx, tx, key)
	}
	return m.GetByPeriod(ctx, key)
}

func (m *MockSubscriptionPaymentRepository) Update(ctx context.Context, tx usecase.Transaction, payment *domain.SubscriptionPayment) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, payment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	k := periodMapKey(payment.SubscriptionID, payment.Year, payment.Month)
	if _, ok := m.payments[k]; !ok {
		return domain.ErrPeriodNotFound
	}
	m.payments[k] = payment
	return nil
}

func (m *MockSubscriptionPaymentRepository) ListBySubscription(ctx context.Context, subscriptionID string) ([]*domain.SubscriptionPayment, error) {
	if m.ListBySubscriptionFunc != nil {
		return m.ListBySubscriptionFunc(ctx, subscriptionID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.SubscriptionPayment
	for _, p := range m.payments {
		if p.SubscriptionID == subscriptionID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MockSubscriptionPaymentRepository) ListEntryRefs(ctx context.Context) (map[string]bool, error) {
	if m.ListEntryRefsFunc != nil {
		return m.ListEntryRefsFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	refs := make(map[string]bool)
	for _, p := range m.payments {
		if p.EntryID != nil {
			refs[*p.EntryID] = true
		}
	}
	return refs, nil
}

func (m *MockSubscriptionPaymentRepository) ListAll(ctx context.Context) ([]*domain.SubscriptionPayment, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.SubscriptionPayment, 0, len(m.payments))
	for _, p := range m.payments {
		out = append(out, p)
	}
	return out, nil
}

func (m *MockSubscriptionPaymentRepository) Upsert(ctx context.Context, tx usecase.Transaction, payment *domain.SubscriptionPayment) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, tx, payment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[periodMapKey(payment.SubscriptionID, payment.Year, payment.Month)] = payment
	return nil
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	CreateFunc     func(ctx context.Context, user *domain.User) error
	GetByIDFunc    func(ctx context.Context, id string) (*domain.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
	UpdateFunc     func(ctx context.Context, user *domain.User) error
	ListFunc       func(ctx context.Context, limit, offset int) ([]*domain.User, error)
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu   sync.RWMutex
	logs []*domain.AuditLog

	CreateFunc   func(ctx context.Context, log *domain.AuditLog) error
	CreateTxFunc func(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error
	ListFunc     func(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, log)
	}
	return m.Create(ctx, log)
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.AuditLog, len(m.logs))
	copy(out, m.logs)
	return out, nil
}

// Logs returns the audit logs recorded so far.
func (m *MockAuditRepository) Logs() []*domain.AuditLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.AuditLog, len(m.logs))
	copy(out, m.logs)
	return out
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc          func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
	GetUnpublishedFunc  func(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublishedFunc   func(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublishedFunc func(ctx context.Context, before time.Time) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if m.GetUnpublishedFunc != nil {
		return m.GetUnpublishedFunc(ctx, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.OutboxEvent
	for _, e := range m.events {
		if e.PublishedAt == nil {
			out = append(out, e)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id, publishedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.PublishedAt = &publishedAt
			return nil
		}
	}
	return domain.ErrEventNotFound
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	if m.DeletePublishedFunc != nil {
		return m.DeletePublishedFunc(ctx, before)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.events[:0]
	for _, e := range m.events {
		if e.PublishedAt == nil || !e.PublishedAt.Before(before) {
			kept = append(kept, e)
		}
	}
	m.events = kept
	return nil
}

// Events returns the outbox events recorded so far.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.OutboxEvent, len(m.events))
	copy(out, m.events)
	return out
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockCache is a mock implementation of Cache.
type MockCache struct {
	mu   sync.RWMutex
	data map[string][]byte

	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{
		data: make(map[string][]byte),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}
