package usecase

import (
	"context"
	"time"

	"github.com/contasapp/contas/internal/domain"
)

// CustomerUseCase manages the customer registry.
type CustomerUseCase struct {
	customerRepo CustomerRepository
	idGen        IDGenerator
}

// NewCustomerUseCase creates a new CustomerUseCase.
func NewCustomerUseCase(customerRepo CustomerRepository, idGen IDGenerator) *CustomerUseCase {
	return &CustomerUseCase{customerRepo: customerRepo, idGen: idGen}
}

// CustomerInput carries the fields of a customer.
type CustomerInput struct {
	Name     string
	Document string
	Email    string
	Phone    string
	Address  string
	City     string
	State    string
	Notes    string
}

func applyCustomerInput(c *domain.Customer, input CustomerInput) {
	c.Name = input.Name
	c.Document = input.Document
	c.Email = input.Email
	c.Phone = input.Phone
	c.Address = input.Address
	c.City = input.City
	c.State = input.State
	c.Notes = input.Notes
}

// CreateCustomer registers a new customer. The document, when given, must
// be a valid CPF or CNPJ.
func (uc *CustomerUseCase) CreateCustomer(ctx context.Context, input CustomerInput) (*domain.Customer, error) {
	now := time.Now().UTC()
	customer := &domain.Customer{
		ID:        uc.idGen.Generate(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyCustomerInput(customer, input)

	if err := customer.Validate(); err != nil {
		return nil, err
	}
	if err := uc.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer returns a customer by id.
func (uc *CustomerUseCase) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return uc.customerRepo.GetByID(ctx, id)
}

// ListCustomers returns a page of customers.
func (uc *CustomerUseCase) ListCustomers(ctx context.Context, limit, offset int) ([]*domain.Customer, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.customerRepo.List(ctx, limit, offset)
}

// UpdateCustomer replaces the customer's fields.
func (uc *CustomerUseCase) UpdateCustomer(ctx context.Context, id string, input CustomerInput) (*domain.Customer, error) {
	customer, err := uc.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyCustomerInput(customer, input)
	customer.UpdatedAt = time.Now().UTC()

	if err := customer.Validate(); err != nil {
		return nil, err
	}
	if err := uc.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// DeleteCustomer removes a customer from the registry.
func (uc *CustomerUseCase) DeleteCustomer(ctx context.Context, id string) error {
	return uc.customerRepo.Delete(ctx, id)
}
