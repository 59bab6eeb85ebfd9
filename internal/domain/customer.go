package domain

import "time"

// Customer is a client of the business. Document holds a CPF or CNPJ.
type Customer struct {
	ID        string
	Name      string
	Document  string
	Email     string
	Phone     string
	Address   string
	City      string
	State     string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the customer fields before any write.
func (c *Customer) Validate() error {
	if err := ValidateName(c.Name); err != nil {
		return err
	}
	if c.Document != "" {
		if err := ValidateDocument(c.Document); err != nil {
			return err
		}
	}
	if c.Email != "" {
		if err := ValidateEmail(c.Email); err != nil {
			return err
		}
	}
	return nil
}
