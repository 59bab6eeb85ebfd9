package domain

import "errors"

var (
	// Entry errors
	ErrEntryNotFound        = errors.New("entry not found")
	ErrEntryNotPaid         = errors.New("entry is not paid")
	ErrEntryNotOpen         = errors.New("entry is not open")
	ErrInvalidEntryType     = errors.New("invalid entry type")
	ErrInvalidStatus        = errors.New("invalid payment status")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrAmountExceedsBalance = errors.New("amount exceeds remaining balance")
	ErrSubscriptionEntry    = errors.New("subscription period entries are reverted through the subscription")
	ErrEntryHasParent       = errors.New("entry belongs to a sale and is managed through it")
	ErrInvariantViolated    = errors.New("entry balance invariant violated")

	// Sale and quote errors
	ErrSaleNotFound          = errors.New("sale not found")
	ErrQuoteNotFound         = errors.New("quote not found")
	ErrQuoteAlreadyConverted = errors.New("quote already converted to a sale")
	ErrInvalidInstallments   = errors.New("invalid installment plan")

	// Subscription errors
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrPeriodNotFound       = errors.New("subscription period not found")
	ErrPeriodAlreadyPaid    = errors.New("subscription period already paid")
	ErrPeriodSkipped        = errors.New("subscription period is skipped")
	ErrInvalidPeriod        = errors.New("invalid subscription period")

	// Customer errors
	ErrCustomerNotFound = errors.New("customer not found")
	ErrInvalidDocument  = errors.New("invalid CPF/CNPJ document")

	// Infrastructure errors
	ErrEventNotFound = errors.New("outbox event not found")
	ErrCacheMiss     = errors.New("cache miss")

	// Auth errors
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token expired")
)
