package domain

import "time"

// Event types
const (
	EventTypeEntryPaid          = "entry.paid"
	EventTypeEntryPartiallyPaid = "entry.partially_paid"
	EventTypeEntryReversed      = "entry.reversed"
	EventTypeSaleCreated        = "sale.created"
	EventTypeQuoteConverted     = "quote.converted"
	EventTypePeriodPaid         = "subscription_period.paid"
	EventTypePeriodSkipped      = "subscription_period.skipped"
	EventTypePeriodReverted     = "subscription_period.reverted"
)

// Aggregate types
const (
	AggregateTypeEntry        = "entry"
	AggregateTypeSale         = "sale"
	AggregateTypeQuote        = "quote"
	AggregateTypeSubscription = "subscription"
)

// OutboxEvent represents an event to be published.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// EntryPaidEvent payload
type EntryPaidEvent struct {
	EntryID string `json:"entry_id"`
	SaleID  string `json:"sale_id,omitempty"`
	Amount  string `json:"amount"`
	Method  string `json:"method"`
}

// EntryPartiallyPaidEvent payload
type EntryPartiallyPaidEvent struct {
	EntryID   string `json:"entry_id"`
	MarkerID  string `json:"marker_id"`
	Paid      string `json:"paid"`
	Remaining string `json:"remaining"`
}

// EntryReversedEvent payload
type EntryReversedEvent struct {
	EntryID  string `json:"entry_id"`
	Amount   string `json:"amount"`
	WasMerge bool   `json:"was_merge"`
}

// PeriodPaidEvent payload
type PeriodPaidEvent struct {
	SubscriptionID string `json:"subscription_id"`
	Month          int    `json:"month"`
	Year           int    `json:"year"`
	EntryID        string `json:"entry_id"`
	Amount         string `json:"amount"`
}

// PeriodSkippedEvent payload
type PeriodSkippedEvent struct {
	SubscriptionID string `json:"subscription_id"`
	Month          int    `json:"month"`
	Year           int    `json:"year"`
	Reason         string `json:"reason"`
}
