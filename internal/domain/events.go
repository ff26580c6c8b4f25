package domain

import "time"

// Event types
const (
	EventTypeCustomerCreated     = "customer.created"
	EventTypeCustomerUpdated     = "customer.updated"
	EventTypeCustomerDeleted     = "customer.deleted"
	EventTypeTransactionRecorded = "transaction.recorded"
)

// Aggregate types
const (
	AggregateTypeCustomer = "customer"
)

// OutboxEvent represents a change notification to be published.
type OutboxEvent struct {
	ID            string
	OwnerID       string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// CustomerChangedEvent payload published for every customer mutation. It
// carries enough for a list view to refresh without a full reload.
type CustomerChangedEvent struct {
	CustomerID string `json:"customer_id"`
	OwnerID    string `json:"owner_id"`
	Balance    string `json:"balance"`
	Version    int64  `json:"version"`
}

// TransactionRecordedEvent payload
type TransactionRecordedEvent struct {
	CustomerID string `json:"customer_id"`
	OwnerID    string `json:"owner_id"`
	Direction  string `json:"direction"`
	Amount     string `json:"amount"`
	NewBalance string `json:"new_balance"`
	EventCount int    `json:"event_count"`
}
