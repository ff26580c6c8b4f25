package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/khatahub/khata/internal/domain"
	"github.com/khatahub/khata/internal/usecase"
)

// CustomerResponse represents a customer in API responses. State reports
// the sign of the balance: receivable, payable or settled.
type CustomerResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Mobile    string          `json:"mobile,omitempty"`
	Address   string          `json:"address,omitempty"`
	Balance   decimal.Decimal `json:"balance"`
	State     string          `json:"state"`
	Version   int64           `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CustomerFromDomain converts domain customer to response.
func CustomerFromDomain(c *domain.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Mobile:    c.Mobile,
		Address:   c.Address,
		Balance:   c.Balance,
		State:     balanceState(c),
		Version:   c.Version,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// CustomersFromDomain converts domain customers to responses.
func CustomersFromDomain(customers []*domain.Customer) []*CustomerResponse {
	result := make([]*CustomerResponse, len(customers))
	for i, c := range customers {
		result[i] = CustomerFromDomain(c)
	}
	return result
}

func balanceState(c *domain.Customer) string {
	switch {
	case c.Receivable():
		return "receivable"
	case c.Payable():
		return "payable"
	default:
		return "settled"
	}
}

// ListCustomersResponse wraps a page of customers.
type ListCustomersResponse struct {
	Customers []*CustomerResponse `json:"customers"`
	Total     int64               `json:"total"`
}

// EventResponse represents one ledger event in API responses.
type EventResponse struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
	Direction  string          `json:"direction"`
	Label      string          `json:"label"`
	Timestamp  time.Time       `json:"timestamp"`
}

// EventFromDomain converts domain event to response.
func EventFromDomain(e *domain.LedgerEvent) *EventResponse {
	return &EventResponse{
		ID:         e.ID,
		CustomerID: e.CustomerID,
		Amount:     e.Amount,
		Direction:  string(e.Direction),
		Label:      string(e.Label),
		Timestamp:  e.Timestamp,
	}
}

// EventsFromDomain converts domain events to responses.
func EventsFromDomain(events []*domain.LedgerEvent) []*EventResponse {
	result := make([]*EventResponse, len(events))
	for i, e := range events {
		result[i] = EventFromDomain(e)
	}
	return result
}

// ListEventsResponse wraps a page of events.
type ListEventsResponse struct {
	Events []*EventResponse `json:"events"`
	Total  int64            `json:"total"`
}

// TransactionResponse is the outcome of recording a transaction: the
// updated customer plus every event the reconciliation produced.
type TransactionResponse struct {
	Customer *CustomerResponse `json:"customer"`
	Events   []*EventResponse  `json:"events"`
}

// TransactionFromResult converts a use case result to a response.
func TransactionFromResult(r *usecase.RecordTransactionResult) *TransactionResponse {
	return &TransactionResponse{
		Customer: CustomerFromDomain(r.Customer),
		Events:   EventsFromDomain(r.Events),
	}
}

// UserResponse represents an owner in API responses.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Mobile    string    `json:"mobile"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFromDomain converts domain user to response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Mobile:    u.Mobile,
		CreatedAt: u.CreatedAt,
	}
}

// AuthResponse carries a fresh token after registration or login.
type AuthResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
