package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/khatahub/khata/internal/domain"
)

// CustomerRepository defines data access for customers.
type CustomerRepository interface {
	Create(ctx context.Context, tx Transaction, customer *domain.Customer) error
	GetByID(ctx context.Context, ownerID, id string) (*domain.Customer, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, ownerID, id string) (*domain.Customer, error)
	UpdateContact(ctx context.Context, tx Transaction, customer *domain.Customer) error
	// UpdateBalance applies a version-checked balance write. It fails with
	// domain.ErrStaleWrite when expectedVersion no longer matches the row.
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, expectedVersion int64, updatedAt time.Time) error
	Delete(ctx context.Context, tx Transaction, ownerID, id string) error
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Customer, error)
}

// EventRepository defines data access for ledger events.
type EventRepository interface {
	CreateBatch(ctx context.Context, tx Transaction, events []*domain.LedgerEvent) error
	ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*domain.LedgerEvent, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.LedgerEvent, error)
	DeleteByCustomer(ctx context.Context, tx Transaction, customerID string) error
}

// SummaryRepository defines aggregate queries over an owner's book.
type SummaryRepository interface {
	// Totals returns the sum of positive balances, the absolute sum of
	// negative balances, and the number of customers for an owner.
	Totals(ctx context.Context, ownerID string) (receivable, payable decimal.Decimal, customers int64, err error)
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByMobile(ctx context.Context, mobile string) (*domain.User, error)
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

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation on transient conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
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
