package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/khatahub/khata/internal/domain"
)

// CustomerUseCase handles customer book-keeping: contacts are mutable at
// any time, balances only move through the transaction use case.
type CustomerUseCase struct {
	txManager    TransactionManager
	customerRepo CustomerRepository
	eventRepo    EventRepository
	outboxRepo   OutboxRepository
	idGen        IDGenerator
	cache        Cache
}

// NewCustomerUseCase creates a new CustomerUseCase.
func NewCustomerUseCase(
	txManager TransactionManager,
	customerRepo CustomerRepository,
	eventRepo EventRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	cache Cache,
) *CustomerUseCase {
	return &CustomerUseCase{
		txManager:    txManager,
		customerRepo: customerRepo,
		eventRepo:    eventRepo,
		outboxRepo:   outboxRepo,
		idGen:        idGen,
		cache:        cache,
	}
}

// CreateCustomerInput represents input for adding a customer.
type CreateCustomerInput struct {
	OwnerID string
	Name    string
	Mobile  string
	Address string
}

// CreateCustomer adds a new customer with a zero balance.
func (uc *CustomerUseCase) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*domain.Customer, error) {
	if err := validateContact(input.Name, input.Mobile, input.Address); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	customer := &domain.Customer{
		ID:        uc.idGen.Generate(),
		OwnerID:   input.OwnerID,
		Name:      strings.TrimSpace(input.Name),
		Mobile:    strings.TrimSpace(input.Mobile),
		Address:   strings.TrimSpace(input.Address),
		Balance:   decimal.Zero,
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.customerRepo.Create(ctx, tx, customer); err != nil {
		return nil, err
	}

	if err := uc.outboxRepo.Create(ctx, tx, uc.changeEvent(customer, domain.EventTypeCustomerCreated, now)); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return customer, nil
}

// GetCustomer retrieves one of the owner's customers by ID.
func (uc *CustomerUseCase) GetCustomer(ctx context.Context, ownerID, id string) (*domain.Customer, error) {
	return uc.customerRepo.GetByID(ctx, ownerID, id)
}

// ListCustomersInput represents input for listing customers.
type ListCustomersInput struct {
	OwnerID string
	Limit   int
	Offset  int
}

// ListCustomers lists the owner's customers with pagination.
func (uc *CustomerUseCase) ListCustomers(ctx context.Context, input ListCustomersInput) ([]*domain.Customer, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.customerRepo.ListByOwner(ctx, input.OwnerID, limit, offset)
}

// UpdateContactInput represents input for editing contact metadata.
type UpdateContactInput struct {
	OwnerID    string
	CustomerID string
	Name       string
	Mobile     string
	Address    string
}

// UpdateContact edits a customer's contact metadata. Balance and history
// are untouched.
func (uc *CustomerUseCase) UpdateContact(ctx context.Context, input UpdateContactInput) (*domain.Customer, error) {
	if err := validateContact(input.Name, input.Mobile, input.Address); err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	customer, err := uc.customerRepo.GetByIDForUpdate(ctx, tx, input.OwnerID, input.CustomerID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	customer.Name = strings.TrimSpace(input.Name)
	customer.Mobile = strings.TrimSpace(input.Mobile)
	customer.Address = strings.TrimSpace(input.Address)
	customer.UpdatedAt = now

	if err := uc.customerRepo.UpdateContact(ctx, tx, customer); err != nil {
		return nil, err
	}

	if err := uc.outboxRepo.Create(ctx, tx, uc.changeEvent(customer, domain.EventTypeCustomerUpdated, now)); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return customer, nil
}

// DeleteCustomer removes a customer and its whole history irreversibly.
func (uc *CustomerUseCase) DeleteCustomer(ctx context.Context, ownerID, id string) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	customer, err := uc.customerRepo.GetByIDForUpdate(ctx, tx, ownerID, id)
	if err != nil {
		return err
	}

	if err := uc.eventRepo.DeleteByCustomer(ctx, tx, customer.ID); err != nil {
		return err
	}

	if err := uc.customerRepo.Delete(ctx, tx, ownerID, customer.ID); err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := uc.outboxRepo.Create(ctx, tx, uc.changeEvent(customer, domain.EventTypeCustomerDeleted, now)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	// The owner's totals changed; drop the cached summary.
	_ = uc.cache.Delete(ctx, summaryCacheKey(ownerID))

	return nil
}

func (uc *CustomerUseCase) changeEvent(customer *domain.Customer, eventType string, now time.Time) *domain.OutboxEvent {
	return &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		OwnerID:       customer.OwnerID,
		AggregateID:   customer.ID,
		AggregateType: domain.AggregateTypeCustomer,
		EventType:     eventType,
		Payload: map[string]any{
			"customer_id": customer.ID,
			"owner_id":    customer.OwnerID,
			"balance":     customer.Balance.String(),
			"version":     customer.Version,
		},
		CreatedAt: now,
	}
}

func validateContact(name, mobile, address string) error {
	if err := domain.ValidateName(name); err != nil {
		return err
	}

	if mobile != "" {
		if err := domain.ValidateMobile(strings.TrimSpace(mobile)); err != nil {
			return err
		}
	}

	return domain.ValidateAddress(address)
}
