package usecase

import (
	"context"

	"github.com/khatahub/khata/internal/domain"
)

// EntryUseCase handles history listing.
type EntryUseCase struct {
	customerRepo CustomerRepository
	eventRepo    EventRepository
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(customerRepo CustomerRepository, eventRepo EventRepository) *EntryUseCase {
	return &EntryUseCase{
		customerRepo: customerRepo,
		eventRepo:    eventRepo,
	}
}

// ListByCustomerInput represents input for listing a customer's history.
type ListByCustomerInput struct {
	OwnerID    string
	CustomerID string
	Limit      int
	Offset     int
}

// ListByCustomer lists a customer's ledger events, oldest first. Ownership
// is checked so one owner cannot read another's history.
func (uc *EntryUseCase) ListByCustomer(ctx context.Context, input ListByCustomerInput) ([]*domain.LedgerEvent, error) {
	customer, err := uc.customerRepo.GetByID(ctx, input.OwnerID, input.CustomerID)
	if err != nil {
		return nil, err
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.eventRepo.ListByCustomer(ctx, customer.ID, limit, offset)
}

// ListByOwnerInput represents input for listing recent events book-wide.
type ListByOwnerInput struct {
	OwnerID string
	Limit   int
	Offset  int
}

// ListByOwner lists recent events across all of the owner's customers.
func (uc *EntryUseCase) ListByOwner(ctx context.Context, input ListByOwnerInput) ([]*domain.LedgerEvent, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.eventRepo.ListByOwner(ctx, input.OwnerID, limit, offset)
}
