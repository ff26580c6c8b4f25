package dto

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/khatahub/khata/internal/domain"
	"github.com/khatahub/khata/internal/usecase"
)

var validate = validator.New()

// RegisterRequest represents a request to register an owner.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,min=1,max=120"`
	Mobile   string `json:"mobile"   validate:"required"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// Validate checks structural constraints before the use case runs.
func (r *RegisterRequest) Validate() error {
	return validate.Struct(r)
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Name:     r.Name,
		Mobile:   r.Mobile,
		Password: r.Password,
	}
}

// LoginRequest represents a login attempt.
type LoginRequest struct {
	Mobile   string `json:"mobile"   validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Validate checks structural constraints.
func (r *LoginRequest) Validate() error {
	return validate.Struct(r)
}

// ToUseCaseInput converts to use case input.
func (r *LoginRequest) ToUseCaseInput() usecase.AuthenticateInput {
	return usecase.AuthenticateInput{
		Mobile:   r.Mobile,
		Password: r.Password,
	}
}

// CreateCustomerRequest represents a request to add a customer to the book.
type CreateCustomerRequest struct {
	Name    string `json:"name"              validate:"required,min=1,max=120"`
	Mobile  string `json:"mobile,omitempty"  validate:"omitempty"`
	Address string `json:"address,omitempty" validate:"omitempty,max=500"`
}

// Validate checks structural constraints.
func (r *CreateCustomerRequest) Validate() error {
	return validate.Struct(r)
}

// ToUseCaseInput converts to use case input.
func (r *CreateCustomerRequest) ToUseCaseInput(ownerID string) usecase.CreateCustomerInput {
	return usecase.CreateCustomerInput{
		OwnerID: ownerID,
		Name:    r.Name,
		Mobile:  r.Mobile,
		Address: r.Address,
	}
}

// UpdateCustomerRequest represents a contact metadata edit.
type UpdateCustomerRequest struct {
	Name    string `json:"name"              validate:"required,min=1,max=120"`
	Mobile  string `json:"mobile,omitempty"  validate:"omitempty"`
	Address string `json:"address,omitempty" validate:"omitempty,max=500"`
}

// Validate checks structural constraints.
func (r *UpdateCustomerRequest) Validate() error {
	return validate.Struct(r)
}

// ToUseCaseInput converts to use case input.
func (r *UpdateCustomerRequest) ToUseCaseInput(ownerID, customerID string) usecase.UpdateContactInput {
	return usecase.UpdateContactInput{
		OwnerID:    ownerID,
		CustomerID: customerID,
		Name:       r.Name,
		Mobile:     r.Mobile,
		Address:    r.Address,
	}
}

// RecordTransactionRequest represents one money movement against a customer.
type RecordTransactionRequest struct {
	Direction string          `json:"direction" validate:"required,oneof=gave took"`
	Amount    decimal.Decimal `json:"amount"    validate:"required"`
}

// Validate checks structural constraints.
func (r *RecordTransactionRequest) Validate() error {
	return validate.Struct(r)
}

// ToUseCaseInput converts to use case input.
func (r *RecordTransactionRequest) ToUseCaseInput(ownerID, customerID string) usecase.RecordTransactionInput {
	return usecase.RecordTransactionInput{
		OwnerID:    ownerID,
		CustomerID: customerID,
		Direction:  domain.Direction(r.Direction),
		Amount:     r.Amount,
	}
}
