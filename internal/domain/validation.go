package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidName     = errors.New("invalid customer name")
	ErrInvalidMobile   = errors.New("invalid mobile number")
	ErrAmountTooLarge  = errors.New("amount exceeds maximum allowed")
	ErrAddressTooLong  = errors.New("address exceeds maximum length")
	ErrPasswordTooWeak = errors.New("password does not meet requirements")
)

// Validation constants
const (
	MaxNameLength    = 120
	MinNameLength    = 1
	MaxAddressLength = 500
	MaxAmount        = "100000000" // 10 crore
	MinPasswordLength = 6
	MaxPasswordLength = 72 // bcrypt input limit
)

// Bangladeshi mobile numbers: 11 digits starting 01, operator prefix 3-9.
var mobileRegex = regexp.MustCompile(`^01[3-9][0-9]{8}$`)

// ValidateName validates a customer or user name.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}

	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, MaxNameLength)
	}

	return nil
}

// ValidateMobile validates a mobile number.
func ValidateMobile(mobile string) error {
	mobile = strings.TrimSpace(mobile)

	if !mobileRegex.MatchString(mobile) {
		return fmt.Errorf("%w: %s", ErrInvalidMobile, mobile)
	}

	return nil
}

// ValidateAddress validates an optional address field.
func ValidateAddress(address string) error {
	if len(address) > MaxAddressLength {
		return fmt.Errorf("%w: limit is %d characters", ErrAddressTooLong, MaxAddressLength)
	}

	return nil
}

// ValidateAmount validates a transaction amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxAmount)
	}

	return nil
}

// ValidatePassword validates password strength.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrPasswordTooWeak, MinPasswordLength)
	}

	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: must not exceed %d characters", ErrPasswordTooWeak, MaxPasswordLength)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 500
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
