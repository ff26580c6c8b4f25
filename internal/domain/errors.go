package domain

import "errors"

var (
	// Customer errors
	ErrCustomerNotFound = errors.New("customer not found")
	ErrStaleWrite       = errors.New("customer was modified concurrently")

	// Transaction errors
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrInvalidDirection = errors.New("direction must be gave or took")

	// User errors
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user with this mobile already exists")

	// Authentication errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrInvalidCredentials = errors.New("invalid mobile or password")
)
