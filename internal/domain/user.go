package domain

import "time"

// User is a ledger book owner. Mobile is the login identifier.
type User struct {
	ID             string
	Name           string
	Mobile         string
	HashedPassword string
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
