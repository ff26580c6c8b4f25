package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is one counterparty in an owner's ledger book. Balance is the
// single source of truth for who owes whom: positive means the owner is
// owed money (receivable), negative means the owner owes the customer
// (payable), zero means settled.
type Customer struct {
	ID        string
	OwnerID   string
	Name      string
	Mobile    string
	Address   string
	Balance   decimal.Decimal
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Receivable reports whether the customer owes the owner money.
func (c *Customer) Receivable() bool {
	return c.Balance.IsPositive()
}

// Payable reports whether the owner owes the customer money.
func (c *Customer) Payable() bool {
	return c.Balance.IsNegative()
}

// Settled reports whether the balance is exactly zero. A settled customer
// with history is distinct from a brand-new one.
func (c *Customer) Settled() bool {
	return c.Balance.IsZero()
}
