package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction tells which way money physically moved in a single event.
type Direction string

const (
	// DirectionGave means the owner handed money to the customer.
	DirectionGave Direction = "gave"

	// DirectionTook means the owner received money from the customer.
	DirectionTook Direction = "took"
)

// IsValid checks if the direction is a known direction.
func (d Direction) IsValid() bool {
	return d == DirectionGave || d == DirectionTook
}

// Label classifies the economic meaning of an event, independent of its
// direction. A repayment and a fresh loan in the same direction are
// distinguished here.
type Label string

const (
	LabelNewLoanGiven      Label = "new-loan-given"
	LabelNewLoanTaken      Label = "new-loan-taken"
	LabelRepaymentReceived Label = "repayment-received"
	LabelRepaymentMade     Label = "repayment-made"
)

// LedgerEvent is one immutable entry in a customer's history. Amount is
// always the positive magnitude moved, never the signed delta.
type LedgerEvent struct {
	ID         string
	CustomerID string
	Amount     decimal.Decimal
	Direction  Direction
	Label      Label
	Timestamp  time.Time
}

// SignedDelta returns the event's effect on the customer balance:
// gave-events add, took-events subtract, for every label.
func (e *LedgerEvent) SignedDelta() decimal.Decimal {
	if e.Direction == DirectionTook {
		return e.Amount.Neg()
	}
	return e.Amount
}
