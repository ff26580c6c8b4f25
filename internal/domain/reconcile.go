package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconcileResult is the outcome of applying one transaction to a customer
// balance. Events carries one entry, or two when the transaction first
// clears an outstanding debt and the remainder becomes a fresh loan in the
// opposite direction. On a split the repayment portion always comes first.
type ReconcileResult struct {
	NewBalance decimal.Decimal
	Events     []LedgerEvent
}

// Reconcile applies one transaction (direction + positive amount) to the
// current signed balance, netting the amount against any outstanding debt.
//
// The rule: money moving against an existing debt is a repayment up to the
// debt's magnitude; anything beyond that is a new loan the other way. An
// amount exactly equal to the outstanding magnitude settles the account
// with a single repayment event, never a zero-amount split.
//
// Reconcile is pure. It performs no I/O and the caller is responsible for
// persisting the new balance and appending the events atomically.
func Reconcile(currentBalance decimal.Decimal, direction Direction, amount decimal.Decimal, at time.Time) (ReconcileResult, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ReconcileResult{}, ErrInvalidAmount
	}

	switch direction {
	case DirectionGave:
		return reconcileGave(currentBalance, amount, at), nil
	case DirectionTook:
		return reconcileTook(currentBalance, amount, at), nil
	default:
		return ReconcileResult{}, ErrInvalidDirection
	}
}

func reconcileGave(balance, amount decimal.Decimal, at time.Time) ReconcileResult {
	newBalance := balance.Add(amount)

	if !balance.IsNegative() {
		// Nothing to repay: the whole amount is a fresh loan to the customer.
		return ReconcileResult{
			NewBalance: newBalance,
			Events: []LedgerEvent{
				{Amount: amount, Direction: DirectionGave, Label: LabelNewLoanGiven, Timestamp: at},
			},
		}
	}

	debt := balance.Abs()
	if amount.LessThanOrEqual(debt) {
		return ReconcileResult{
			NewBalance: newBalance,
			Events: []LedgerEvent{
				{Amount: amount, Direction: DirectionGave, Label: LabelRepaymentMade, Timestamp: at},
			},
		}
	}

	return ReconcileResult{
		NewBalance: newBalance,
		Events: []LedgerEvent{
			{Amount: debt, Direction: DirectionGave, Label: LabelRepaymentMade, Timestamp: at},
			{Amount: amount.Sub(debt), Direction: DirectionGave, Label: LabelNewLoanGiven, Timestamp: at},
		},
	}
}

func reconcileTook(balance, amount decimal.Decimal, at time.Time) ReconcileResult {
	newBalance := balance.Sub(amount)

	if !balance.IsPositive() {
		return ReconcileResult{
			NewBalance: newBalance,
			Events: []LedgerEvent{
				{Amount: amount, Direction: DirectionTook, Label: LabelNewLoanTaken, Timestamp: at},
			},
		}
	}

	if amount.LessThanOrEqual(balance) {
		return ReconcileResult{
			NewBalance: newBalance,
			Events: []LedgerEvent{
				{Amount: amount, Direction: DirectionTook, Label: LabelRepaymentReceived, Timestamp: at},
			},
		}
	}

	return ReconcileResult{
		NewBalance: newBalance,
		Events: []LedgerEvent{
			{Amount: balance, Direction: DirectionTook, Label: LabelRepaymentReceived, Timestamp: at},
			{Amount: amount.Sub(balance), Direction: DirectionTook, Label: LabelNewLoanTaken, Timestamp: at},
		},
	}
}
