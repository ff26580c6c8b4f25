package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCustomer_BalanceState(t *testing.T) {
	tests := []struct {
		name           string
		balance        decimal.Decimal
		wantReceivable bool
		wantPayable    bool
		wantSettled    bool
	}{
		{"positive balance is receivable", decimal.NewFromInt(100), true, false, false},
		{"negative balance is payable", decimal.NewFromInt(-100), false, true, false},
		{"zero balance is settled", decimal.Zero, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Customer{Balance: tt.balance}

			if c.Receivable() != tt.wantReceivable {
				t.Errorf("Receivable() = %v, want %v", c.Receivable(), tt.wantReceivable)
			}
			if c.Payable() != tt.wantPayable {
				t.Errorf("Payable() = %v, want %v", c.Payable(), tt.wantPayable)
			}
			if c.Settled() != tt.wantSettled {
				t.Errorf("Settled() = %v, want %v", c.Settled(), tt.wantSettled)
			}
		})
	}
}

func TestLedgerEvent_SignedDelta(t *testing.T) {
	gave := &LedgerEvent{Amount: decimal.NewFromInt(50), Direction: DirectionGave, Label: LabelRepaymentMade}
	if !gave.SignedDelta().Equal(decimal.NewFromInt(50)) {
		t.Errorf("gave delta = %s, want 50", gave.SignedDelta())
	}

	took := &LedgerEvent{Amount: decimal.NewFromInt(50), Direction: DirectionTook, Label: LabelNewLoanTaken}
	if !took.SignedDelta().Equal(decimal.NewFromInt(-50)) {
		t.Errorf("took delta = %s, want -50", took.SignedDelta())
	}
}
