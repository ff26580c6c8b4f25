package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestReconcile_Gave(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name        string
		balance     decimal.Decimal
		amount      decimal.Decimal
		wantBalance decimal.Decimal
		wantAmounts []decimal.Decimal
		wantLabels  []Label
	}{
		{
			name:        "fresh loan from zero balance",
			balance:     d(0),
			amount:      d(500),
			wantBalance: d(500),
			wantAmounts: []decimal.Decimal{d(500)},
			wantLabels:  []Label{LabelNewLoanGiven},
		},
		{
			name:        "fresh loan on existing receivable",
			balance:     d(200),
			amount:      d(300),
			wantBalance: d(500),
			wantAmounts: []decimal.Decimal{d(300)},
			wantLabels:  []Label{LabelNewLoanGiven},
		},
		{
			name:        "partial repayment of debt",
			balance:     d(-300),
			amount:      d(100),
			wantBalance: d(-200),
			wantAmounts: []decimal.Decimal{d(100)},
			wantLabels:  []Label{LabelRepaymentMade},
		},
		{
			name:        "exact repayment settles without split",
			balance:     d(-300),
			amount:      d(300),
			wantBalance: d(0),
			wantAmounts: []decimal.Decimal{d(300)},
			wantLabels:  []Label{LabelRepaymentMade},
		},
		{
			name:        "overpayment splits into repayment then new loan",
			balance:     d(-300),
			amount:      d(800),
			wantBalance: d(500),
			wantAmounts: []decimal.Decimal{d(300), d(500)},
			wantLabels:  []Label{LabelRepaymentMade, LabelNewLoanGiven},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Reconcile(tt.balance, DirectionGave, tt.amount, now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			assertResult(t, result, tt.wantBalance, tt.wantAmounts, tt.wantLabels, DirectionGave, now)
		})
	}
}

func TestReconcile_Took(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name        string
		balance     decimal.Decimal
		amount      decimal.Decimal
		wantBalance decimal.Decimal
		wantAmounts []decimal.Decimal
		wantLabels  []Label
	}{
		{
			name:        "new loan taken from zero balance",
			balance:     d(0),
			amount:      d(500),
			wantBalance: d(-500),
			wantAmounts: []decimal.Decimal{d(500)},
			wantLabels:  []Label{LabelNewLoanTaken},
		},
		{
			name:        "new loan taken on existing payable",
			balance:     d(-200),
			amount:      d(300),
			wantBalance: d(-500),
			wantAmounts: []decimal.Decimal{d(300)},
			wantLabels:  []Label{LabelNewLoanTaken},
		},
		{
			name:        "partial repayment received",
			balance:     d(500),
			amount:      d(200),
			wantBalance: d(300),
			wantAmounts: []decimal.Decimal{d(200)},
			wantLabels:  []Label{LabelRepaymentReceived},
		},
		{
			name:        "exact repayment settles without split",
			balance:     d(500),
			amount:      d(500),
			wantBalance: d(0),
			wantAmounts: []decimal.Decimal{d(500)},
			wantLabels:  []Label{LabelRepaymentReceived},
		},
		{
			name:        "overpayment splits into repayment then new loan taken",
			balance:     d(500),
			amount:      d(900),
			wantBalance: d(-400),
			wantAmounts: []decimal.Decimal{d(500), d(400)},
			wantLabels:  []Label{LabelRepaymentReceived, LabelNewLoanTaken},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Reconcile(tt.balance, DirectionTook, tt.amount, now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			assertResult(t, result, tt.wantBalance, tt.wantAmounts, tt.wantLabels, DirectionTook, now)
		})
	}
}

func assertResult(t *testing.T, result ReconcileResult, wantBalance decimal.Decimal, wantAmounts []decimal.Decimal, wantLabels []Label, direction Direction, at time.Time) {
	t.Helper()

	if !result.NewBalance.Equal(wantBalance) {
		t.Errorf("new balance = %s, want %s", result.NewBalance, wantBalance)
	}

	if len(result.Events) != len(wantAmounts) {
		t.Fatalf("got %d events, want %d", len(result.Events), len(wantAmounts))
	}

	for i, ev := range result.Events {
		if !ev.Amount.Equal(wantAmounts[i]) {
			t.Errorf("event[%d] amount = %s, want %s", i, ev.Amount, wantAmounts[i])
		}
		if ev.Label != wantLabels[i] {
			t.Errorf("event[%d] label = %s, want %s", i, ev.Label, wantLabels[i])
		}
		if ev.Direction != direction {
			t.Errorf("event[%d] direction = %s, want %s", i, ev.Direction, direction)
		}
		if !ev.Timestamp.Equal(at) {
			t.Errorf("event[%d] timestamp = %s, want %s", i, ev.Timestamp, at)
		}
	}
}

func TestReconcile_InvalidInput(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name      string
		direction Direction
		amount    decimal.Decimal
		wantErr   error
	}{
		{"zero amount", DirectionGave, d(0), ErrInvalidAmount},
		{"negative amount", DirectionTook, d(-10), ErrInvalidAmount},
		{"unknown direction", Direction("refunded"), d(10), ErrInvalidDirection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Reconcile(d(100), tt.direction, tt.amount, now)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// Events folded by signed delta must reproduce exactly newBalance - currentBalance,
// for every combination of starting balance, direction, and amount.
func TestReconcile_DeltaInvariant(t *testing.T) {
	now := time.Now().UTC()

	balances := []int64{-1000, -300, -1, 0, 1, 300, 1000}
	amounts := []int64{1, 299, 300, 301, 999, 1000, 1001}

	for _, direction := range []Direction{DirectionGave, DirectionTook} {
		for _, b := range balances {
			for _, a := range amounts {
				result, err := Reconcile(d(b), direction, d(a), now)
				if err != nil {
					t.Fatalf("balance=%d direction=%s amount=%d: %v", b, direction, a, err)
				}

				folded := decimal.Zero
				for i := range result.Events {
					folded = folded.Add(result.Events[i].SignedDelta())

					if !result.Events[i].Amount.IsPositive() {
						t.Errorf("balance=%d direction=%s amount=%d: event %d has non-positive amount %s",
							b, direction, a, i, result.Events[i].Amount)
					}
				}

				wantDelta := result.NewBalance.Sub(d(b))
				if !folded.Equal(wantDelta) {
					t.Errorf("balance=%d direction=%s amount=%d: folded delta %s, want %s",
						b, direction, a, folded, wantDelta)
				}

				if len(result.Events) < 1 || len(result.Events) > 2 {
					t.Errorf("balance=%d direction=%s amount=%d: got %d events",
						b, direction, a, len(result.Events))
				}
			}
		}
	}
}

// An amount exactly matching the outstanding magnitude always takes the
// single-event branch for both directions.
func TestReconcile_ExactSettlementBoundary(t *testing.T) {
	now := time.Now().UTC()

	result, err := Reconcile(d(-750), DirectionGave, d(750), now)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Events) != 1 || !result.NewBalance.IsZero() {
		t.Errorf("gave: got %d events, balance %s", len(result.Events), result.NewBalance)
	}

	result, err = Reconcile(d(750), DirectionTook, d(750), now)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Events) != 1 || !result.NewBalance.IsZero() {
		t.Errorf("took: got %d events, balance %s", len(result.Events), result.NewBalance)
	}
}

func TestReconcile_FractionalAmounts(t *testing.T) {
	now := time.Now().UTC()

	balance := decimal.RequireFromString("-10.50")
	amount := decimal.RequireFromString("20.25")

	result, err := Reconcile(balance, DirectionGave, amount, now)
	if err != nil {
		t.Fatal(err)
	}

	if !result.NewBalance.Equal(decimal.RequireFromString("9.75")) {
		t.Errorf("new balance = %s, want 9.75", result.NewBalance)
	}

	if len(result.Events) != 2 {
		t.Fatalf("got %d events, want 2", len(result.Events))
	}

	if !result.Events[0].Amount.Equal(decimal.RequireFromString("10.50")) {
		t.Errorf("repayment amount = %s, want 10.50", result.Events[0].Amount)
	}

	if !result.Events[1].Amount.Equal(decimal.RequireFromString("9.75")) {
		t.Errorf("loan amount = %s, want 9.75", result.Events[1].Amount)
	}
}
