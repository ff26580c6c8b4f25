package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Summary holds an owner's book-wide totals.
type Summary struct {
	Receivable decimal.Decimal `json:"receivable"`
	Payable    decimal.Decimal `json:"payable"`
	Net        decimal.Decimal `json:"net"`
	Customers  int64           `json:"customers"`
	ComputedAt time.Time       `json:"computed_at"`
}

// SummaryUseCase computes owner totals, with a short-lived cache in front
// of the aggregate query. Mutating use cases invalidate the cache key.
type SummaryUseCase struct {
	summaryRepo SummaryRepository
	cache       Cache
}

// NewSummaryUseCase creates a new SummaryUseCase.
func NewSummaryUseCase(summaryRepo SummaryRepository, cache Cache) *SummaryUseCase {
	return &SummaryUseCase{
		summaryRepo: summaryRepo,
		cache:       cache,
	}
}

// GetSummary returns the owner's totals: what the owner is owed, what the
// owner owes, and the net position.
func (uc *SummaryUseCase) GetSummary(ctx context.Context, ownerID string) (*Summary, error) {
	key := summaryCacheKey(ownerID)

	if cached, err := uc.cache.Get(ctx, key); err == nil && cached != "" {
		var s Summary
		if err := json.Unmarshal([]byte(cached), &s); err == nil {
			return &s, nil
		}
	}

	receivable, payable, customers, err := uc.summaryRepo.Totals(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Receivable: receivable,
		Payable:    payable,
		Net:        receivable.Sub(payable),
		Customers:  customers,
		ComputedAt: time.Now().UTC(),
	}

	if encoded, err := json.Marshal(summary); err == nil {
		// Cache failures are not fatal; the next read recomputes.
		_ = uc.cache.Set(ctx, key, string(encoded), SummaryCacheTTL)
	}

	return summary, nil
}
