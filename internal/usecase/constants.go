package usecase

import "time"

const (
	// SummaryCacheTTL is how long owner summary totals stay cached.
	SummaryCacheTTL = 30 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour
)

// summaryCacheKey builds the cache key for an owner's summary totals.
func summaryCacheKey(ownerID string) string {
	return "summary:" + ownerID
}
