package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/khatahub/khata/internal/domain"
	"github.com/khatahub/khata/internal/infrastructure/metrics"
)

// TransactionUseCase applies transactions to customer balances. The
// reconciliation itself is pure (domain.Reconcile); this use case wraps it
// in a read-reconcile-write cycle that is atomic against concurrent
// writers: the customer row is locked for the duration and the balance
// write is version-checked, so a stale snapshot can never overwrite a
// newer one.
type TransactionUseCase struct {
	txManager    TransactionManager
	customerRepo CustomerRepository
	eventRepo    EventRepository
	outboxRepo   OutboxRepository
	idGen        IDGenerator
	retrier      Retrier
	cache        Cache
	metrics      *metrics.Metrics
}

// NewTransactionUseCase creates a new TransactionUseCase. Metrics may be
// nil in tests.
func NewTransactionUseCase(
	txManager TransactionManager,
	customerRepo CustomerRepository,
	eventRepo EventRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	retrier Retrier,
	cache Cache,
	m *metrics.Metrics,
) *TransactionUseCase {
	return &TransactionUseCase{
		txManager:    txManager,
		customerRepo: customerRepo,
		eventRepo:    eventRepo,
		outboxRepo:   outboxRepo,
		idGen:        idGen,
		retrier:      retrier,
		cache:        cache,
		metrics:      m,
	}
}

// RecordTransactionInput represents one transaction against one customer.
type RecordTransactionInput struct {
	OwnerID    string
	CustomerID string
	Direction  domain.Direction
	Amount     decimal.Decimal
}

// RecordTransactionResult is the persisted outcome of a transaction.
type RecordTransactionResult struct {
	Customer *domain.Customer
	Events   []*domain.LedgerEvent
}

// RecordTransaction applies one transaction to a customer: lock the row,
// reconcile, append the resulting events, write the new balance. Retries
// the whole cycle on transient conflicts (deadlock, serialization
// failure, stale write).
func (uc *TransactionUseCase) RecordTransaction(ctx context.Context, input RecordTransactionInput) (*RecordTransactionResult, error) {
	// Reject bad input before touching storage.
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if !input.Direction.IsValid() {
		return nil, domain.ErrInvalidDirection
	}

	start := time.Now()

	var result *RecordTransactionResult

	err := uc.retrier.Retry(ctx, func() error {
		r, err := uc.recordOnce(ctx, input)
		if err != nil {
			if uc.metrics != nil && errors.Is(err, domain.ErrStaleWrite) {
				uc.metrics.StaleWriteRetries.Inc()
			}
			return err
		}

		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The owner's totals changed; drop the cached summary.
	_ = uc.cache.Delete(ctx, summaryCacheKey(input.OwnerID))

	if uc.metrics != nil {
		uc.metrics.TransactionsRecorded.WithLabelValues(string(input.Direction)).Inc()
		uc.metrics.TransactionAmount.Observe(input.Amount.InexactFloat64())
		uc.metrics.TransactionDuration.Observe(time.Since(start).Seconds())
		if len(result.Events) == 2 {
			uc.metrics.ReconcileSplits.Inc()
		}
	}

	return result, nil
}

func (uc *TransactionUseCase) recordOnce(ctx context.Context, input RecordTransactionInput) (*RecordTransactionResult, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	customer, err := uc.customerRepo.GetByIDForUpdate(ctx, tx, input.OwnerID, input.CustomerID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	reconciled, err := domain.Reconcile(customer.Balance, input.Direction, input.Amount, now)
	if err != nil {
		return nil, err
	}

	events := make([]*domain.LedgerEvent, len(reconciled.Events))
	for i := range reconciled.Events {
		ev := reconciled.Events[i]
		ev.ID = uc.idGen.Generate()
		ev.CustomerID = customer.ID
		events[i] = &ev
	}

	if err := uc.eventRepo.CreateBatch(ctx, tx, events); err != nil {
		return nil, err
	}

	if err := uc.customerRepo.UpdateBalance(ctx, tx, customer.ID, reconciled.NewBalance, customer.Version, now); err != nil {
		return nil, err
	}

	customer.Balance = reconciled.NewBalance
	customer.Version++
	customer.UpdatedAt = now

	outboxEvent := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		OwnerID:       customer.OwnerID,
		AggregateID:   customer.ID,
		AggregateType: domain.AggregateTypeCustomer,
		EventType:     domain.EventTypeTransactionRecorded,
		Payload: map[string]any{
			"customer_id": customer.ID,
			"owner_id":    customer.OwnerID,
			"direction":   string(input.Direction),
			"amount":      input.Amount.String(),
			"new_balance": customer.Balance.String(),
			"event_count": len(events),
		},
		CreatedAt: now,
	}

	if err := uc.outboxRepo.Create(ctx, tx, outboxEvent); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &RecordTransactionResult{
		Customer: customer,
		Events:   events,
	}, nil
}
