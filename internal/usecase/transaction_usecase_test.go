package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/khatahub/khata/internal/domain"
	"github.com/khatahub/khata/internal/infrastructure/metrics"
	"github.com/khatahub/khata/internal/usecase"
	"github.com/khatahub/khata/internal/usecase/mocks"
)

func newRecordFixture(t *testing.T, balance decimal.Decimal) (*usecase.TransactionUseCase, *mocks.MockCustomerRepository, *mocks.MockOutboxRepository, *mocks.MockEventRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)

	customerRepo := mocks.NewMockCustomerRepository()
	eventRepo := mocks.NewMockEventRepository(ctrl)
	outboxRepo := mocks.NewMockOutboxRepository()

	customerRepo.Create(context.Background(), nil, &domain.Customer{
		ID:      "cust-1",
		OwnerID: "owner-1",
		Name:    "Rahim",
		Balance: balance,
		Version: 3,
	})

	uc := usecase.NewTransactionUseCase(
		mocks.NewMockTransactionManager(),
		customerRepo,
		eventRepo,
		outboxRepo,
		mocks.NewMockIDGenerator(),
		mocks.NewMockRetrier(),
		mocks.NewMockCache(),
		nil,
	)

	return uc, customerRepo, outboxRepo, eventRepo
}

func TestTransactionUseCase_RecordTransaction(t *testing.T) {
	tests := []struct {
		name        string
		balance     decimal.Decimal
		direction   domain.Direction
		amount      decimal.Decimal
		wantBalance decimal.Decimal
		wantLabels  []domain.Label
	}{
		{
			name:        "gave on zero balance records a new loan",
			balance:     decimal.Zero,
			direction:   domain.DirectionGave,
			amount:      decimal.NewFromInt(500),
			wantBalance: decimal.NewFromInt(500),
			wantLabels:  []domain.Label{domain.LabelNewLoanGiven},
		},
		{
			name:        "gave against debt splits repayment and loan",
			balance:     decimal.NewFromInt(-300),
			direction:   domain.DirectionGave,
			amount:      decimal.NewFromInt(800),
			wantBalance: decimal.NewFromInt(500),
			wantLabels:  []domain.Label{domain.LabelRepaymentMade, domain.LabelNewLoanGiven},
		},
		{
			name:        "took against receivable records a repayment",
			balance:     decimal.NewFromInt(500),
			direction:   domain.DirectionTook,
			amount:      decimal.NewFromInt(200),
			wantBalance: decimal.NewFromInt(300),
			wantLabels:  []domain.Label{domain.LabelRepaymentReceived},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, customerRepo, outboxRepo, eventRepo := newRecordFixture(t, tt.balance)

			eventRepo.EXPECT().
				CreateBatch(gomock.Any(), gomock.Any(), gomock.Len(len(tt.wantLabels))).
				Return(nil)

			result, err := uc.RecordTransaction(context.Background(), usecase.RecordTransactionInput{
				OwnerID:    "owner-1",
				CustomerID: "cust-1",
				Direction:  tt.direction,
				Amount:     tt.amount,
			})
			require.NoError(t, err)

			assert.True(t, result.Customer.Balance.Equal(tt.wantBalance),
				"balance = %s, want %s", result.Customer.Balance, tt.wantBalance)

			require.Len(t, result.Events, len(tt.wantLabels))
			for i, ev := range result.Events {
				assert.Equal(t, tt.wantLabels[i], ev.Label)
				assert.Equal(t, "cust-1", ev.CustomerID)
				assert.NotEmpty(t, ev.ID)
			}

			// Balance persisted with a version bump.
			stored, err := customerRepo.GetByID(context.Background(), "owner-1", "cust-1")
			require.NoError(t, err)
			assert.True(t, stored.Balance.Equal(tt.wantBalance))
			assert.Equal(t, int64(4), stored.Version)

			// Every recorded transaction leaves an outbox notification.
			events := outboxRepo.Events()
			require.Len(t, events, 1)
			assert.Equal(t, domain.EventTypeTransactionRecorded, events[0].EventType)
			assert.Equal(t, "owner-1", events[0].OwnerID)
		})
	}
}

func TestTransactionUseCase_RecordTransaction_VersionAdvancesOncePerWrite(t *testing.T) {
	uc, customerRepo, _, eventRepo := newRecordFixture(t, decimal.Zero)

	eventRepo.EXPECT().
		CreateBatch(gomock.Any(), gomock.Any(), gomock.Len(1)).
		Return(nil).
		Times(2)

	record := func() *usecase.RecordTransactionResult {
		result, err := uc.RecordTransaction(context.Background(), usecase.RecordTransactionInput{
			OwnerID:    "owner-1",
			CustomerID: "cust-1",
			Direction:  domain.DirectionGave,
			Amount:     decimal.NewFromInt(100),
		})
		require.NoError(t, err)
		return result
	}

	first := record()
	assert.Equal(t, int64(4), first.Customer.Version)

	second := record()
	assert.Equal(t, int64(5), second.Customer.Version)

	stored, err := customerRepo.GetByID(context.Background(), "owner-1", "cust-1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), stored.Version)

	// Mutating a returned customer must not reach the store.
	second.Customer.Version = 99
	stored, err = customerRepo.GetByID(context.Background(), "owner-1", "cust-1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), stored.Version)
}

func TestTransactionUseCase_RecordTransaction_InvalidInput(t *testing.T) {
	uc, _, _, _ := newRecordFixture(t, decimal.Zero)

	_, err := uc.RecordTransaction(context.Background(), usecase.RecordTransactionInput{
		OwnerID:    "owner-1",
		CustomerID: "cust-1",
		Direction:  domain.DirectionGave,
		Amount:     decimal.Zero,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = uc.RecordTransaction(context.Background(), usecase.RecordTransactionInput{
		OwnerID:    "owner-1",
		CustomerID: "cust-1",
		Direction:  domain.Direction("sideways"),
		Amount:     decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDirection)
}

func TestTransactionUseCase_RecordTransaction_CustomerNotFound(t *testing.T) {
	uc, _, _, _ := newRecordFixture(t, decimal.Zero)

	_, err := uc.RecordTransaction(context.Background(), usecase.RecordTransactionInput{
		OwnerID:    "owner-1",
		CustomerID: "missing",
		Direction:  domain.DirectionGave,
		Amount:     decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestTransactionUseCase_RecordTransaction_Metrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry
	m := metrics.New()

	ctrl := gomock.NewController(t)

	customerRepo := mocks.NewMockCustomerRepository()
	eventRepo := mocks.NewMockEventRepository(ctrl)

	customerRepo.Create(context.Background(), nil, &domain.Customer{
		ID:      "cust-1",
		OwnerID: "owner-1",
		Balance: decimal.NewFromInt(-300),
		Version: 0,
	})

	// One attempt per write: the lost race retries the whole cycle.
	eventRepo.EXPECT().
		CreateBatch(gomock.Any(), gomock.Any(), gomock.Len(2)).
		Return(nil).
		Times(2)

	failures := 1
	customerRepo.UpdateBalanceFunc = func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, expectedVersion int64, updatedAt time.Time) error {
		if failures > 0 {
			failures--
			return domain.ErrStaleWrite
		}
		customerRepo.UpdateBalanceFunc = nil
		return customerRepo.UpdateBalance(ctx, tx, id, balance, expectedVersion, updatedAt)
	}

	retrier := mocks.NewMockRetrier()
	retrier.RetryFunc = func(ctx context.Context, operation func() error) error {
		for attempts := 0; ; attempts++ {
			err := operation()
			if err == nil || attempts > 3 {
				return err
			}
		}
	}

	uc := usecase.NewTransactionUseCase(
		mocks.NewMockTransactionManager(),
		customerRepo,
		eventRepo,
		mocks.NewMockOutboxRepository(),
		mocks.NewMockIDGenerator(),
		retrier,
		mocks.NewMockCache(),
		m,
	)

	// Gave 800 against a 300 debt splits into repayment plus new loan.
	_, err := uc.RecordTransaction(context.Background(), usecase.RecordTransactionInput{
		OwnerID:    "owner-1",
		CustomerID: "cust-1",
		Direction:  domain.DirectionGave,
		Amount:     decimal.NewFromInt(800),
	})
	require.NoError(t, err)

	assert.Equal(t, 1.0, promtest.ToFloat64(m.ReconcileSplits))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.StaleWriteRetries))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.TransactionsRecorded.WithLabelValues("gave")))
}

func TestTransactionUseCase_RecordTransaction_RetriesStaleWrite(t *testing.T) {
	ctrl := gomock.NewController(t)

	customerRepo := mocks.NewMockCustomerRepository()
	eventRepo := mocks.NewMockEventRepository(ctrl)
	outboxRepo := mocks.NewMockOutboxRepository()

	customerRepo.Create(context.Background(), nil, &domain.Customer{
		ID:      "cust-1",
		OwnerID: "owner-1",
		Balance: decimal.Zero,
		Version: 0,
	})

	eventRepo.EXPECT().
		CreateBatch(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		Times(2)

	// First write loses the race, second succeeds.
	failures := 1
	customerRepo.UpdateBalanceFunc = func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, expectedVersion int64, updatedAt time.Time) error {
		if failures > 0 {
			failures--
			return domain.ErrStaleWrite
		}
		customerRepo.UpdateBalanceFunc = nil
		return customerRepo.UpdateBalance(ctx, tx, id, balance, expectedVersion, updatedAt)
	}

	attempts := 0
	retrier := mocks.NewMockRetrier()
	retrier.RetryFunc = func(ctx context.Context, operation func() error) error {
		for {
			attempts++
			err := operation()
			if err == nil {
				return nil
			}
			if attempts > 3 {
				return err
			}
		}
	}

	uc := usecase.NewTransactionUseCase(
		mocks.NewMockTransactionManager(),
		customerRepo,
		eventRepo,
		outboxRepo,
		mocks.NewMockIDGenerator(),
		retrier,
		mocks.NewMockCache(),
		nil,
	)

	result, err := uc.RecordTransaction(context.Background(), usecase.RecordTransactionInput{
		OwnerID:    "owner-1",
		CustomerID: "cust-1",
		Direction:  domain.DirectionGave,
		Amount:     decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, attempts)
	assert.True(t, result.Customer.Balance.Equal(decimal.NewFromInt(100)))
}

func TestTransactionUseCase_RecordTransaction_InvalidatesSummaryCache(t *testing.T) {
	ctrl := gomock.NewController(t)

	customerRepo := mocks.NewMockCustomerRepository()
	eventRepo := mocks.NewMockEventRepository(ctrl)
	eventRepo.EXPECT().CreateBatch(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	customerRepo.Create(context.Background(), nil, &domain.Customer{
		ID:      "cust-1",
		OwnerID: "owner-1",
		Balance: decimal.Zero,
	})

	deleted := make([]string, 0, 1)
	cache := mocks.NewMockCache()
	cache.DeleteFunc = func(ctx context.Context, key string) error {
		deleted = append(deleted, key)
		return nil
	}

	uc := usecase.NewTransactionUseCase(
		mocks.NewMockTransactionManager(),
		customerRepo,
		eventRepo,
		mocks.NewMockOutboxRepository(),
		mocks.NewMockIDGenerator(),
		mocks.NewMockRetrier(),
		cache,
		nil,
	)

	_, err := uc.RecordTransaction(context.Background(), usecase.RecordTransactionInput{
		OwnerID:    "owner-1",
		CustomerID: "cust-1",
		Direction:  domain.DirectionTook,
		Amount:     decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	require.Len(t, deleted, 1)
	assert.Contains(t, deleted[0], "owner-1")
}
