package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khatahub/khata/internal/domain"
	"github.com/khatahub/khata/internal/usecase"
)

// OutboxRepository implements usecase.OutboxRepository on PostgreSQL.
// Change notifications are committed in the same transaction as the
// mutation they describe, then drained by the event publisher.
type OutboxRepository struct {
	pool *pgxpool.Pool
}

// NewOutboxRepository creates a new OutboxRepository.
func NewOutboxRepository(pool *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{pool: pool}
}

// Create inserts an outbox event inside the caller's transaction.
func (r *OutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	pgxTx := tx.(*Tx).PgxTx()

	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	_, err = pgxTx.Exec(ctx, `
		INSERT INTO outbox_events (id, owner_id, aggregate_id, aggregate_type, event_type, payload, created_at, published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, false)`,
		event.ID,
		event.OwnerID,
		event.AggregateID,
		event.AggregateType,
		event.EventType,
		payload,
		event.CreatedAt,
	)

	return err
}

// GetUnpublished fetches pending events, oldest first.
func (r *OutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, owner_id, aggregate_id, aggregate_type, event_type, payload, created_at
		FROM outbox_events
		WHERE NOT published
		ORDER BY created_at, id
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.OutboxEvent
	for rows.Next() {
		var (
			ev      domain.OutboxEvent
			payload []byte
		)

		err := rows.Scan(&ev.ID, &ev.OwnerID, &ev.AggregateID, &ev.AggregateType, &ev.EventType, &payload, &ev.CreatedAt)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal(payload, &ev.Payload); err != nil {
			return nil, err
		}

		events = append(events, &ev)
	}

	return events, rows.Err()
}

// MarkPublished flags an event as delivered.
func (r *OutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE outbox_events
		SET published = true, published_at = $2
		WHERE id = $1`,
		id, publishedAt,
	)

	return err
}

// DeletePublished prunes delivered events older than the cutoff.
func (r *OutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM outbox_events
		WHERE published AND created_at < $1`,
		before,
	)

	return err
}
