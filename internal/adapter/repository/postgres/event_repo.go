package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khatahub/khata/internal/domain"
	"github.com/khatahub/khata/internal/usecase"
)

// EventRepository implements usecase.EventRepository on PostgreSQL.
// Events are append-only: there is no update path.
type EventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

// CreateBatch inserts the events of one reconciled transaction.
func (r *EventRepository) CreateBatch(ctx context.Context, tx usecase.Transaction, events []*domain.LedgerEvent) error {
	pgxTx := tx.(*Tx).PgxTx()

	batch := &pgx.Batch{}
	for _, ev := range events {
		batch.Queue(`
			INSERT INTO events (id, customer_id, amount, direction, label, ts)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			ev.ID,
			ev.CustomerID,
			decimalToNumeric(ev.Amount),
			string(ev.Direction),
			string(ev.Label),
			ev.Timestamp,
		)
	}

	results := pgxTx.SendBatch(ctx, batch)
	defer results.Close()

	for range events {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}

	return nil
}

// ListByCustomer lists a customer's events oldest first. ULIDs sort in
// creation order, which keeps split events (same timestamp) stable.
func (r *EventRepository) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*domain.LedgerEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, customer_id, amount, direction, label, ts
		FROM events
		WHERE customer_id = $1
		ORDER BY ts, id
		LIMIT $2 OFFSET $3`,
		customerID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListByOwner lists recent events across the owner's whole book, newest
// first.
func (r *EventRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.LedgerEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT e.id, e.customer_id, e.amount, e.direction, e.label, e.ts
		FROM events e
		JOIN customers c ON c.id = e.customer_id
		WHERE c.owner_id = $1
		ORDER BY e.ts DESC, e.id DESC
		LIMIT $2 OFFSET $3`,
		ownerID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

// DeleteByCustomer removes a customer's whole history. Only used by the
// whole-account delete path.
func (r *EventRepository) DeleteByCustomer(ctx context.Context, tx usecase.Transaction, customerID string) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `DELETE FROM events WHERE customer_id = $1`, customerID)

	return err
}

func scanEvents(rows pgx.Rows) ([]*domain.LedgerEvent, error) {
	var events []*domain.LedgerEvent

	for rows.Next() {
		var (
			ev        domain.LedgerEvent
			amount    pgtype.Numeric
			direction string
			label     string
		)

		err := rows.Scan(&ev.ID, &ev.CustomerID, &amount, &direction, &label, &ev.Timestamp)
		if err != nil {
			return nil, err
		}

		ev.Amount = numericToDecimal(amount)
		ev.Direction = domain.Direction(direction)
		ev.Label = domain.Label(label)

		events = append(events, &ev)
	}

	return events, rows.Err()
}
