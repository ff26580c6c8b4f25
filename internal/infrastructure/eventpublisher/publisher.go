package eventpublisher

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/khatahub/khata/internal/domain"
	"github.com/khatahub/khata/internal/infrastructure/metrics"
	"github.com/khatahub/khata/internal/usecase"
)

// EventPublisher drains the outbox table and hands each event to a
// Publisher. Events are written in the same transaction as the ledger
// change, so a subscriber eventually sees every committed write even if
// the process crashed between commit and publish.
type EventPublisher struct {
	outboxRepo usecase.OutboxRepository
	publisher  Publisher
	logger     *slog.Logger
	metrics    *metrics.Metrics
	batchSize  int
	interval   time.Duration
}

// Publisher defines the interface for publishing events to external systems.
type Publisher interface {
	Publish(ctx context.Context, event *domain.OutboxEvent) error
}

// Config for EventPublisher.
type Config struct {
	OutboxRepo usecase.OutboxRepository
	Publisher  Publisher
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
	BatchSize  int           // Number of events to fetch per batch
	Interval   time.Duration // Polling interval
}

// NewEventPublisher creates a new EventPublisher.
func NewEventPublisher(cfg Config) *EventPublisher {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.Interval == 0 {
		cfg.Interval = 2 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &EventPublisher{
		outboxRepo: cfg.OutboxRepo,
		publisher:  cfg.Publisher,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
		batchSize:  cfg.BatchSize,
		interval:   cfg.Interval,
	}
}

// Start begins the event publishing worker.
// It runs continuously until the context is cancelled.
func (ep *EventPublisher) Start(ctx context.Context) error {
	ep.logger.Info("event publisher started",
		slog.Int("batch_size", ep.batchSize),
		slog.Duration("interval", ep.interval))

	ticker := time.NewTicker(ep.interval)
	defer ticker.Stop()

	// Process immediately on start
	if err := ep.processEvents(ctx); err != nil {
		ep.logger.Error("error processing events on start", slog.String("error", err.Error()))
	}

	for {
		select {
		case <-ctx.Done():
			ep.logger.Info("event publisher shutting down")
			return ctx.Err()
		case <-ticker.C:
			if err := ep.processEvents(ctx); err != nil {
				ep.logger.Error("error processing events", slog.String("error", err.Error()))
			}
		}
	}
}

// processEvents fetches and publishes a batch of unpublished events.
func (ep *EventPublisher) processEvents(ctx context.Context) error {
	events, err := ep.outboxRepo.GetUnpublished(ctx, ep.batchSize)
	if err != nil {
		return err
	}

	if ep.metrics != nil {
		ep.metrics.OutboxBacklog.Set(float64(len(events)))
	}

	if len(events) == 0 {
		return nil
	}

	ep.logger.Debug("processing outbox events", slog.Int("count", len(events)))

	for _, event := range events {
		if err := ep.publisher.Publish(ctx, event); err != nil {
			ep.logger.Error("failed to publish event",
				slog.String("event_id", event.ID),
				slog.String("event_type", event.EventType),
				slog.String("error", err.Error()))
			if ep.metrics != nil {
				ep.metrics.OutboxFailures.Inc()
			}
			// Continue processing other events even if one fails
			continue
		}

		if ep.metrics != nil {
			ep.metrics.OutboxPublished.Inc()
		}

		// Mark as published
		if err := ep.outboxRepo.MarkPublished(ctx, event.ID, time.Now()); err != nil {
			ep.logger.Error("failed to mark event as published",
				slog.String("event_id", event.ID),
				slog.String("error", err.Error()))
			// Don't continue - we don't want to re-publish this event
		}
	}

	return nil
}

// ChangeNotifier publishes change payloads to per-owner channels.
type ChangeNotifier interface {
	Publish(ctx context.Context, ownerID string, payload []byte) error
}

// NotifierPublisher bridges outbox events onto a ChangeNotifier so live
// watch streams pick them up.
type NotifierPublisher struct {
	notifier ChangeNotifier
}

// NewNotifierPublisher creates a new NotifierPublisher.
func NewNotifierPublisher(notifier ChangeNotifier) *NotifierPublisher {
	return &NotifierPublisher{notifier: notifier}
}

// Publish serializes the event and pushes it to the owner's channel.
func (p *NotifierPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	envelope := struct {
		ID          string         `json:"id"`
		Type        string         `json:"type"`
		AggregateID string         `json:"aggregate_id"`
		Payload     map[string]any `json:"payload"`
		CreatedAt   time.Time      `json:"created_at"`
	}{
		ID:          event.ID,
		Type:        event.EventType,
		AggregateID: event.AggregateID,
		Payload:     event.Payload,
		CreatedAt:   event.CreatedAt,
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	return p.notifier.Publish(ctx, event.OwnerID, body)
}

// LogPublisher is a simple publisher that logs events. Used by the CLI and
// in environments without Redis.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

// Publish logs the event.
func (p *LogPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	p.logger.Info("event published",
		slog.String("event_id", event.ID),
		slog.String("event_type", event.EventType),
		slog.String("aggregate_type", event.AggregateType),
		slog.String("aggregate_id", event.AggregateID),
		slog.String("payload", string(payload)))

	return nil
}
