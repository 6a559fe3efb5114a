package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/doltnamn-se/doltnamn/pkg/errors"
	pkgkafka "github.com/doltnamn-se/doltnamn/pkg/kafka"
	"github.com/doltnamn-se/doltnamn/services/privacy/internal/domain"
)

// TopicStatusChanged is published by the deindexing workflow whenever a
// submitted URL moves to a new lifecycle step.
var TopicStatusChanged = pkgkafka.Topic("deindex", "status_changed")

// ConsumerGroupID is the consumer group of the privacy service.
const ConsumerGroupID = "privacy-service"

// idempotencyTTL bounds how long processed event ids are remembered.
const idempotencyTTL = 24 * time.Hour

// StatusChangedData is the expected payload of a deindex.status_changed event.
type StatusChangedData struct {
	URLID string            `json:"url_id"`
	Step  domain.StatusStep `json:"step"`
	At    time.Time         `json:"at"`
}

// StatusRecorder appends lifecycle steps to submitted URLs.
type StatusRecorder interface {
	RecordStatusChange(ctx context.Context, urlID string, step domain.StatusStep, at time.Time) (*domain.IncomingURL, error)
}

// ConsumerHandler routes incoming Kafka events to the status recorder.
type ConsumerHandler struct {
	recorder StatusRecorder
	logger   *slog.Logger
}

// NewConsumerHandler creates a new event consumer handler.
func NewConsumerHandler(recorder StatusRecorder, logger *slog.Logger) *ConsumerHandler {
	return &ConsumerHandler{
		recorder: recorder,
		logger:   logger,
	}
}

// Handle processes an incoming Kafka event based on its event type.
func (h *ConsumerHandler) Handle(ctx context.Context, event *pkgkafka.Event) error {
	switch event.EventType {
	case TopicStatusChanged:
		return h.handleStatusChanged(ctx, event)
	default:
		h.logger.WarnContext(ctx, "unknown event type received",
			slog.String("event_type", event.EventType),
			slog.String("event_id", event.EventID),
		)
		return nil
	}
}

func (h *ConsumerHandler) handleStatusChanged(ctx context.Context, event *pkgkafka.Event) error {
	var data StatusChangedData
	if err := event.UnmarshalData(&data); err != nil {
		return pkgkafka.Permanent(err)
	}
	if data.URLID == "" {
		return pkgkafka.Permanent(fmt.Errorf("%s event %s has no url_id", event.EventType, event.EventID))
	}
	if data.At.IsZero() {
		data.At = event.Timestamp
	}

	u, err := h.recorder.RecordStatusChange(ctx, data.URLID, data.Step, data.At)
	if err != nil {
		err = fmt.Errorf("record status %s for url %s: %w", data.Step, data.URLID, err)
		if isUnrecoverable(err) {
			return pkgkafka.Permanent(err)
		}
		return err
	}

	h.logger.InfoContext(ctx, "status change recorded",
		slog.String("url_id", u.ID),
		slog.String("customer_id", u.CustomerID),
		slog.String("status", string(u.Status)),
	)
	return nil
}

// isUnrecoverable reports errors that redelivery cannot fix.
func isUnrecoverable(err error) bool {
	return errors.Is(err, apperrors.ErrStatusRegression) ||
		errors.Is(err, apperrors.ErrUnknownStatus) ||
		errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrInvalidRecord) ||
		errors.Is(err, apperrors.ErrInvalidInput)
}

// ConsumerConfig holds the Kafka settings for the status consumer.
type ConsumerConfig struct {
	Brokers      []string
	MaxRetries   int
	RetryBackoff time.Duration
}

// NewConsumers creates the Kafka consumers the privacy service runs. Event ids
// are deduplicated in Redis and failed messages go to the dead-letter topic.
func NewConsumers(cfg ConsumerConfig, handler *ConsumerHandler, client redis.Cmdable, dlq pkgkafka.DeadLetterPublisher, logger *slog.Logger) []*pkgkafka.Consumer {
	store := pkgkafka.NewRedisIdempotencyStore(client, "privacy:events", idempotencyTTL)
	topics := []string{TopicStatusChanged}

	consumers := make([]*pkgkafka.Consumer, 0, len(topics))
	for _, topic := range topics {
		consumer := pkgkafka.NewConsumer(pkgkafka.ConsumerConfig{
			Brokers:      cfg.Brokers,
			GroupID:      ConsumerGroupID,
			Topic:        topic,
			MinBytes:     1,
			MaxBytes:     10e6,
			MaxRetries:   cfg.MaxRetries,
			RetryBackoff: cfg.RetryBackoff,
		}, pkgkafka.IdempotentHandler(store, handler.Handle, logger), logger)
		if dlq != nil {
			consumer = consumer.WithDLQ(dlq)
		}
		consumers = append(consumers, consumer)
	}
	return consumers
}
