package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	pkgkafka "github.com/doltnamn-se/doltnamn/pkg/kafka"
	"github.com/doltnamn-se/doltnamn/pkg/logger"
	"github.com/doltnamn-se/doltnamn/services/privacy/internal/domain"
)

// Kafka topics for privacy domain events.
var (
	TopicGuideToggled     = pkgkafka.Topic("guide", "toggled")
	TopicChecklistUpdated = pkgkafka.Topic("checklist", "updated")
	TopicURLSubmitted     = pkgkafka.Topic("url", "submitted")
)

// Aggregate type constants.
const (
	AggregateTypeCustomer    = "customer"
	AggregateTypeIncomingURL = "incoming_url"
)

// SourcePrivacyService identifies events originating from this service.
const SourcePrivacyService = "privacy-service"

// GuideToggledData is the payload for a guide.toggled event.
type GuideToggledData struct {
	CustomerID      string           `json:"customer_id"`
	GuideID         domain.GuideID   `json:"guide_id"`
	Completed       bool             `json:"completed"`
	CompletedGuides []domain.GuideID `json:"completed_guides"`
}

// ChecklistUpdatedData is the payload for a checklist.updated event.
type ChecklistUpdatedData struct {
	CustomerID  string    `json:"customer_id"`
	Change      string    `json:"change"`
	Steps       []bool    `json:"steps"`
	CurrentStep int       `json:"current_step"`
	Percent     int       `json:"percent"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// URLSubmittedData is the payload for a url.submitted event.
type URLSubmittedData struct {
	URLID      string            `json:"url_id"`
	CustomerID string            `json:"customer_id"`
	URL        string            `json:"url"`
	Status     domain.StatusStep `json:"status"`
	At         time.Time         `json:"at"`
}

type publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes privacy domain events to Kafka.
type Producer struct {
	kafka  publisher
	logger *slog.Logger
}

// NewProducer creates a new event producer for the privacy service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, SourcePrivacyService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		event.WithCorrelationID(id)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("event_id", event.EventID),
		slog.String("aggregate_id", aggregateID),
	)
	return nil
}

// PublishGuideToggled publishes a guide.toggled event.
func (p *Producer) PublishGuideToggled(ctx context.Context, customerID string, toggle *domain.GuideToggle) error {
	data := GuideToggledData{
		CustomerID:      customerID,
		GuideID:         toggle.GuideID,
		Completed:       toggle.Completed,
		CompletedGuides: toggle.CompletedGuides.Sorted(),
	}
	return p.publish(ctx, TopicGuideToggled, customerID, AggregateTypeCustomer, data)
}

// PublishChecklistUpdated publishes a checklist.updated event. change names
// the step that was written, e.g. "password" or "sites".
func (p *Producer) PublishChecklistUpdated(ctx context.Context, customerID, change string, progress *domain.ChecklistProgress) error {
	data := ChecklistUpdatedData{
		CustomerID:  customerID,
		Change:      change,
		Steps:       progress.Steps(),
		CurrentStep: progress.CurrentStep(),
		Percent:     progress.OverallProgress().Percent,
		UpdatedAt:   progress.UpdatedAt,
	}
	return p.publish(ctx, TopicChecklistUpdated, customerID, AggregateTypeCustomer, data)
}

// PublishURLSubmitted publishes a url.submitted event.
func (p *Producer) PublishURLSubmitted(ctx context.Context, u *domain.IncomingURL) error {
	data := URLSubmittedData{
		URLID:      u.ID,
		CustomerID: u.CustomerID,
		URL:        u.URL,
		Status:     u.Status,
		At:         u.CreatedAt,
	}
	return p.publish(ctx, TopicURLSubmitted, u.ID, AggregateTypeIncomingURL, data)
}
