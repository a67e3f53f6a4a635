// Package event publishes widget analytics events to Kafka. Publishing is
// best-effort: a broker outage must never degrade the shopper-facing widget,
// so callers log failures and move on.
package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/afmejia23/reviews-and-ratings/pkg/kafka"
)

// Kafka topic constants for widget analytics events.
const (
	TopicSessionStarted  = "storefront.review_widget.session_started"
	TopicReviewSubmitted = "storefront.review_widget.review_submitted"
)

// Aggregate type constant.
const AggregateTypeWidgetSession = "widget_session"

// Source identifier for events originating from this service.
const SourceReviewsWidget = "reviews-widget"

// SessionStartedData is the payload for a session_started event.
type SessionStartedData struct {
	SessionID string `json:"session_id"`
	ProductID string `json:"product_id"`
}

// ReviewSubmittedData is the payload for a review_submitted event.
type ReviewSubmittedData struct {
	SessionID string `json:"session_id"`
	ProductID string `json:"product_id"`
	ReviewID  string `json:"review_id"`
	Rating    int    `json:"rating"`
}

// Producer publishes widget analytics events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new analytics event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishSessionStarted publishes a session_started event.
func (p *Producer) PublishSessionStarted(ctx context.Context, sessionID, productID string) error {
	data := SessionStartedData{
		SessionID: sessionID,
		ProductID: productID,
	}

	event, err := pkgkafka.NewEvent(TopicSessionStarted, sessionID, AggregateTypeWidgetSession, SourceReviewsWidget, data)
	if err != nil {
		return fmt.Errorf("create session_started event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicSessionStarted, event); err != nil {
		return fmt.Errorf("publish session_started event: %w", err)
	}

	p.logger.DebugContext(ctx, "published session_started event",
		slog.String("session_id", sessionID),
		slog.String("product_id", productID),
	)

	return nil
}

// PublishReviewSubmitted publishes a review_submitted event.
func (p *Producer) PublishReviewSubmitted(ctx context.Context, sessionID, productID, reviewID string, rating int) error {
	data := ReviewSubmittedData{
		SessionID: sessionID,
		ProductID: productID,
		ReviewID:  reviewID,
		Rating:    rating,
	}

	event, err := pkgkafka.NewEvent(TopicReviewSubmitted, sessionID, AggregateTypeWidgetSession, SourceReviewsWidget, data)
	if err != nil {
		return fmt.Errorf("create review_submitted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewSubmitted, event); err != nil {
		return fmt.Errorf("publish review_submitted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review_submitted event",
		slog.String("session_id", sessionID),
		slog.String("review_id", reviewID),
		slog.Int("rating", rating),
	)

	return nil
}
