package routing

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ConfirmedPublisher publishes a message and returns nil only once the broker
// has taken ownership of it.
type ConfirmedPublisher interface {
	Publish(ctx context.Context, exchange, routingKey string, msg amqp.Publishing) error
}

// Republisher moves a failed message's original body to its provisioned
// destination, tagged with the dead-letter type identity. The body is
// published verbatim; no transformation or re-encoding. It performs no
// retries of its own: a publish failure is an overall routing failure.
type Republisher struct {
	publisher ConfirmedPublisher
	logger    *slog.Logger
}

// RepublisherOption configures the republisher
type RepublisherOption func(*Republisher)

// WithRepublisherLogger sets the logger
func WithRepublisherLogger(logger *slog.Logger) RepublisherOption {
	return func(r *Republisher) {
		r.logger = logger
	}
}

// NewRepublisher creates a new republisher
func NewRepublisher(publisher ConfirmedPublisher, options ...RepublisherOption) *Republisher {
	r := &Republisher{
		publisher: publisher,
		logger:    slog.Default(),
	}

	for _, opt := range options {
		opt(r)
	}

	return r
}

// Publish publishes body to the destination exchange using the original
// routing key, marked persistent and typed as the dead-letter type.
func (r *Republisher) Publish(ctx context.Context, exchange, routingKey, deadLetterType string, body []byte) error {
	msg := amqp.Publishing{
		MessageId:    uuid.New().String(),
		Type:         deadLetterType,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := r.publisher.Publish(ctx, exchange, routingKey, msg); err != nil {
		return err
	}

	r.logger.Debug("republished failed message to dead-letter destination",
		"exchange", exchange,
		"routingKey", routingKey,
		"deadLetterType", deadLetterType,
	)

	return nil
}
