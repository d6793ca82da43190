package rabbitmq

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher handles message publishing to RabbitMQ with publisher confirms.
// It performs no retries; a failed publish is reported to the caller so the
// routing engine can fall back instead of blocking the consumer handler.
type Publisher struct {
	pool           *ChannelPool
	confirmTimeout time.Duration
}

// PublisherOption configures the publisher
type PublisherOption func(*Publisher)

// WithConfirmTimeout sets the confirmation timeout
func WithConfirmTimeout(timeout time.Duration) PublisherOption {
	return func(p *Publisher) {
		p.confirmTimeout = timeout
	}
}

// NewPublisher creates a new publisher
func NewPublisher(pool *ChannelPool, options ...PublisherOption) *Publisher {
	p := &Publisher{
		pool:           pool,
		confirmTimeout: 5 * time.Second,
	}

	for _, opt := range options {
		opt(p)
	}

	return p
}

// confirmation is the broker acknowledgement a single publish waits on.
// *amqp.DeferredConfirmation implements it.
type confirmation interface {
	Done() <-chan struct{}
	Acked() bool
}

var _ confirmation = (*amqp.DeferredConfirmation)(nil)

// Publish publishes a message and waits for broker confirmation. On nil
// return the broker has taken ownership of the message.
//
// Confirmations are tracked per publish via the channel's deferred
// confirmation, so pooled channels are reused across publishes without
// registering a confirm listener each time.
func (p *Publisher) Publish(ctx context.Context, exchange, routingKey string, msg amqp.Publishing) error {
	ch, err := p.pool.Get(ctx)
	if err != nil {
		return &PublishError{
			Exchange:   exchange,
			RoutingKey: routingKey,
			Err:        err,
			Timestamp:  time.Now(),
		}
	}
	defer p.pool.Put(ch)

	// Repeating confirm.select on a channel already in confirm mode is a
	// no-op on the broker.
	if err := ch.Confirm(false); err != nil {
		return &PublishError{
			Exchange:   exchange,
			RoutingKey: routingKey,
			Err:        fmt.Errorf("failed to enable confirms: %w", err),
			Timestamp:  time.Now(),
		}
	}

	conf, err := ch.PublishWithDeferredConfirmWithContext(
		ctx,
		exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		msg,
	)
	if err != nil {
		return &PublishError{
			Exchange:   exchange,
			RoutingKey: routingKey,
			Err:        err,
			Timestamp:  time.Now(),
		}
	}

	if err := p.awaitConfirm(ctx, conf); err != nil {
		return &PublishError{
			Exchange:   exchange,
			RoutingKey: routingKey,
			Err:        err,
			Timestamp:  time.Now(),
		}
	}

	return nil
}

// awaitConfirm blocks until the broker acks or nacks the publish, the
// confirm timeout elapses, or ctx is cancelled.
func (p *Publisher) awaitConfirm(ctx context.Context, conf confirmation) error {
	select {
	case <-conf.Done():
		if !conf.Acked() {
			return ErrPublishNotConfirmed
		}
		return nil

	case <-time.After(p.confirmTimeout):
		return fmt.Errorf("%w: no confirmation within %v", ErrPublishNotConfirmed, p.confirmTimeout)

	case <-ctx.Done():
		return ctx.Err()
	}
}
