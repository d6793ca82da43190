package routing

import (
	amqp "github.com/rabbitmq/amqp091-go"
)

// FailureContext carries the per-invocation data for one failed delivery.
// It is created fresh for each failure and never persisted.
type FailureContext struct {
	// Body is the original message body, passed through opaque.
	Body []byte

	// MessageType identifies the message's logical type. Empty when the
	// delivery carried no type property.
	MessageType string

	// RoutingKey is the original delivery's routing key.
	RoutingKey string

	// Redelivered is the broker-supplied redelivery flag.
	Redelivered bool

	// Queue is the queue the delivery was consumed from, when known.
	Queue string

	// ConsumerErr is the error that triggered routing.
	ConsumerErr error
}

// NewFailureContext builds a FailureContext from a delivery and the consumer
// error that failed it. The message type is read from the delivery's Type
// property.
func NewFailureContext(delivery amqp.Delivery, consumerErr error) FailureContext {
	return FailureContext{
		Body:        delivery.Body,
		MessageType: delivery.Type,
		RoutingKey:  delivery.RoutingKey,
		Redelivered: delivery.Redelivered,
		ConsumerErr: consumerErr,
	}
}
