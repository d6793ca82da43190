package routing

import (
	"context"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Resolution is the outcome the host must apply to the original delivery
type Resolution int

const (
	// Ack consumes the original delivery: the message was either handed to
	// the broker for its dead-letter destination or persisted by fallback.
	Ack Resolution = iota

	// NackRequeue returns the delivery to its queue for one more attempt.
	NackRequeue
)

func (r Resolution) String() string {
	switch r {
	case Ack:
		return "ack"
	case NackRequeue:
		return "nack-requeue"
	default:
		return "unknown"
	}
}

// Router is the failure-handling entry point. It composes the retry gate,
// registry, topology provisioner, and republisher into the per-failure
// pipeline, falling back to default error handling whenever routing cannot
// be determined or fails.
type Router struct {
	gate        *RetryGate
	provisioner *TopologyProvisioner
	republisher *Republisher
	fallback    FallbackHandler
	logger      *slog.Logger
}

// RouterOption configures the router
type RouterOption func(*Router)

// WithRouterLogger sets the logger
func WithRouterLogger(logger *slog.Logger) RouterOption {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithFallbackHandler sets the default error handling delegate
func WithFallbackHandler(fallback FallbackHandler) RouterOption {
	return func(r *Router) {
		r.fallback = fallback
	}
}

// NewRouter creates a new failure router. Without WithFallbackHandler the
// router persists fallback messages to an in-memory error store.
func NewRouter(registry *Registry, provisioner *TopologyProvisioner, republisher *Republisher, options ...RouterOption) *Router {
	r := &Router{
		gate:        NewRetryGate(registry),
		provisioner: provisioner,
		republisher: republisher,
		logger:      slog.Default(),
	}

	for _, opt := range options {
		opt(r)
	}

	if r.fallback == nil {
		r.fallback = NewStoreFallback(NewInMemoryErrorStore(), r.logger)
	}

	return r
}

// HandleFailure runs the routing pipeline for one consumer failure and
// returns the resolution the host must apply to the original delivery. It
// never returns an error: routing failures are absorbed by the fallback
// chain, and a fallback failure resolves to NackRequeue so the broker keeps
// the message.
func (r *Router) HandleFailure(ctx context.Context, fc FailureContext) Resolution {
	decision := r.gate.Decide(fc)

	switch decision.Action {
	case ActionRequeue:
		r.logger.Debug("first delivery attempt failed, requeueing",
			"messageType", fc.MessageType,
			"routingKey", fc.RoutingKey,
		)
		return NackRequeue

	case ActionRouteDeadLetter:
		if err := r.route(ctx, fc, decision.Mapping); err != nil {
			r.logger.Error("dead-letter routing failed, delegating to fallback",
				"messageType", fc.MessageType,
				"error", err,
			)
			return r.delegate(ctx, fc, &RoutingError{
				MessageType: fc.MessageType,
				ConsumerErr: fc.ConsumerErr,
				Err:         err,
			})
		}

		r.logger.Info("failed message routed to dead-letter destination",
			"messageType", fc.MessageType,
			"deadLetterType", decision.Mapping.Target.TypeName,
			"exchange", decision.Mapping.Target.Exchange,
		)
		return Ack

	default:
		return r.delegate(ctx, fc, fc.ConsumerErr)
	}
}

// HandleDelivery is the convenience entry point for hosts consuming with
// amqp091: it builds the FailureContext from the delivery metadata, runs the
// pipeline, and applies the resolution to the delivery itself.
func (r *Router) HandleDelivery(ctx context.Context, delivery amqp.Delivery, consumerErr error) error {
	fc := NewFailureContext(delivery, consumerErr)

	switch r.HandleFailure(ctx, fc) {
	case NackRequeue:
		return delivery.Nack(false, true)
	default:
		return delivery.Ack(false)
	}
}

// route provisions the destination and republishes the original body
func (r *Router) route(ctx context.Context, fc FailureContext, mapping DeadLetterMapping) error {
	exchange, err := r.provisioner.Ensure(ctx, mapping)
	if err != nil {
		return err
	}

	return r.republisher.Publish(ctx, exchange, fc.RoutingKey, mapping.Target.TypeName, fc.Body)
}

// delegate hands the failure to default error handling. If that also fails
// the delivery is requeued so the message survives on the broker.
func (r *Router) delegate(ctx context.Context, fc FailureContext, err error) Resolution {
	if fbErr := r.fallback.Handle(ctx, fc, err); fbErr != nil {
		r.logger.Error("fallback handling failed, requeueing delivery",
			"messageType", fc.MessageType,
			"error", fbErr,
		)
		return NackRequeue
	}
	return Ack
}
