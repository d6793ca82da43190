package rabbitmq

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// TopologyManager declares RabbitMQ topology (exchanges, queues, bindings).
// Declarations with identical parameters are idempotent on the broker, so
// repeating them is harmless.
type TopologyManager struct {
	pool *ChannelPool
}

// ExchangeDeclaration defines an exchange to be declared
type ExchangeDeclaration struct {
	Name       string
	Type       string
	Durable    bool
	AutoDelete bool
	Arguments  amqp.Table
}

// QueueDeclaration defines a queue to be declared
type QueueDeclaration struct {
	Name       string
	Durable    bool
	AutoDelete bool
	Exclusive  bool
	Arguments  amqp.Table
}

// Binding defines a queue-to-exchange binding
type Binding struct {
	Queue      string
	Exchange   string
	RoutingKey string
	Arguments  amqp.Table
}

// topologyChannel is the subset of *amqp.Channel the declarations use.
type topologyChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
}

// NewTopologyManager creates a new topology manager
func NewTopologyManager(pool *ChannelPool) *TopologyManager {
	return &TopologyManager{
		pool: pool,
	}
}

// DeclareDeadLetterDestination declares a dead-letter destination on a single
// channel: a durable topic exchange, a durable queue, and a wildcard binding
// so every routing key on the exchange reaches the queue.
func (tm *TopologyManager) DeclareDeadLetterDestination(ctx context.Context, exchange, queue string) error {
	return tm.pool.Execute(ctx, func(ch *amqp.Channel) error {
		return declareDeadLetterDestination(ch, exchange, queue)
	})
}

// declareDeadLetterDestination performs the declarations on an open channel,
// wrapping each failure in a TopologyError naming the component that failed.
func declareDeadLetterDestination(ch topologyChannel, exchange, queue string) error {
	err := declareExchange(ch, ExchangeDeclaration{
		Name:    exchange,
		Type:    "topic",
		Durable: true,
	})
	if err != nil {
		return &TopologyError{
			Component: "exchange",
			Name:      exchange,
			Op:        "declare",
			Err:       err,
			Timestamp: time.Now(),
		}
	}

	_, err = declareQueue(ch, QueueDeclaration{
		Name:    queue,
		Durable: true,
	})
	if err != nil {
		return &TopologyError{
			Component: "queue",
			Name:      queue,
			Op:        "declare",
			Err:       err,
			Timestamp: time.Now(),
		}
	}

	err = bindQueue(ch, Binding{
		Queue:      queue,
		Exchange:   exchange,
		RoutingKey: "#",
	})
	if err != nil {
		return &TopologyError{
			Component: "binding",
			Name:      queue + " -> " + exchange,
			Op:        "bind",
			Err:       err,
			Timestamp: time.Now(),
		}
	}

	return nil
}

// declareExchange declares an exchange on the given channel
func declareExchange(ch topologyChannel, exchange ExchangeDeclaration) error {
	return ch.ExchangeDeclare(
		exchange.Name,
		exchange.Type,
		exchange.Durable,
		exchange.AutoDelete,
		false, // internal
		false, // no-wait
		exchange.Arguments,
	)
}

// declareQueue declares a queue on the given channel
func declareQueue(ch topologyChannel, queue QueueDeclaration) (amqp.Queue, error) {
	return ch.QueueDeclare(
		queue.Name,
		queue.Durable,
		queue.AutoDelete,
		queue.Exclusive,
		false, // no-wait
		queue.Arguments,
	)
}

// bindQueue binds a queue to an exchange on the given channel
func bindQueue(ch topologyChannel, binding Binding) error {
	return ch.QueueBind(
		binding.Queue,
		binding.RoutingKey,
		binding.Exchange,
		false, // no-wait
		binding.Arguments,
	)
}
