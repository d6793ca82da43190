package rabbitmq

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTypedErrors(t *testing.T) {
	cause := errors.New("socket closed")

	t.Run("connection error", func(t *testing.T) {
		err := &ConnectionError{
			Op:        "connect",
			URL:       "amqp://loc***672/orders",
			Err:       cause,
			Timestamp: time.Now(),
		}

		assert.Contains(t, err.Error(), "connect")
		assert.Contains(t, err.Error(), "socket closed")
		assert.ErrorIs(t, err, cause)
	})

	t.Run("channel error", func(t *testing.T) {
		err := &ChannelError{
			Op:        "get channel",
			ChannelID: "pool",
			Err:       ErrChannelPoolExhausted,
			Timestamp: time.Now(),
		}

		assert.Contains(t, err.Error(), "get channel")
		assert.Contains(t, err.Error(), "pool")
		assert.ErrorIs(t, err, ErrChannelPoolExhausted)
	})

	t.Run("publish error", func(t *testing.T) {
		err := &PublishError{
			Exchange:   "Order.Created.DeadLetter",
			RoutingKey: "order.created",
			Err:        ErrPublishNotConfirmed,
			Timestamp:  time.Now(),
		}

		assert.Contains(t, err.Error(), "Order.Created.DeadLetter")
		assert.Contains(t, err.Error(), "order.created")
		assert.ErrorIs(t, err, ErrPublishNotConfirmed)
	})

	t.Run("topology error", func(t *testing.T) {
		err := &TopologyError{
			Component: "exchange",
			Name:      "Order.Created.DeadLetter",
			Op:        "declare",
			Err:       cause,
			Timestamp: time.Now(),
		}

		assert.Contains(t, err.Error(), "declare")
		assert.Contains(t, err.Error(), "exchange")
		assert.Contains(t, err.Error(), "Order.Created.DeadLetter")
		assert.ErrorIs(t, err, cause)
	})
}
