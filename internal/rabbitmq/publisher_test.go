package rabbitmq

import (
	"context"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
)

type stubConfirmation struct {
	done  chan struct{}
	acked bool
}

func (s *stubConfirmation) Done() <-chan struct{} { return s.done }
func (s *stubConfirmation) Acked() bool           { return s.acked }

func resolvedConfirmation(acked bool) *stubConfirmation {
	done := make(chan struct{})
	close(done)
	return &stubConfirmation{done: done, acked: acked}
}

func TestNewPublisher(t *testing.T) {
	pool := newTestPool(t)

	t.Run("default confirm timeout", func(t *testing.T) {
		p := NewPublisher(pool)
		assert.Equal(t, 5*time.Second, p.confirmTimeout)
	})

	t.Run("confirm timeout option", func(t *testing.T) {
		p := NewPublisher(pool, WithConfirmTimeout(250*time.Millisecond))
		assert.Equal(t, 250*time.Millisecond, p.confirmTimeout)
	})
}

func TestAwaitConfirm(t *testing.T) {
	pool := newTestPool(t)
	publisher := NewPublisher(pool, WithConfirmTimeout(20*time.Millisecond))

	t.Run("acked publish succeeds", func(t *testing.T) {
		err := publisher.awaitConfirm(context.Background(), resolvedConfirmation(true))
		assert.NoError(t, err)
	})

	t.Run("nacked publish reports unconfirmed", func(t *testing.T) {
		err := publisher.awaitConfirm(context.Background(), resolvedConfirmation(false))
		assert.ErrorIs(t, err, ErrPublishNotConfirmed)
	})

	t.Run("missing confirmation times out", func(t *testing.T) {
		pending := &stubConfirmation{done: make(chan struct{})}

		err := publisher.awaitConfirm(context.Background(), pending)
		assert.ErrorIs(t, err, ErrPublishNotConfirmed)
	})

	t.Run("cancelled context stops the wait", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		pending := &stubConfirmation{done: make(chan struct{})}

		err := publisher.awaitConfirm(ctx, pending)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("repeated publishes each wait on their own confirmation", func(t *testing.T) {
		for i := 0; i < 10; i++ {
			err := publisher.awaitConfirm(context.Background(), resolvedConfirmation(true))
			assert.NoError(t, err)
		}
	})
}

func TestPublishWithoutConnection(t *testing.T) {
	pool := newTestPool(t)
	publisher := NewPublisher(pool)

	err := publisher.Publish(context.Background(),
		"Order.Created.DeadLetter", "order.created", amqp.Publishing{})

	var pubErr *PublishError
	assert.ErrorAs(t, err, &pubErr)
	assert.Equal(t, "Order.Created.DeadLetter", pubErr.Exchange)
	assert.ErrorIs(t, err, ErrConnectionNotReady)
}
