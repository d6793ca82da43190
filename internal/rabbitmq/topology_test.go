package rabbitmq

import (
	"context"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock topologyChannel
type mockTopologyChannel struct {
	mock.Mock
}

func (m *mockTopologyChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	callArgs := m.Called(name, kind, durable, autoDelete, internal, noWait, args)
	return callArgs.Error(0)
}

func (m *mockTopologyChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	callArgs := m.Called(name, durable, autoDelete, exclusive, noWait, args)
	return callArgs.Get(0).(amqp.Queue), callArgs.Error(1)
}

func (m *mockTopologyChannel) QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error {
	callArgs := m.Called(name, key, exchange, noWait, args)
	return callArgs.Error(0)
}

func TestDeclareDeadLetterDestination(t *testing.T) {
	const (
		exchange = "Order.Created.DeadLetter"
		queue    = "Order.Created.DeadLetter_OrderCreatedDeadLetter"
	)

	t.Run("declares durable topic exchange, durable queue and wildcard binding", func(t *testing.T) {
		ch := &mockTopologyChannel{}
		ch.On("ExchangeDeclare", exchange, "topic", true, false, false, false, amqp.Table(nil)).
			Return(nil).Once()
		ch.On("QueueDeclare", queue, true, false, false, false, amqp.Table(nil)).
			Return(amqp.Queue{Name: queue}, nil).Once()
		ch.On("QueueBind", queue, "#", exchange, false, amqp.Table(nil)).
			Return(nil).Once()

		err := declareDeadLetterDestination(ch, exchange, queue)

		assert.NoError(t, err)
		ch.AssertExpectations(t)
	})

	t.Run("exchange failure names the exchange", func(t *testing.T) {
		ch := &mockTopologyChannel{}
		declareErr := errors.New("access refused")
		ch.On("ExchangeDeclare", mock.Anything, mock.Anything, mock.Anything,
			mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(declareErr).Once()

		err := declareDeadLetterDestination(ch, exchange, queue)

		var topoErr *TopologyError
		assert.ErrorAs(t, err, &topoErr)
		assert.Equal(t, "exchange", topoErr.Component)
		assert.Equal(t, exchange, topoErr.Name)
		assert.ErrorIs(t, err, declareErr)
		ch.AssertNotCalled(t, "QueueDeclare")
		ch.AssertNotCalled(t, "QueueBind")
	})

	t.Run("queue failure names the queue", func(t *testing.T) {
		ch := &mockTopologyChannel{}
		declareErr := errors.New("precondition failed")
		ch.On("ExchangeDeclare", mock.Anything, mock.Anything, mock.Anything,
			mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil).Once()
		ch.On("QueueDeclare", mock.Anything, mock.Anything, mock.Anything,
			mock.Anything, mock.Anything, mock.Anything).
			Return(amqp.Queue{}, declareErr).Once()

		err := declareDeadLetterDestination(ch, exchange, queue)

		var topoErr *TopologyError
		assert.ErrorAs(t, err, &topoErr)
		assert.Equal(t, "queue", topoErr.Component)
		assert.Equal(t, queue, topoErr.Name)
		assert.ErrorIs(t, err, declareErr)
		ch.AssertNotCalled(t, "QueueBind")
	})

	t.Run("bind failure names both ends", func(t *testing.T) {
		ch := &mockTopologyChannel{}
		bindErr := errors.New("not found")
		ch.On("ExchangeDeclare", mock.Anything, mock.Anything, mock.Anything,
			mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil).Once()
		ch.On("QueueDeclare", mock.Anything, mock.Anything, mock.Anything,
			mock.Anything, mock.Anything, mock.Anything).
			Return(amqp.Queue{Name: queue}, nil).Once()
		ch.On("QueueBind", mock.Anything, mock.Anything, mock.Anything,
			mock.Anything, mock.Anything).
			Return(bindErr).Once()

		err := declareDeadLetterDestination(ch, exchange, queue)

		var topoErr *TopologyError
		assert.ErrorAs(t, err, &topoErr)
		assert.Equal(t, "binding", topoErr.Component)
		assert.Contains(t, topoErr.Name, queue)
		assert.Contains(t, topoErr.Name, exchange)
		assert.ErrorIs(t, err, bindErr)
	})
}

func TestDeclareDeadLetterDestinationWithoutConnection(t *testing.T) {
	pool := newTestPool(t)
	tm := NewTopologyManager(pool)

	err := tm.DeclareDeadLetterDestination(context.Background(),
		"Order.Created.DeadLetter", "Order.Created.DeadLetter_OrderCreatedDeadLetter")

	assert.ErrorIs(t, err, ErrConnectionNotReady)
}
