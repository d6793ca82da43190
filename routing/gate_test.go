package routing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildTestRegistry(t *testing.T) *Registry {
	t.Helper()
	registry, err := BuildRegistry([]DeadLetterMapping{orderCreatedMapping()})
	assert.NoError(t, err)
	return registry
}

func TestRetryGateDecide(t *testing.T) {
	consumerErr := errors.New("handler failed")

	t.Run("first attempt requeues regardless of mapping", func(t *testing.T) {
		gate := NewRetryGate(buildTestRegistry(t))

		decision := gate.Decide(FailureContext{
			MessageType: "OrderCreated",
			Redelivered: false,
			ConsumerErr: consumerErr,
		})

		assert.Equal(t, ActionRequeue, decision.Action)
	})

	t.Run("first attempt requeues even for unregistered type", func(t *testing.T) {
		gate := NewRetryGate(buildTestRegistry(t))

		decision := gate.Decide(FailureContext{
			MessageType: "InventoryAdjusted",
			Redelivered: false,
			ConsumerErr: consumerErr,
		})

		assert.Equal(t, ActionRequeue, decision.Action)
	})

	t.Run("redelivered with missing type falls back", func(t *testing.T) {
		gate := NewRetryGate(buildTestRegistry(t))

		decision := gate.Decide(FailureContext{
			Redelivered: true,
			ConsumerErr: consumerErr,
		})

		assert.Equal(t, ActionFallback, decision.Action)
	})

	t.Run("redelivered with unregistered type falls back", func(t *testing.T) {
		gate := NewRetryGate(buildTestRegistry(t))

		decision := gate.Decide(FailureContext{
			MessageType: "InventoryAdjusted",
			Redelivered: true,
			ConsumerErr: consumerErr,
		})

		assert.Equal(t, ActionFallback, decision.Action)
	})

	t.Run("redelivered with registered type routes to dead letter", func(t *testing.T) {
		gate := NewRetryGate(buildTestRegistry(t))

		decision := gate.Decide(FailureContext{
			MessageType: "OrderCreated",
			Redelivered: true,
			ConsumerErr: consumerErr,
		})

		assert.Equal(t, ActionRouteDeadLetter, decision.Action)
		assert.Equal(t, "OrderCreatedDeadLetter", decision.Mapping.Target.TypeName)
	})
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "requeue", ActionRequeue.String())
	assert.Equal(t, "fallback", ActionFallback.String())
	assert.Equal(t, "route-dead-letter", ActionRouteDeadLetter.String())
}
