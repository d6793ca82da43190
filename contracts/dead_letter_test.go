package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeadLetterTargetQueueName(t *testing.T) {
	t.Run("derives queue name from declared queue and type name", func(t *testing.T) {
		target := DeadLetterTarget{
			TypeName: "OrderCreatedDeadLetter",
			Queue:    "Order.Created.DeadLetter",
			Exchange: "Order.Created.DeadLetter",
		}

		assert.Equal(t, "Order.Created.DeadLetter_OrderCreatedDeadLetter", target.QueueName())
	})
}

func TestDeadLetterTargetHasNaming(t *testing.T) {
	t.Run("true when queue and exchange declared", func(t *testing.T) {
		target := DeadLetterTarget{
			TypeName: "PaymentFailedDeadLetter",
			Queue:    "Payment.Failed.DeadLetter",
			Exchange: "Payment.Failed.DeadLetter",
		}

		assert.True(t, target.HasNaming())
	})

	t.Run("false when queue missing", func(t *testing.T) {
		target := DeadLetterTarget{
			TypeName: "PaymentFailedDeadLetter",
			Exchange: "Payment.Failed.DeadLetter",
		}

		assert.False(t, target.HasNaming())
	})

	t.Run("false when exchange missing", func(t *testing.T) {
		target := DeadLetterTarget{
			TypeName: "PaymentFailedDeadLetter",
			Queue:    "Payment.Failed.DeadLetter",
		}

		assert.False(t, target.HasNaming())
	})
}

func TestBaseMessage(t *testing.T) {
	t.Run("new base message has ID and timestamp", func(t *testing.T) {
		msg := NewBaseMessage("OrderCreated")

		assert.NotEmpty(t, msg.GetID())
		assert.Equal(t, "OrderCreated", msg.GetType())
		assert.False(t, msg.GetTimestamp().IsZero())
	})

	t.Run("correlation ID round-trips", func(t *testing.T) {
		msg := NewBaseMessage("OrderCreated")
		msg.SetCorrelationID("corr-1")

		assert.Equal(t, "corr-1", msg.GetCorrelationID())
	})
}
