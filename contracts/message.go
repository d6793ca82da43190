package contracts

import (
	"time"
)

// Message is the base interface for all messages
type Message interface {
	GetID() string
	GetTimestamp() time.Time
	GetType() string
	GetCorrelationID() string
	SetCorrelationID(correlationID string)
}

// DeadLetterCarrier is implemented by message types that declare a
// dead-letter destination. The routing engine never discovers carriers by
// reflection; hosts collect them explicitly at registration time.
type DeadLetterCarrier interface {
	Message
	DeadLetterTarget() DeadLetterTarget
}
