package routing

import (
	"errors"
	"fmt"

	"github.com/glimte/deadletter-go/contracts"
)

var (
	// Registry errors
	ErrEmptyMessageType      = errors.New("routing: message type cannot be empty")
	ErrEmptyTargetType       = errors.New("routing: dead-letter target type cannot be empty")
	ErrDuplicateRegistration = errors.New("routing: message type registered more than once")

	// Provisioning errors
	ErrMissingNaming = errors.New("routing: dead-letter target missing queue or exchange declaration")
)

// InitializationError reports a registry build failure. It is fatal: the
// registry is left empty and the process must not start routing.
type InitializationError struct {
	MessageType string // Declaration that failed validation, if any
	Err         error
}

func (e *InitializationError) Error() string {
	if e.MessageType != "" {
		return fmt.Sprintf("routing initialization error: declaration for %s: %v", e.MessageType, e.Err)
	}
	return fmt.Sprintf("routing initialization error: %v", e.Err)
}

func (e *InitializationError) Unwrap() error {
	return e.Err
}

// ConfigurationError reports a declared mapping whose target cannot be
// resolved to a concrete destination. It is caught per message and triggers
// fallback, and stays distinguishable from transport errors in logs.
type ConfigurationError struct {
	MessageType string
	Target      contracts.DeadLetterTarget
	Err         error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("routing configuration error: mapping for %s targeting %s: %v",
		e.MessageType, e.Target.TypeName, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// RoutingError is the composite error handed to the fallback chain when
// routing a failed message itself fails. It preserves both the original
// consumer error and the routing failure; neither is ever discarded.
type RoutingError struct {
	MessageType string
	ConsumerErr error // The failure that triggered routing
	Err         error // The routing failure
}

func (e *RoutingError) Error() string {
	return fmt.Sprintf("routing error for %s: %v (original consumer error: %v)",
		e.MessageType, e.Err, e.ConsumerErr)
}

func (e *RoutingError) Unwrap() []error {
	return []error{e.Err, e.ConsumerErr}
}
