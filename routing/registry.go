package routing

import (
	"github.com/glimte/deadletter-go/contracts"
)

// DeadLetterMapping associates a message type identifier with the target
// dead-letter type it routes to. The destination queue and exchange names are
// derived from the target's naming declaration.
type DeadLetterMapping struct {
	// MessageType is the logical type of the failing message, used as the
	// registry key, e.g. "OrderCreated".
	MessageType string

	// Target names the dead-letter type and its declared destination.
	Target contracts.DeadLetterTarget
}

// MappingFor builds a mapping for a message type that declares its own
// dead-letter destination via contracts.DeadLetterCarrier.
func MappingFor(msg contracts.DeadLetterCarrier) DeadLetterMapping {
	return DeadLetterMapping{
		MessageType: msg.GetType(),
		Target:      msg.DeadLetterTarget(),
	}
}

// Registry is the immutable-after-build mapping from message type to its
// dead-letter mapping. It is built exactly once before routing begins and
// read concurrently without locking afterwards.
type Registry struct {
	mappings map[string]DeadLetterMapping
}

// BuildRegistry validates the declared mappings and builds the registry.
// Any invalid declaration fails the whole build and returns a nil registry:
// starting with a partially populated registry would silently mis-route some
// failures to the default error path.
func BuildRegistry(mappings []DeadLetterMapping) (*Registry, error) {
	byType := make(map[string]DeadLetterMapping, len(mappings))

	for _, m := range mappings {
		if m.MessageType == "" {
			return nil, &InitializationError{Err: ErrEmptyMessageType}
		}
		if m.Target.TypeName == "" {
			return nil, &InitializationError{MessageType: m.MessageType, Err: ErrEmptyTargetType}
		}
		if _, exists := byType[m.MessageType]; exists {
			return nil, &InitializationError{MessageType: m.MessageType, Err: ErrDuplicateRegistration}
		}
		byType[m.MessageType] = m
	}

	return &Registry{mappings: byType}, nil
}

// Lookup returns the mapping declared for a message type
func (r *Registry) Lookup(messageType string) (DeadLetterMapping, bool) {
	m, ok := r.mappings[messageType]
	return m, ok
}

// Len returns the number of registered mappings
func (r *Registry) Len() int {
	return len(r.mappings)
}
