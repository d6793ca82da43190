package routing

// Action is the next step decided for a failure event
type Action int

const (
	// ActionRequeue gives a first-time failure exactly one more normal
	// delivery attempt, without consulting the registry.
	ActionRequeue Action = iota

	// ActionFallback delegates to the default error handling.
	ActionFallback

	// ActionRouteDeadLetter routes the failure to its typed destination.
	ActionRouteDeadLetter
)

func (a Action) String() string {
	switch a {
	case ActionRequeue:
		return "requeue"
	case ActionFallback:
		return "fallback"
	case ActionRouteDeadLetter:
		return "route-dead-letter"
	default:
		return "unknown"
	}
}

// Decision pairs the chosen action with the mapping to route to, populated
// only for ActionRouteDeadLetter.
type Decision struct {
	Action  Action
	Mapping DeadLetterMapping
}

// RetryGate classifies each failure event. It keeps no state of its own: the
// redelivery status is read from the broker-supplied delivery metadata in the
// FailureContext. Transient failures get one in-place retry before a message
// is treated as poison and exiled to a dead-letter queue.
type RetryGate struct {
	registry *Registry
}

// NewRetryGate creates a retry gate over the given registry
func NewRetryGate(registry *Registry) *RetryGate {
	return &RetryGate{registry: registry}
}

// Decide classifies a failure event:
//   - not yet redelivered: requeue without ack
//   - redelivered, type absent or unregistered: fallback
//   - redelivered with a registered mapping: route to dead letter
func (g *RetryGate) Decide(fc FailureContext) Decision {
	if !fc.Redelivered {
		return Decision{Action: ActionRequeue}
	}

	if fc.MessageType == "" {
		return Decision{Action: ActionFallback}
	}

	mapping, ok := g.registry.Lookup(fc.MessageType)
	if !ok {
		return Decision{Action: ActionFallback}
	}

	return Decision{Action: ActionRouteDeadLetter, Mapping: mapping}
}
