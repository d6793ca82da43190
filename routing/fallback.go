package routing

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FallbackHandler receives every failure that could not be routed to a typed
// dead-letter destination: first the host's default error handling, in the
// worst case the only thing standing between a message and loss. err is the
// final error report, a *RoutingError when routing itself also failed,
// otherwise the original consumer error.
type FallbackHandler interface {
	Handle(ctx context.Context, fc FailureContext, err error) error
}

// FallbackFunc adapts a function to the FallbackHandler interface
type FallbackFunc func(ctx context.Context, fc FailureContext, err error) error

// Handle implements FallbackHandler
func (f FallbackFunc) Handle(ctx context.Context, fc FailureContext, err error) error {
	return f(ctx, fc, err)
}

// FailedMessage is the record persisted for a message that ended up in the
// generic error destination.
type FailedMessage struct {
	ID          string    `json:"id"`
	MessageType string    `json:"messageType"`
	Queue       string    `json:"queue,omitempty"`
	RoutingKey  string    `json:"routingKey"`
	Body        []byte    `json:"body"`
	Error       string    `json:"error"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// ErrorStore persists messages that fell through to default handling
type ErrorStore interface {
	// Store saves a failed message
	Store(ctx context.Context, message FailedMessage) error

	// Get retrieves a failed message by ID
	Get(ctx context.Context, id string) (*FailedMessage, error)

	// List returns stored messages, newest first, up to limit (0 = all)
	List(ctx context.Context, limit int) ([]FailedMessage, error)

	// Delete removes a failed message
	Delete(ctx context.Context, id string) error
}

// InMemoryErrorStore provides a simple in-memory error store
type InMemoryErrorStore struct {
	mu       sync.RWMutex
	messages map[string]FailedMessage
	order    []string
}

// NewInMemoryErrorStore creates a new in-memory error store
func NewInMemoryErrorStore() *InMemoryErrorStore {
	return &InMemoryErrorStore{
		messages: make(map[string]FailedMessage),
	}
}

// Store implements ErrorStore
func (s *InMemoryErrorStore) Store(ctx context.Context, message FailedMessage) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.messages[message.ID]; !exists {
		s.order = append(s.order, message.ID)
	}
	s.messages[message.ID] = message

	return nil
}

// Get implements ErrorStore
func (s *InMemoryErrorStore) Get(ctx context.Context, id string) (*FailedMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.messages[id]
	if !ok {
		return nil, fmt.Errorf("routing: failed message not found: %s", id)
	}
	return &msg, nil
}

// List implements ErrorStore
func (s *InMemoryErrorStore) List(ctx context.Context, limit int) ([]FailedMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []FailedMessage
	for i := len(s.order) - 1; i >= 0; i-- {
		results = append(results, s.messages[s.order[i]])
		if limit > 0 && len(results) >= limit {
			break
		}
	}
	return results, nil
}

// Delete implements ErrorStore
func (s *InMemoryErrorStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.messages, id)
	for i, stored := range s.order {
		if stored == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// StoreFallback is the default fallback handler: it persists the failed
// message and its final error report to an ErrorStore.
type StoreFallback struct {
	store  ErrorStore
	logger *slog.Logger
}

// NewStoreFallback creates a fallback handler over the given store
func NewStoreFallback(store ErrorStore, logger *slog.Logger) *StoreFallback {
	if logger == nil {
		logger = slog.Default()
	}
	return &StoreFallback{
		store:  store,
		logger: logger,
	}
}

// Handle implements FallbackHandler
func (f *StoreFallback) Handle(ctx context.Context, fc FailureContext, err error) error {
	record := FailedMessage{
		ID:          uuid.New().String(),
		MessageType: fc.MessageType,
		Queue:       fc.Queue,
		RoutingKey:  fc.RoutingKey,
		Body:        fc.Body,
		OccurredAt:  time.Now().UTC(),
	}
	if err != nil {
		record.Error = err.Error()
	}

	if storeErr := f.store.Store(ctx, record); storeErr != nil {
		return storeErr
	}

	f.logger.Warn("failed message stored in generic error destination",
		"messageType", fc.MessageType,
		"routingKey", fc.RoutingKey,
		"error", err,
	)

	return nil
}
