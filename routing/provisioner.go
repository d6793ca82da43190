package routing

import (
	"context"
	"log/slog"
	"sync"
)

// TopologyDeclarer declares a dead-letter destination on the broker. The
// declaration must be idempotent against the broker itself; the provisioner's
// cache is only a process-local optimization.
type TopologyDeclarer interface {
	DeclareDeadLetterDestination(ctx context.Context, exchange, queue string) error
}

// TopologyProvisioner guarantees a mapping's destination exists on the broker
// and returns its exchange name for publishing. Destinations are declared at
// most once per process; subsequent calls hit the cache without broker I/O.
//
// Two concurrent failures for the same undeclared destination may both reach
// the broker; both declarations succeed and the cache write race is benign.
type TopologyProvisioner struct {
	declarer TopologyDeclarer
	logger   *slog.Logger

	mu    sync.RWMutex
	cache map[string]string // queue name -> exchange name
}

// ProvisionerOption configures the topology provisioner
type ProvisionerOption func(*TopologyProvisioner)

// WithProvisionerLogger sets the logger
func WithProvisionerLogger(logger *slog.Logger) ProvisionerOption {
	return func(p *TopologyProvisioner) {
		p.logger = logger
	}
}

// NewTopologyProvisioner creates a new topology provisioner
func NewTopologyProvisioner(declarer TopologyDeclarer, options ...ProvisionerOption) *TopologyProvisioner {
	p := &TopologyProvisioner{
		declarer: declarer,
		logger:   slog.Default(),
		cache:    make(map[string]string),
	}

	for _, opt := range options {
		opt(p)
	}

	return p
}

// Ensure guarantees the mapping's destination exists and returns the exchange
// name to publish to. A mapping whose target lacks the naming declaration is
// a configuration defect reported as a ConfigurationError.
func (p *TopologyProvisioner) Ensure(ctx context.Context, mapping DeadLetterMapping) (string, error) {
	if !mapping.Target.HasNaming() {
		return "", &ConfigurationError{
			MessageType: mapping.MessageType,
			Target:      mapping.Target,
			Err:         ErrMissingNaming,
		}
	}

	queueName := mapping.Target.QueueName()
	exchangeName := mapping.Target.Exchange

	p.mu.RLock()
	cached, ok := p.cache[queueName]
	p.mu.RUnlock()
	if ok {
		return cached, nil
	}

	if err := p.declarer.DeclareDeadLetterDestination(ctx, exchangeName, queueName); err != nil {
		return "", err
	}

	p.mu.Lock()
	p.cache[queueName] = exchangeName
	p.mu.Unlock()

	p.logger.Info("provisioned dead-letter destination",
		"messageType", mapping.MessageType,
		"queue", queueName,
		"exchange", exchangeName,
	)

	return exchangeName, nil
}

// Provisioned reports whether a queue has already been declared by this process
func (p *TopologyProvisioner) Provisioned(queueName string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.cache[queueName]
	return ok
}
