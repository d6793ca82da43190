// Package deadletter routes consumer failures to typed dead-letter queues on
// RabbitMQ. Message types declare their dead-letter destination at client
// construction; the first redelivered failure of a type provisions the
// destination, and every later failure of that type reuses it without broker
// I/O. Failures with no declared destination, and any routing failure, fall
// back to default error handling so no message is ever dropped.
package deadletter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/glimte/deadletter-go/internal/rabbitmq"
	"github.com/glimte/deadletter-go/routing"
)

// Client provides the main entry point for deadletter-go
type Client struct {
	conn     *rabbitmq.ConnectionManager
	pool     *rabbitmq.ChannelPool
	registry *routing.Registry
	router   *routing.Router
}

// NewClient connects to RabbitMQ, builds the dead-letter registry from the
// declared mappings, and assembles the routing pipeline. A registry build
// failure is fatal and returns before anything touches the broker.
func NewClient(connectionString string, options ...ClientOption) (*Client, error) {
	cfg := &clientConfig{
		logger:      slog.Default(),
		maxChannels: 10,
	}

	for _, opt := range options {
		opt(cfg)
	}

	registry, err := routing.BuildRegistry(cfg.mappings)
	if err != nil {
		return nil, err
	}

	conn := rabbitmq.NewConnectionManager(connectionString,
		rabbitmq.WithLogger(cfg.logger),
	)
	if err := conn.Connect(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	pool, err := rabbitmq.NewChannelPool(conn,
		rabbitmq.WithMaxChannels(cfg.maxChannels),
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create channel pool: %w", err)
	}

	topology := rabbitmq.NewTopologyManager(pool)

	publisherOpts := []rabbitmq.PublisherOption{}
	if cfg.confirmTimeout > 0 {
		publisherOpts = append(publisherOpts, rabbitmq.WithConfirmTimeout(cfg.confirmTimeout))
	}
	publisher := rabbitmq.NewPublisher(pool, publisherOpts...)

	provisioner := routing.NewTopologyProvisioner(topology,
		routing.WithProvisionerLogger(cfg.logger),
	)
	republisher := routing.NewRepublisher(publisher,
		routing.WithRepublisherLogger(cfg.logger),
	)

	routerOpts := []routing.RouterOption{
		routing.WithRouterLogger(cfg.logger),
	}
	if cfg.fallback != nil {
		routerOpts = append(routerOpts, routing.WithFallbackHandler(cfg.fallback))
	}
	router := routing.NewRouter(registry, provisioner, republisher, routerOpts...)

	cfg.logger.Info("dead-letter routing client ready",
		"mappings", registry.Len(),
	)

	return &Client{
		conn:     conn,
		pool:     pool,
		registry: registry,
		router:   router,
	}, nil
}

// Router returns the failure router
func (c *Client) Router() *routing.Router {
	return c.router
}

// Registry returns the dead-letter registry
func (c *Client) Registry() *routing.Registry {
	return c.registry
}

// Close closes all resources
func (c *Client) Close() error {
	if c.pool != nil {
		c.pool.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// clientConfig holds client configuration
type clientConfig struct {
	logger         *slog.Logger
	mappings       []routing.DeadLetterMapping
	fallback       routing.FallbackHandler
	maxChannels    int
	confirmTimeout time.Duration
}

// ClientOption configures the client
type ClientOption func(*clientConfig)

// WithLogger sets the logger for all components
func WithLogger(logger *slog.Logger) ClientOption {
	return func(cfg *clientConfig) {
		cfg.logger = logger
	}
}

// WithMappings declares the dead-letter mappings the registry is built from
func WithMappings(mappings ...routing.DeadLetterMapping) ClientOption {
	return func(cfg *clientConfig) {
		cfg.mappings = append(cfg.mappings, mappings...)
	}
}

// WithFallbackHandler sets the default error handling delegate invoked for
// failures that cannot be routed
func WithFallbackHandler(fallback routing.FallbackHandler) ClientOption {
	return func(cfg *clientConfig) {
		cfg.fallback = fallback
	}
}

// WithMaxChannels sets the channel pool size
func WithMaxChannels(size int) ClientOption {
	return func(cfg *clientConfig) {
		cfg.maxChannels = size
	}
}

// WithConfirmTimeout sets how long the republisher waits for broker
// confirmation of a dead-letter publish
func WithConfirmTimeout(timeout time.Duration) ClientOption {
	return func(cfg *clientConfig) {
		cfg.confirmTimeout = timeout
	}
}
