// Package rabbitmq provides the RabbitMQ plumbing for the dead-letter routing engine.
//
// This package includes:
//   - ConnectionManager: Manages the RabbitMQ connection with automatic reconnection
//   - ChannelPool: Provides scoped channel acquisition, one channel per routing invocation
//   - Publisher: Handles message publishing with confirmation support
//   - TopologyManager: Declares exchanges, queues, and bindings idempotently
//
// The routing engine itself manages no timeouts or cancellation; operations
// here fail fast when the connection is unavailable so failures surface into
// the engine's fallback chain instead of blocking consumer handlers.
package rabbitmq
