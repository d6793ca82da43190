// Package contracts provides the core message types and interfaces for the deadletter routing engine.
//
// This package defines the contracts consumed by the routing engine:
//   - Message: Base interface for all messages
//   - DeadLetterTarget: Naming declaration for a dead-letter message type
//   - DeadLetterCarrier: Optional interface for message types that declare
//     their own dead-letter destination
//
// Queue names follow the convention of the underlying messaging client:
// "{declaredQueueName}_{typeName}", so destinations declared here line up
// with queues provisioned by other services sharing the same broker.
package contracts
