// Package routing implements typed dead-letter routing for consumer failures.
//
// When a consumer fails to process a message, the router decides where the
// failure goes based on the message's own type rather than a single shared
// error queue:
//   - Registry: immutable-after-build mapping from message type to its
//     declared dead-letter destination
//   - RetryGate: classifies a failure as first attempt (requeue) or
//     redelivery (route or fall back)
//   - TopologyProvisioner: idempotently declares the destination on the
//     broker, at most once per destination per process
//   - Republisher: hands the original body to the broker for durable
//     delivery to the destination
//
// Routing is best-effort on top of a guaranteed-safe fallback: any failure
// in the chain delegates to the configured FallbackHandler with both the
// original consumer error and the routing error preserved. A message is
// never dropped.
package routing
