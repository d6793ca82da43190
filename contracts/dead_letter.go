package contracts

// DeadLetterTarget names the dead-letter message type a failed message is
// routed to, together with the queue and exchange declared for that type.
// Targets are registered explicitly rather than attached to contract types,
// so a registry can be validated in full at startup.
type DeadLetterTarget struct {
	// TypeName is the dead-letter message type identifier,
	// e.g. "OrderCreatedDeadLetter".
	TypeName string `json:"typeName"`

	// Queue is the declared queue name, e.g. "Order.Created.DeadLetter".
	// The concrete broker queue name is derived from it, see QueueName.
	Queue string `json:"queue"`

	// Exchange is the exchange the dead-letter queue is bound to,
	// used as declared, e.g. "Order.Created.DeadLetter".
	Exchange string `json:"exchange"`
}

// QueueName returns the broker queue name derived via the client naming
// convention: "{declaredQueueName}_{typeName}".
func (t DeadLetterTarget) QueueName() string {
	return t.Queue + "_" + t.TypeName
}

// HasNaming reports whether the target carries the naming declaration
// required to derive a concrete destination. A target without naming is a
// configuration defect surfaced by the topology provisioner.
func (t DeadLetterTarget) HasNaming() bool {
	return t.Queue != "" && t.Exchange != ""
}
