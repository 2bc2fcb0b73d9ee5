package rabbitmq

type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// AuditQueues — очереди, которые консоль объявляет при старте.
func AuditQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "admin.audit.log", RoutingKey: "user.#"},
	}
}
