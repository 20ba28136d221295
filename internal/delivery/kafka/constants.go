package kafka

const (
	TopicOrderPlaced = "orders.placed"
	TopicOrderStatus = "orders.status"

	SchemaVersion = 1
)
