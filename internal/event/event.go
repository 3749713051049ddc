package event

// Event is a message published to every client subscribed to its topic.
type Event struct {
	Topic string      // e.g. "user:8c1f..."
	Type  string      // one of the EventType constants
	Data  interface{} // JSON-encodable payload
}

const (
	EventTypeNotificationDelivered = "notification_delivered"
	EventTypeNotificationFailed    = "notification_failed"
	EventTypeNotificationRead      = "notification_read"
)

// UserTopic is the topic carrying the notification events of one user.
func UserTopic(userID string) string {
	return "user:" + userID
}

// EventSender fans events out to the clients registered on their topic.
type EventSender interface {
	Register(topic string, client chan Event)
	Unregister(topic string, client chan Event)
	Broadcast(event Event)
	Run()
	Close()
}
