package websocket

// EventPublisher defines the interface for publishing events to WebSocket clients
type EventPublisher interface {
	// Publish sends an event to all connections of the specified user
	Publish(userID int32, event Event)
	// PublishAll sends an event to every connected user
	PublishAll(event Event)
}

// Ensure Hub implements EventPublisher
var _ EventPublisher = (*Hub)(nil)

// Publish implements EventPublisher by broadcasting the event to the user
func (h *Hub) Publish(userID int32, event Event) {
	h.Broadcast(userID, event)
}

// PublishAll implements EventPublisher by broadcasting the event to everyone
func (h *Hub) PublishAll(event Event) {
	h.BroadcastAll(event)
}

// NoOpPublisher is a publisher that does nothing (for testing or when WebSocket is disabled)
type NoOpPublisher struct{}

// Publish does nothing
func (n *NoOpPublisher) Publish(userID int32, event Event) {}

// PublishAll does nothing
func (n *NoOpPublisher) PublishAll(event Event) {}
