package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHub_Publish(t *testing.T) {
	hub := NewHub()

	client := newMockClient("client-1", 1)
	hub.Register(client)

	var publisher EventPublisher = hub
	publisher.Publish(1, TransactionCreated(map[string]interface{}{"id": float64(42)}))

	waitForMessages(t, client, 1)
}

func TestHub_PublishAll(t *testing.T) {
	hub := NewHub()

	client := newMockClient("client-1", 7)
	hub.Register(client)

	var publisher EventPublisher = hub
	publisher.PublishAll(SubcategoryChanged(EventTypeDeleted, map[string]interface{}{"id": float64(1)}))

	waitForMessages(t, client, 1)
}

func TestNoOpPublisher(t *testing.T) {
	var publisher EventPublisher = &NoOpPublisher{}

	assert.NotPanics(t, func() {
		publisher.Publish(1, TransactionCreated(map[string]interface{}{"id": float64(1)}))
		publisher.PublishAll(CategoryChanged(EventTypeCreated, nil))
	})
}
