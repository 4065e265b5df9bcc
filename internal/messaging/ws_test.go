package messaging

import (
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
)

func hubExists(bookingID string) bool {
	hubsMu.RLock()
	defer hubsMu.RUnlock()
	_, ok := hubs[bookingID]
	return ok
}

func TestHubRemovedWhenLastClientLeaves(t *testing.T) {
	h := getHub("booking-ws-1")
	c1 := &websocket.Conn{}
	c2 := &websocket.Conn{}
	h.register(c1)
	h.register(c2)

	h.unregister(c1)
	assert.True(t, hubExists("booking-ws-1"), "hub must survive while a subscriber remains")

	h.unregister(c2)
	assert.False(t, hubExists("booking-ws-1"), "empty hub must be dropped")
}

func TestGetHubRecreatesAfterDrop(t *testing.T) {
	h := getHub("booking-ws-2")
	c := &websocket.Conn{}
	h.register(c)
	h.unregister(c)

	again := getHub("booking-ws-2")
	assert.NotNil(t, again)
	assert.True(t, hubExists("booking-ws-2"))

	// cleanup
	again.register(c)
	again.unregister(c)
	assert.False(t, hubExists("booking-ws-2"))
}
