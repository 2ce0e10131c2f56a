package realtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func startHub() *Hub {
	h := NewHub()
	go h.Run()
	return h
}

func mustRecv(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case event := <-c.Send():
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestBroadcastReachesAllClients(t *testing.T) {
	h := startHub()
	a := h.Register()
	b := h.Register()

	h.Broadcast(Event{Type: EventNewPending, Data: "slip TX1"})

	for _, c := range []*Client{a, b} {
		event := mustRecv(t, c)
		assert.Equal(t, EventNewPending, event.Type)
		assert.Equal(t, "slip TX1", event.Data)
	}
}

func TestUnregisterClosesClient(t *testing.T) {
	h := startHub()
	c := h.Register()
	h.Unregister(c)

	select {
	case _, ok := <-c.Send():
		assert.False(t, ok, "send channel should be closed")
	case <-time.After(2 * time.Second):
		t.Fatal("send channel never closed")
	}

	// broadcasting after removal must not panic or block
	h.Broadcast(Event{Type: EventNewPending})
}

// A console that stops draining its socket must not block delivery to the
// others; its frames are dropped instead.
func TestStalledClientDoesNotBlockOthers(t *testing.T) {
	h := startHub()
	stalled := h.Register()
	healthy := h.Register()

	// fill both buffers, drain only the healthy client
	buf := cap(stalled.send)
	for i := 0; i < buf; i++ {
		h.Broadcast(Event{Type: EventNewPending, Data: i})
	}
	for i := 0; i < buf; i++ {
		event := mustRecv(t, healthy)
		assert.Equal(t, i, event.Data)
	}

	// the stalled buffer is full now, so this frame is dropped for it but
	// still delivered to the healthy client
	h.Broadcast(Event{Type: EventNewPending, Data: "probe"})
	event := mustRecv(t, healthy)
	assert.Equal(t, "probe", event.Data)
	assert.Equal(t, buf, len(stalled.send))
}
