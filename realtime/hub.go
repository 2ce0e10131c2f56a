package realtime

import (
	"log"

	"github.com/google/uuid"
)

// Event is one frame pushed to operator consoles.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

const EventNewPending = "new_pending"

// Client is one connected console socket. The hub writes into Send; the
// socket handler drains it.
type Client struct {
	ID   string
	send chan Event
}

func (c *Client) Send() <-chan Event {
	return c.send
}

// Hub is the single broadcaster behind every console socket. All state
// lives inside the Run loop; registration, removal and broadcast are
// messages, never direct map access from request handlers.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan Event
	clients    map[*Client]bool
}

// Default is the per-deployment hub; main starts its Run loop.
var Default = NewHub()

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, 64),
		clients:    make(map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			log.Printf("🔌 console connected: %s (%d online)", client.ID, len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Printf("🔌 console disconnected: %s (%d online)", client.ID, len(h.clients))
			}

		case event := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- event:
				default:
					// Stalled console; dropping the frame here keeps the
					// broadcast from blocking every other socket. The
					// socket handler prunes the client on its next error.
					log.Printf("⚠️  dropping %s frame for stalled console %s", event.Type, client.ID)
				}
			}
		}
	}
}

// Register attaches a new console socket and returns its client handle.
func (h *Hub) Register() *Client {
	client := &Client{
		ID:   uuid.NewString(),
		send: make(chan Event, 16),
	}
	h.register <- client
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast queues an event for every connected console. Safe to call from
// any ingestion handler.
func (h *Hub) Broadcast(event Event) {
	h.broadcast <- event
}
