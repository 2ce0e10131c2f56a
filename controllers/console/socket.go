package console

import (
	"log"
	"slipflow/realtime"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RequireUpgrade gates the socket route to real websocket handshakes.
func RequireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Socket streams transaction events to one operator console. The protocol
// is server-to-client only; inbound reads exist to notice the close.
func Socket() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		client := realtime.Default.Register()
		defer realtime.Default.Unregister(client)

		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case event, ok := <-client.Send():
				if !ok {
					return
				}
				if err := conn.WriteJSON(event); err != nil {
					log.Printf("⚠️  console write failed: %v", err)
					return
				}
			case <-closed:
				return
			}
		}
	})
}
