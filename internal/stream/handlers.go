package stream

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes mounts the observe endpoint. The wildcard is the tree
// path to watch, e.g. /stream/observe/alice-x-com/followers.
func RegisterRoutes(r fiber.Router, hub *Hub) {
	r.Get("/observe/*", websocket.New(func(c *websocket.Conn) {
		path := c.Params("*")
		if path == "" {
			c.Close()
			return
		}
		client := hub.Register(path)
		defer hub.Unregister(client)

		done := make(chan struct{})
		go func() {
			for msg := range client.Send {
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					break
				}
			}
			close(done)
		}()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
		<-done
	}))
}
