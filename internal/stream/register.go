package stream

import "github.com/gofiber/fiber/v2"

// Registrar ties the websocket routes into the HTTP server
type Registrar struct {
	hub *Hub
}

func NewRegistrar(hub *Hub) *Registrar {
	return &Registrar{hub: hub}
}

func (r *Registrar) Register(app *fiber.App) {
	RegisterRoutes(app.Group("/stream"), r.hub)
}
