package auth

import "github.com/gofiber/fiber/v2"

// Registrar ties the auth routes into the HTTP server
type Registrar struct {
	svc *Service
}

func NewRegistrar(svc *Service) *Registrar {
	return &Registrar{svc: svc}
}

func (r *Registrar) Register(app *fiber.App) {
	RegisterRoutes(app.Group("/auth"), r.svc)
}
