package notification

import "github.com/gofiber/fiber/v2"

// Registrar ties the notification routes into the HTTP server
type Registrar struct {
	svc    *Service
	authMW fiber.Handler
}

func NewRegistrar(svc *Service, authMW fiber.Handler) *Registrar {
	return &Registrar{svc: svc, authMW: authMW}
}

func (r *Registrar) Register(app *fiber.App) {
	RegisterRoutes(app.Group("/notifications"), r.svc, r.authMW)
}
