package server

import (
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/recruiterhub/backend/internal/config"
)

// NewApp builds the fiber app with the shared middleware stack and the
// health endpoint, then mounts every registrar.
func NewApp(registrars ...Registrar) *fiber.App {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(fiberlogger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	for _, r := range registrars {
		r.Register(app)
	}
	return app
}

// StartHTTPServer boots the HTTP server and registers all provided services
func StartHTTPServer(cfg *config.Config, registrars ...Registrar) error {
	app := NewApp(registrars...)
	return app.Listen(cfg.HTTP.Host + ":" + cfg.HTTP.Port)
}
