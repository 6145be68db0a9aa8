package server

import "github.com/gofiber/fiber/v2"

// Registrar is a common interface for all HTTP route registrars
type Registrar interface {
	Register(app *fiber.App)
}
