package notification

import (
	"github.com/gofiber/fiber/v2"

	"github.com/recruiterhub/backend/internal/identity"

	svcErr "github.com/recruiterhub/backend/internal/errors"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMW fiber.Handler) {
	r.Get("/", authMW, func(c *fiber.Ctx) error {
		session, _ := c.Locals("session").(identity.Session)
		notifications, err := svc.List(c.Context(), session.Email)
		if err != nil {
			return svcErr.Map(err)
		}
		return c.JSON(notifications)
	})
}
