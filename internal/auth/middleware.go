package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/recruiterhub/backend/internal/identity"
)

const sessionKey = "session"

// Middleware validates bearer tokens and stores the decoded session in
// locals for handlers to pick up via SessionFromCtx.
func Middleware(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerFromHeader(c.Get("Authorization"))
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		session, err := svc.ValidateToken(token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		c.Locals(sessionKey, session)
		return c.Next()
	}
}

// SessionFromCtx returns the session the middleware stored. The zero
// session means the route was mounted without the middleware.
func SessionFromCtx(c *fiber.Ctx) identity.Session {
	session, _ := c.Locals(sessionKey).(identity.Session)
	return session
}

func bearerFromHeader(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
