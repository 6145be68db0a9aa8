package relationship

import (
	"github.com/gofiber/fiber/v2"

	"github.com/recruiterhub/backend/internal/identity"

	svcErr "github.com/recruiterhub/backend/internal/errors"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMW fiber.Handler) {
	r.Post("/follow/:email", authMW, func(c *fiber.Ctx) error {
		if err := svc.ToggleFollow(c.Context(), sessionFrom(c), c.Params("email")); err != nil {
			return svcErr.Map(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Post("/endorse/:email", authMW, func(c *fiber.Ctx) error {
		if err := svc.ToggleEndorse(c.Context(), sessionFrom(c), c.Params("email")); err != nil {
			return svcErr.Map(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Get("/is-following/:email", authMW, func(c *fiber.Ctx) error {
		following, err := svc.IsFollowing(c.Context(), sessionFrom(c).Email, c.Params("email"))
		if err != nil {
			return svcErr.Map(err)
		}
		return c.JSON(fiber.Map{"following": following})
	})

	r.Get("/:email/followers", func(c *fiber.Ctx) error {
		edges, err := svc.Followers(c.Context(), c.Params("email"))
		if err != nil {
			return svcErr.Map(err)
		}
		return c.JSON(edges)
	})

	r.Get("/:email/following", func(c *fiber.Ctx) error {
		edges, err := svc.Following(c.Context(), c.Params("email"))
		if err != nil {
			return svcErr.Map(err)
		}
		return c.JSON(edges)
	})

	r.Get("/:email/endorsers", func(c *fiber.Ctx) error {
		edges, err := svc.Endorsers(c.Context(), c.Params("email"))
		if err != nil {
			return svcErr.Map(err)
		}
		return c.JSON(edges)
	})

	r.Get("/:email/count/:kind", func(c *fiber.Ctx) error {
		kind := c.Params("kind")
		if kind != KindFollowers && kind != KindFollowing && kind != KindEndorsers {
			return svcErr.InvalidArgument("kind must be followers, following or endorsers")
		}
		count, err := svc.Count(c.Context(), c.Params("email"), kind)
		if err != nil {
			return svcErr.Map(err)
		}
		return c.JSON(fiber.Map{"kind": kind, "count": count})
	})
}

func sessionFrom(c *fiber.Ctx) identity.Session {
	session, _ := c.Locals("session").(identity.Session)
	return session
}
