package engagement

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/recruiterhub/backend/internal/identity"

	svcErr "github.com/recruiterhub/backend/internal/errors"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMW fiber.Handler) {
	r.Post("/", authMW, func(c *fiber.Ctx) error {
		var input NewPostInput
		if err := c.BodyParser(&input); err != nil || input.URL == "" {
			return svcErr.InvalidArgument("url required")
		}
		if err := svc.NewPost(c.Context(), sessionFrom(c), input); err != nil {
			return svcErr.Map(err)
		}
		return c.SendStatus(fiber.StatusCreated)
	})

	r.Get("/feed", authMW, func(c *fiber.Ctx) error {
		feed, err := svc.Feed(c.Context(), sessionFrom(c))
		if err != nil {
			return svcErr.Map(err)
		}
		return c.JSON(feed)
	})

	r.Delete("/:index", authMW, func(c *fiber.Ctx) error {
		index, err := strconv.Atoi(c.Params("index"))
		if err != nil {
			return svcErr.InvalidArgument("index must be an integer")
		}
		if err := svc.DeletePost(c.Context(), sessionFrom(c), index); err != nil {
			return svcErr.Map(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Get("/user/:email", func(c *fiber.Ctx) error {
		posts, err := svc.Posts(c.Context(), c.Params("email"))
		if err != nil {
			return svcErr.Map(err)
		}
		return c.JSON(posts)
	})

	r.Post("/user/:email/:index/like", authMW, func(c *fiber.Ctx) error {
		index, err := strconv.Atoi(c.Params("index"))
		if err != nil {
			return svcErr.InvalidArgument("index must be an integer")
		}
		if err := svc.ToggleLike(c.Context(), sessionFrom(c), c.Params("email"), index); err != nil {
			return svcErr.Map(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Post("/user/:email/:index/comments", authMW, func(c *fiber.Ctx) error {
		index, err := strconv.Atoi(c.Params("index"))
		if err != nil {
			return svcErr.InvalidArgument("index must be an integer")
		}
		var body struct {
			Comment string `json:"comment"`
		}
		if err := c.BodyParser(&body); err != nil || body.Comment == "" {
			return svcErr.InvalidArgument("comment required")
		}
		if err := svc.AddComment(c.Context(), sessionFrom(c), c.Params("email"), index, body.Comment); err != nil {
			return svcErr.Map(err)
		}
		return c.SendStatus(fiber.StatusCreated)
	})

	r.Get("/user/:email/:index/likes", func(c *fiber.Ctx) error {
		index, err := strconv.Atoi(c.Params("index"))
		if err != nil {
			return svcErr.InvalidArgument("index must be an integer")
		}
		likes, err := svc.Likes(c.Context(), c.Params("email"), index)
		if err != nil {
			return svcErr.Map(err)
		}
		return c.JSON(likes)
	})

	r.Get("/user/:email/:index/likes/count", func(c *fiber.Ctx) error {
		index, err := strconv.Atoi(c.Params("index"))
		if err != nil {
			return svcErr.InvalidArgument("index must be an integer")
		}
		count, err := svc.LikeCount(c.Context(), c.Params("email"), index)
		if err != nil {
			return svcErr.Map(err)
		}
		return c.JSON(fiber.Map{"count": count})
	})

	r.Get("/user/:email/:index/comments", func(c *fiber.Ctx) error {
		index, err := strconv.Atoi(c.Params("index"))
		if err != nil {
			return svcErr.InvalidArgument("index must be an integer")
		}
		comments, err := svc.Comments(c.Context(), c.Params("email"), index)
		if err != nil {
			return svcErr.Map(err)
		}
		return c.JSON(comments)
	})
}

func sessionFrom(c *fiber.Ctx) identity.Session {
	session, _ := c.Locals("session").(identity.Session)
	return session
}
