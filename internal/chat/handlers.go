package chat

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/recruiterhub/backend/internal/identity"

	svcErr "github.com/recruiterhub/backend/internal/errors"
)

type sendRequest struct {
	RecipientEmail string  `json:"recipient_email"`
	RecipientName  string  `json:"recipient_name"`
	Message        Message `json:"message"`
}

func RegisterRoutes(r fiber.Router, svc *Service, authMW fiber.Handler) {
	r.Use(authMW)

	// An inbox with no conversations yet is a 200 with [], not an error.
	r.Get("/", func(c *fiber.Ctx) error {
		conversations, err := svc.Conversations(c.Context(), sessionFrom(c).Email)
		if errors.Is(err, svcErr.ErrConversationsEmpty) {
			return c.JSON([]Conversation{})
		}
		if err != nil {
			return svcErr.Map(err)
		}
		return c.JSON(conversations)
	})

	// Send to a user: reuse the existing conversation when one exists,
	// otherwise mint one from this first message.
	r.Post("/", func(c *fiber.Ctx) error {
		var req sendRequest
		if err := c.BodyParser(&req); err != nil || req.RecipientEmail == "" {
			return svcErr.InvalidArgument("recipient_email required")
		}
		session := sessionFrom(c)

		id, err := svc.ConversationExists(c.Context(), session, req.RecipientEmail)
		if err == nil {
			if err := svc.SendMessage(c.Context(), session, id, req.RecipientEmail, req.RecipientName, req.Message); err != nil {
				return svcErr.Map(err)
			}
			return c.JSON(fiber.Map{"id": id})
		}
		if !errors.Is(err, svcErr.ErrFetchFailed) {
			return svcErr.Map(err)
		}

		id, err = svc.CreateConversation(c.Context(), session, req.RecipientEmail, req.RecipientName, req.Message)
		if err != nil {
			return svcErr.Map(err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
	})

	r.Post("/:id/messages", func(c *fiber.Ctx) error {
		var req sendRequest
		if err := c.BodyParser(&req); err != nil || req.RecipientEmail == "" {
			return svcErr.InvalidArgument("recipient_email required")
		}
		if err := svc.SendMessage(c.Context(), sessionFrom(c), c.Params("id"), req.RecipientEmail, req.RecipientName, req.Message); err != nil {
			return svcErr.Map(err)
		}
		return c.SendStatus(fiber.StatusCreated)
	})

	r.Get("/:id/messages", func(c *fiber.Ctx) error {
		messages, err := svc.Messages(c.Context(), c.Params("id"))
		if err != nil {
			return svcErr.Map(err)
		}
		return c.JSON(messages)
	})

	r.Delete("/:id", func(c *fiber.Ctx) error {
		if err := svc.DeleteConversation(c.Context(), sessionFrom(c), c.Params("id")); err != nil {
			return svcErr.Map(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func sessionFrom(c *fiber.Ctx) identity.Session {
	session, _ := c.Locals("session").(identity.Session)
	return session
}
