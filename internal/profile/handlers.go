package profile

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/recruiterhub/backend/internal/identity"

	svcErr "github.com/recruiterhub/backend/internal/errors"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMW fiber.Handler) {
	r.Get("/", func(c *fiber.Ctx) error {
		if size := c.QueryInt("page_size"); size > 0 {
			entries, next, err := svc.DirectoryPage(c.Context(), c.Query("page_token"), size)
			if err != nil {
				return svcErr.Map(err)
			}
			return c.JSON(fiber.Map{"users": entries, "next_page_token": next})
		}

		entries, err := svc.AllUsers(c.Context())
		if err != nil {
			return svcErr.Map(err)
		}
		return c.JSON(entries)
	})

	me := r.Group("/me", authMW)

	me.Put("/", func(c *fiber.Ctx) error {
		var user User
		if err := c.BodyParser(&user); err != nil {
			return svcErr.InvalidArgument("invalid payload")
		}
		user.Email = sessionFrom(c).Email
		if err := svc.UpdateUser(c.Context(), user); err != nil {
			return svcErr.Map(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	me.Put("/profile-pic", func(c *fiber.Ctx) error {
		var body struct {
			URL string `json:"url"`
		}
		if err := c.BodyParser(&body); err != nil || body.URL == "" {
			return svcErr.InvalidArgument("url required")
		}
		if err := svc.SetProfilePic(c.Context(), sessionFrom(c).Email, body.URL); err != nil {
			return svcErr.Map(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	me.Put("/scout-info", func(c *fiber.Ctx) error {
		var info ScoutInfo
		if err := c.BodyParser(&info); err != nil {
			return svcErr.InvalidArgument("invalid payload")
		}
		if err := svc.UpdateScoutInfo(c.Context(), sessionFrom(c).Email, info); err != nil {
			return svcErr.Map(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	me.Post("/references", func(c *fiber.Ctx) error {
		var ref Reference
		if err := c.BodyParser(&ref); err != nil {
			return svcErr.InvalidArgument("invalid payload")
		}
		if err := svc.AddReference(c.Context(), sessionFrom(c).Email, ref); err != nil {
			return svcErr.Map(err)
		}
		return c.SendStatus(fiber.StatusCreated)
	})

	me.Delete("/references", func(c *fiber.Ctx) error {
		var ref Reference
		if err := c.BodyParser(&ref); err != nil {
			return svcErr.InvalidArgument("invalid payload")
		}
		if err := svc.DeleteReference(c.Context(), sessionFrom(c).Email, ref); err != nil {
			return svcErr.Map(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	me.Post("/pitcher-logs", func(c *fiber.Ctx) error {
		var log PitcherGameLog
		if err := c.BodyParser(&log); err != nil {
			return svcErr.InvalidArgument("invalid payload")
		}
		if err := svc.AddPitcherGameLog(c.Context(), sessionFrom(c).Email, log); err != nil {
			return svcErr.Map(err)
		}
		return c.SendStatus(fiber.StatusCreated)
	})

	me.Delete("/pitcher-logs/:index", func(c *fiber.Ctx) error {
		index, err := strconv.Atoi(c.Params("index"))
		if err != nil {
			return svcErr.InvalidArgument("index must be an integer")
		}
		if err := svc.DeletePitcherGameLog(c.Context(), sessionFrom(c).Email, index); err != nil {
			return svcErr.Map(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	me.Post("/batter-logs", func(c *fiber.Ctx) error {
		var log BatterGameLog
		if err := c.BodyParser(&log); err != nil {
			return svcErr.InvalidArgument("invalid payload")
		}
		if err := svc.AddBatterGameLog(c.Context(), sessionFrom(c).Email, log); err != nil {
			return svcErr.Map(err)
		}
		return c.SendStatus(fiber.StatusCreated)
	})

	me.Delete("/batter-logs/:index", func(c *fiber.Ctx) error {
		index, err := strconv.Atoi(c.Params("index"))
		if err != nil {
			return svcErr.InvalidArgument("index must be an integer")
		}
		if err := svc.DeleteBatterGameLog(c.Context(), sessionFrom(c).Email, index); err != nil {
			return svcErr.Map(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Get("/:email", func(c *fiber.Ctx) error {
		user, err := svc.User(c.Context(), c.Params("email"))
		if err != nil {
			return svcErr.Map(err)
		}
		if user == nil {
			return fiber.NewError(fiber.StatusNotFound, "profile not found")
		}
		return c.JSON(user)
	})

	r.Get("/:email/scout-info", func(c *fiber.Ctx) error {
		info, err := svc.ScoutInfo(c.Context(), c.Params("email"))
		if err != nil {
			return svcErr.Map(err)
		}
		if info == nil {
			info = &ScoutInfo{}
		}
		return c.JSON(info)
	})

	r.Get("/:email/references", func(c *fiber.Ctx) error {
		refs, err := svc.References(c.Context(), c.Params("email"))
		if err != nil {
			return svcErr.Map(err)
		}
		return c.JSON(refs)
	})

	r.Get("/:email/pitcher-logs", func(c *fiber.Ctx) error {
		logs, err := svc.PitcherGameLogs(c.Context(), c.Params("email"))
		if err != nil {
			return svcErr.Map(err)
		}
		return c.JSON(logs)
	})

	r.Get("/:email/batter-logs", func(c *fiber.Ctx) error {
		logs, err := svc.BatterGameLogs(c.Context(), c.Params("email"))
		if err != nil {
			return svcErr.Map(err)
		}
		return c.JSON(logs)
	})
}

func sessionFrom(c *fiber.Ctx) identity.Session {
	session, _ := c.Locals("session").(identity.Session)
	return session
}
