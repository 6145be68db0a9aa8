package errors

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Map converts store/infra errors into HTTP errors.
// Keeps handlers clean by centralizing error mapping.
func Map(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.NewError(fiber.StatusNotFound, "record not found")

	case errors.Is(err, ErrFetchFailed):
		return fiber.NewError(fiber.StatusNotFound, "failed to fetch")

	case errors.Is(err, ErrConversationsEmpty):
		return fiber.NewError(fiber.StatusNotFound, "conversations empty")

	case errors.Is(err, context.DeadlineExceeded):
		return fiber.NewError(fiber.StatusRequestTimeout, "request timed out")

	case errors.Is(err, context.Canceled):
		return fiber.NewError(fiber.StatusRequestTimeout, "request was canceled")

	default:
		// fallback → bubble up error message for debugging
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}

// InvalidArgument creates a 400 error for bad input validation.
func InvalidArgument(msg string) error {
	return fiber.NewError(fiber.StatusBadRequest, msg)
}

// AlreadyExists creates a 409 error.
func AlreadyExists(msg string) error {
	return fiber.NewError(fiber.StatusConflict, msg)
}
