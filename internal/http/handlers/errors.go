package handlers

import (
	"errors"

	"stocktrack/internal/domain"
	applog "stocktrack/internal/log"

	"github.com/gofiber/fiber/v2"
)

const genericFailure = "Something went wrong. Please try again."

// writeError maps service errors onto status codes. Store failures and
// anything unknown are logged and answered with a generic message.
func writeError(c *fiber.Ctx, action string, err error, fields map[string]any) error {
	var pe *domain.ParseError
	switch {
	case errors.Is(err, domain.ErrNameRequired):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Product name is required."})
	case errors.Is(err, domain.ErrDuplicateName):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Product name must be unique."})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found."})
	case errors.Is(err, domain.ErrUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "User not authenticated for history logging."})
	case errors.As(err, &pe):
		applog.Security(c, action+".parse.fail", map[string]any{"line": pe.Line})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": pe.Error()})
	}
	applog.Error(c, action+".fail", err, fields)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": genericFailure})
}
