package handlers

import (
	"errors"

	"github.com/Poojan2107/Product-Nexus/internal/services"
	"github.com/gofiber/fiber/v2"
)

// fail maps service sentinel errors onto the HTTP taxonomy. Unexpected errors
// surface as a generic 500 so internals never leak to the caller.
func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Not authorized"})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Not found"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error"})
}
