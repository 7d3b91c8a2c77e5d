package handlers

import (
	"github.com/Poojan2107/Product-Nexus/internal/services"
	"github.com/gofiber/fiber/v2"
)

func RegisterHandler(c *fiber.Ctx) error {
	var request struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	user, err := services.RegisterUser(c.Context(), request.Name, request.Email, request.Password)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "User registered successfully", "user": user})
}

func LoginHandler(c *fiber.Ctx) error {
	var request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	token, user, err := services.LoginUser(c.Context(), request.Email, request.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid credentials"})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// LogoutHandler exists for client parity; bearer tokens are discarded
// client-side.
func LogoutHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// StatusHandler is the liveness check used by the terminal's status command.
func StatusHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Product Nexus API online"})
}

func UpdateProfileHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	targetID := c.Params("id")

	var upd services.ProfileUpdate
	if err := c.BodyParser(&upd); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	user, err := services.UpdateProfile(c.Context(), userID, targetID, upd)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(user)
}
