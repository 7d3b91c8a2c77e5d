package middleware

import (
	"strings"

	"github.com/Poojan2107/Product-Nexus/internal/config"
	"github.com/Poojan2107/Product-Nexus/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AdminMiddleware ensures that only users with "admin" role can access admin routes
func AdminMiddleware(c *fiber.Ctx) error {
	tokenString := strings.TrimPrefix(c.Get("Authorization"), "Bearer ")

	// If token is missing, return unauthorized
	if tokenString == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing token"})
	}

	// Parse token
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return config.JWTSecret(), nil
	})

	if err != nil || !token.Valid {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
	}

	// Extract claims
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid claims"})
	}

	// Check if user has admin role
	role, exists := claims["role"].(string)
	if !exists || role != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Access denied. Admins only."})
	}

	userID, exists := claims["user_id"].(string)
	if !exists {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token payload"})
	}

	c.Locals("user_id", userID)
	c.Locals("role", role)

	return c.Next()
}
