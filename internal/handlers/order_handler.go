package handlers

import (
	"encoding/json"

	"github.com/Poojan2107/Product-Nexus/internal/config"
	"github.com/Poojan2107/Product-Nexus/internal/models"
	"github.com/Poojan2107/Product-Nexus/internal/services"
	"github.com/gofiber/fiber/v2"
)

func CreateOrderHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var input models.OrderInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	order, err := services.CreateOrder(c.Context(), userID, input)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

func MyOrdersHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	orders, err := services.MyOrders(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(orders)
}

func GetOrderHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	role := c.Locals("role").(string)

	order, err := services.GetOrder(c.Context(), c.Params("id"), userID, role)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(order)
}

func ListOrdersHandler(c *fiber.Ctx) error {
	orders, err := services.ListOrders(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(orders)
}

// PayOrderHandler applies a payment provider callback. The raw body must be
// signed with the shared webhook secret; client-asserted payment state alone
// is never trusted.
func PayOrderHandler(c *fiber.Ctx) error {
	body := c.Body()
	signature := c.Get("X-Payment-Signature")

	if signature == "" || !services.VerifyPaymentSignature(body, signature, config.PaymentWebhookSecret()) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid payment signature"})
	}

	var result models.PaymentResult
	if err := json.Unmarshal(body, &result); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	order, err := services.MarkOrderPaid(c.Context(), c.Params("id"), result)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(order)
}

func DeliverOrderHandler(c *fiber.Ctx) error {
	order, err := services.MarkOrderDelivered(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(order)
}

func OrderAnalyticsHandler(c *fiber.Ctx) error {
	analytics, err := services.GetOrderAnalytics(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(analytics)
}
