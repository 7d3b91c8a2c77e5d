package main

import (
	"log"

	"github.com/Poojan2107/Product-Nexus/internal/config"
	"github.com/Poojan2107/Product-Nexus/internal/db"
	"github.com/Poojan2107/Product-Nexus/internal/handlers"
	"github.com/Poojan2107/Product-Nexus/internal/middleware"
	"github.com/Poojan2107/Product-Nexus/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading it, using environment variables")
	}

	// Initialize Fiber with a catch-all error handler
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"message": "Something went wrong!"})
		},
	})

	// Initialize MinIO
	storage.InitMinio()

	// Middleware
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.CORSOrigins(),
		AllowCredentials: true,
	}))

	// Connect to MongoDB
	db.ConnectMongoDB(config.Getenv("MONGO_URI", "mongodb://localhost:27017/product_nexus"), "product_nexus")

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Product Nexus API", "version": "1.0"})
	})

	api := app.Group("/api")

	// Auth Routes
	auth := api.Group("/auth")
	auth.Post("/register", handlers.RegisterHandler)
	auth.Post("/login", handlers.LoginHandler)
	auth.Post("/logout", handlers.LogoutHandler)
	auth.Get("/status", handlers.StatusHandler)
	auth.Put("/profile/:id", middleware.AuthMiddleware, handlers.UpdateProfileHandler)

	// Product Routes
	products := api.Group("/products", middleware.AuthMiddleware)
	products.Get("/", handlers.ListProductsHandler)
	products.Post("/", handlers.CreateProductHandler)
	products.Get("/export", handlers.ExportProductsHandler)
	products.Get("/:id", handlers.GetProductHandler)
	products.Put("/:id", handlers.UpdateProductHandler)
	products.Delete("/:id", handlers.DeleteProductHandler)

	// Order Routes. Fixed paths are registered before the :id routes.
	orders := api.Group("/orders")
	orders.Post("/", middleware.AuthMiddleware, handlers.CreateOrderHandler)
	orders.Get("/myorders", middleware.AuthMiddleware, handlers.MyOrdersHandler)
	orders.Get("/analytics", middleware.AdminMiddleware, handlers.OrderAnalyticsHandler)
	orders.Get("/", middleware.AdminMiddleware, handlers.ListOrdersHandler)
	orders.Get("/:id", middleware.AuthMiddleware, handlers.GetOrderHandler)
	orders.Put("/:id/pay", middleware.AuthMiddleware, handlers.PayOrderHandler)
	orders.Put("/:id/deliver", middleware.AdminMiddleware, handlers.DeliverOrderHandler)

	// Start server
	port := config.Getenv("PORT", "5000")
	log.Fatal(app.Listen(":" + port))
}
