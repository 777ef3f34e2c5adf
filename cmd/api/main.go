package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/akgolfgroup-netizen/player-development-api/internal/config"
	"github.com/akgolfgroup-netizen/player-development-api/internal/delivery"
	"github.com/akgolfgroup-netizen/player-development-api/internal/domain"
	"github.com/akgolfgroup-netizen/player-development-api/internal/handler"
	"github.com/akgolfgroup-netizen/player-development-api/internal/middleware"
	"github.com/akgolfgroup-netizen/player-development-api/internal/repository"
	"github.com/akgolfgroup-netizen/player-development-api/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Delivery mode is decided once here and fixed for the process
	// lifetime: Redis fan-out when the broker answers within the connect
	// timeout, otherwise in-process delivery.
	var channel delivery.Channel
	if rdb, err := config.NewRedisClient(cfg); err != nil {
		log.Printf("Redis unavailable, falling back to in-memory delivery: %v", err)
		channel = delivery.NewMemoryChannel()
	} else {
		defer rdb.Close()
		channel = delivery.NewRedisChannel(rdb)
	}
	log.Printf("Notification delivery mode: %s", channel.Mode())

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, channel, cfg)
	defer services.Push.Close()
	handlers := handler.NewHandlers(services, cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, cfg)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, cfg *config.Config) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1", middleware.AuthRequired(cfg.JWTSecret))

	notifications := v1.Group("/notifications")
	notifications.Post("/", middleware.RequireRecipientType(domain.RecipientCoach, domain.RecipientAdmin), h.Notification.Create)
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Patch("/:id/read", h.Notification.MarkAsRead)
	notifications.Post("/mark-all-read", h.Notification.MarkAllAsRead)

	notifications.Get("/stream", h.Stream.Stream)
	notifications.Get("/stream/status", h.Stream.Status)
}
