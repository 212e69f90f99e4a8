package handlers

import (
	"github.com/JimLiu0/provider-dashboard/internal/app"
	"github.com/JimLiu0/provider-dashboard/internal/handlers/middleware"
	"github.com/JimLiu0/provider-dashboard/internal/logger"
	"github.com/JimLiu0/provider-dashboard/internal/monitoring"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/websocket/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

// NewServer builds the fiber app with the shared middleware and every route.
func NewServer(app *app.App) *fiber.App {
	server := fiber.New(fiber.Config{
		AppName:               "provider-dashboard",
		BodyLimit:             1 * 1024 * 1024,
		DisableStartupMessage: true,
	})

	app.Middleware.Install(server)
	Router(server, app)

	return server
}

func Router(router fiber.Router, app *app.App) {
	setupWebSocketRoute(router, app)
	router.Get("/metrics", adaptor.HTTPHandler(monitoring.Handler()))

	api := router.Group("/api")
	HealthHandler(api, app.Config)
	NewPatientHandler(*app, api).Register()
}

func setupWebSocketRoute(router fiber.Router, app *app.App) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws", websocket.New(func(c *websocket.Conn) {
		app.Websocket.HandleWebSocket(c)
	}))
}
