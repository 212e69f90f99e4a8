package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/JimLiu0/provider-dashboard/config"
	"github.com/JimLiu0/provider-dashboard/internal/logger"
	"github.com/JimLiu0/provider-dashboard/internal/monitoring"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

type Middleware struct {
	Config config.Config
	log    logger.Logger
}

func New(config config.Config) Middleware {
	return Middleware{
		Config: config,
		log:    logger.New("middleware"),
	}
}

// Install adds the shared middleware chain to app, outermost first.
func (m Middleware) Install(app *fiber.App) {
	app.Use(recover.New(recover.Config{EnableStackTrace: !m.Config.IsProduction()}))
	app.Use(requestid.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: m.Config.CorsAllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(compress.New(compress.Config{
		Next: func(c *fiber.Ctx) bool { return strings.HasPrefix(c.Path(), "/ws") },
	}))
	app.Use(m.Metrics())
	app.Use(m.RequestLogger())
}

// Metrics records request counts and latency by route pattern.
func (m Middleware) Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		path := c.Route().Path
		monitoring.RequestsTotal.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		monitoring.RequestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())

		return err
	}
}

func (m Middleware) RequestLogger() fiber.Handler {
	log := m.log.Function("RequestLogger")

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		log.Debug("request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"duration", time.Since(start),
			"requestID", c.Locals(requestid.ConfigDefault.ContextKey),
		)
		return err
	}
}
