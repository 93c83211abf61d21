package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/fyp-go-api/internal/config"
	"github.com/noah-isme/fyp-go-api/internal/handler"
	"github.com/noah-isme/fyp-go-api/internal/middleware"
	"github.com/noah-isme/fyp-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	DeliverableHandler *handler.DeliverableHandler
	EvaluationHandler  *handler.EvaluationHandler
	JWTMiddleware      fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	api.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.DeliverableHandler != nil {
		deliverables := api.Group("/deliverables", jwtMiddleware)
		deps.DeliverableHandler.Register(deliverables)
	}

	if deps.EvaluationHandler != nil {
		evaluations := api.Group("/evaluations",
			jwtMiddleware,
			middleware.RequireRaterCapability(),
			middleware.RateLimit("evaluations", cfg.SubmitRateLimit, cfg.SubmitRateWindow),
		)
		deps.EvaluationHandler.Register(evaluations)
	}
}
