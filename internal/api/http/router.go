package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-agent/internal/api/http/handlers"
	"github.com/spec-kit/ticket-agent/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Slack         *handlers.SlackHandler
	SlackVerifier *auth.SlackVerifier
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Root)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	slackGroup := app.Group("/slack", cfg.SlackVerifier.Handle)
	slackGroup.Post("/command", cfg.Slack.Command)
	slackGroup.Post("/actions", cfg.Slack.Actions)
	slackGroup.Post("/events", cfg.Slack.Events)
}
