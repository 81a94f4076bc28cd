package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/sandboxcaixa/ideation-backend/internal/agents"
	"github.com/sandboxcaixa/ideation-backend/internal/handlers"
)

func Setup(
	app *fiber.App,
	healthHandler *handlers.HealthHandler,
	ideaHandler *handlers.IdeaHandler,
	agentList []agents.Agent,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	healthHandler.RegisterRoutes(api)
	ideaHandler.RegisterRoutes(api)

	for _, agent := range agentList {
		agent.RegisterRoutes(api)
	}
}
