package filtrador

import (
	"github.com/gofiber/fiber/v2"
)

// Plugin mounts the Filtrador agent's HTTP surface.
type Plugin struct {
	service *Service
}

func New(service *Service) *Plugin {
	return &Plugin{service: service}
}

func (p *Plugin) ID() string {
	return "filtrador"
}

func (p *Plugin) Models() []interface{} {
	// Moderation results are never persisted.
	return nil
}

func (p *Plugin) RegisterRoutes(router fiber.Router) {
	g := router.Group("/filtrador")
	g.Post("/analyze", p.analyzeContent)
	g.Post("/check", p.analyzeContent)
}
