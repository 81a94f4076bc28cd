package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sandboxcaixa/ideation-backend/internal/database"
	"github.com/sandboxcaixa/ideation-backend/internal/dto"
	"gorm.io/gorm"
)

// HealthHandler reports process liveness plus the state of the database and
// of each AI-backed capability. A missing model key is reported as disabled
// rather than failing the check, matching the fail-open startup mode.
type HealthHandler struct {
	db               *gorm.DB
	moderationActive func() bool
	ideationActive   func() bool
}

func NewHealthHandler(db *gorm.DB, moderationActive, ideationActive func() bool) *HealthHandler {
	return &HealthHandler{db: db, moderationActive: moderationActive, ideationActive: ideationActive}
}

func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/health", h.health)
}

func (h *HealthHandler) health(c *fiber.Ctx) error {
	resp := dto.HealthResponse{
		Status:     "ok",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		DB:         "up",
		Moderation: capabilityState(h.moderationActive),
		Ideation:   capabilityState(h.ideationActive),
	}

	if err := database.Ping(h.db); err != nil {
		resp.Status = "degraded"
		resp.DB = "down"
	}
	return c.JSON(resp)
}

func capabilityState(active func() bool) string {
	if active != nil && active() {
		return "active"
	}
	return "disabled"
}
