package ideia

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/sandboxcaixa/ideation-backend/internal/agents/filtrador"
	"github.com/sandboxcaixa/ideation-backend/internal/models"
)

// IdeaReader is the slice of the idea store the agent needs.
type IdeaReader interface {
	Get(ctx context.Context, userID, ideaID string) (*models.Idea, error)
}

// ChatRepository persists and reads the per-idea transcript.
type ChatRepository interface {
	Append(ctx context.Context, userID, ideaID, role, content string) (*models.ChatMessage, error)
	Recent(ctx context.Context, userID, ideaID string, limit int) ([]models.ChatMessage, error)
	History(ctx context.Context, userID, ideaID string) ([]models.ChatMessage, error)
	Clear(ctx context.Context, userID, ideaID string) error
}

// Moderator screens user input before it is persisted or answered.
type Moderator interface {
	Evaluate(ctx context.Context, content, fieldName string, extra map[string]interface{}) filtrador.Result
}

// Plugin exposes the ideation agent over HTTP.
type Plugin struct {
	service      *Service
	moderator    Moderator
	ideas        IdeaReader
	chats        ChatRepository
	historyLimit int
}

func New(service *Service, moderator Moderator, ideas IdeaReader, chats ChatRepository, historyLimit int) *Plugin {
	if historyLimit <= 0 {
		historyLimit = 10
	}
	return &Plugin{
		service:      service,
		moderator:    moderator,
		ideas:        ideas,
		chats:        chats,
		historyLimit: historyLimit,
	}
}

func (p *Plugin) ID() string { return "ideia" }

func (p *Plugin) Models() []interface{} { return nil }

func (p *Plugin) RegisterRoutes(router fiber.Router) {
	group := router.Group("/ideia")
	group.Post("/chat", p.simpleChat)
	group.Post("/send", p.sendMessage)
	group.Post("/suggest-field", p.suggestField)
	group.Get("/suggestions/:user_id/:idea_id", p.suggestions)
	group.Get("/validate/:user_id/:idea_id", p.validate)
	group.Get("/history/:user_id/:idea_id", p.history)
	group.Delete("/history/:user_id/:idea_id", p.clearHistory)
}
