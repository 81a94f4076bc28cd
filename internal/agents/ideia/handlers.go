package ideia

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sandboxcaixa/ideation-backend/internal/ai"
	"github.com/sandboxcaixa/ideation-backend/internal/dto"
	"github.com/sandboxcaixa/ideation-backend/internal/models"
	"github.com/sandboxcaixa/ideation-backend/internal/storage"
	"golang.org/x/sync/errgroup"
)

// suggestibleFields are the only form fields the suggestion endpoint will
// generate content for.
var suggestibleFields = map[string]bool{
	"publicoAlvo":         true,
	"metricas":            true,
	"resultadosEsperados": true,
}

var stepNames = map[int]string{
	1: "Sua Ideia",
	2: "Objetivos e Metas",
	3: "Cronograma",
}

func stepNameFor(step int) string {
	if name, ok := stepNames[step]; ok {
		return name
	}
	return "Desconhecida"
}

func toFormContext(payload *dto.FormContextPayload) *FormContext {
	if payload == nil {
		return nil
	}
	name := payload.StepName
	if name == "" {
		name = stepNameFor(payload.CurrentStep)
	}
	return &FormContext{
		CurrentStep:             payload.CurrentStep,
		StepName:                name,
		FormData:                payload.FormData,
		RequiredFieldsFilled:    payload.RequiredFieldsFilled,
		OptionalFieldsAvailable: payload.OptionalFieldsAvailable,
	}
}

func toHistory(messages []dto.Message) []ai.Message {
	history := make([]ai.Message, 0, len(messages))
	for _, m := range messages {
		history = append(history, ai.Message{Role: m.Role, Content: m.Content})
	}
	return history
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func storageFailure(c *fiber.Ctx, err error) error {
	if errors.Is(err, storage.ErrUnavailable) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error:   true,
			Message: "Banco de dados indisponível no momento.",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error:   true,
		Message: "Erro interno ao acessar o banco de dados.",
	})
}

// simpleChat answers one message with caller-supplied history. Nothing is
// read from or written to storage.
func (p *Plugin) simpleChat(c *fiber.Ctx) error {
	var req dto.SimpleChatRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	if strings.TrimSpace(req.Message) == "" {
		return badRequest(c, "A mensagem não pode estar vazia")
	}

	response := p.service.Respond(c.UserContext(), req.Message, toHistory(req.History), nil, nil)
	return c.JSON(dto.SimpleChatResponse{Response: response})
}

// sendMessage is the persisted chat flow: moderate, save the user turn,
// load history and idea in parallel, answer, save the assistant turn.
func (p *Plugin) sendMessage(c *fiber.Ctx) error {
	var req dto.ChatSendRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	if req.UserID == "" || req.IdeaID == "" {
		return badRequest(c, "user_id e idea_id são obrigatórios")
	}
	if strings.TrimSpace(req.Message) == "" {
		return badRequest(c, "A mensagem não pode estar vazia")
	}

	ctx := c.UserContext()

	verdict := p.moderator.Evaluate(ctx, req.Message, "chat", nil)
	if verdict.IsInappropriate {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":      true,
			"message":    verdict.Reason,
			"moderation": verdict,
		})
	}

	if _, err := p.chats.Append(ctx, req.UserID, req.IdeaID, "user", req.Message); err != nil {
		return storageFailure(c, err)
	}

	// History and idea live in different tables, so both reads run
	// concurrently. Either one failing degrades to empty context rather
	// than failing the chat.
	var (
		history []ai.Message
		idea    *IdeaContext
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(2)
	g.Go(func() error {
		recent, err := p.chats.Recent(gctx, req.UserID, req.IdeaID, p.historyLimit)
		if err != nil {
			slog.Warn("chat history read failed", "idea_id", req.IdeaID, "error", err)
			return nil
		}
		msgs := make([]ai.Message, 0, len(recent))
		for _, m := range recent {
			msgs = append(msgs, ai.Message{Role: m.Role, Content: m.Content})
		}
		history = msgs
		return nil
	})
	g.Go(func() error {
		stored, err := p.ideas.Get(gctx, req.UserID, req.IdeaID)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				slog.Warn("idea read failed", "idea_id", req.IdeaID, "error", err)
			}
			return nil
		}
		idea = ContextFromIdea(stored)
		return nil
	})
	_ = g.Wait()

	response := p.service.Respond(ctx, req.Message, history, idea, toFormContext(req.FormContext))

	saved, err := p.chats.Append(ctx, req.UserID, req.IdeaID, "assistant", response)
	if err != nil {
		return storageFailure(c, err)
	}

	return c.JSON(dto.ChatSendResponse{Response: response, Timestamp: saved.Timestamp})
}

// suggestField generates content for one whitelisted form field. The
// whitelist is checked before any model call. A missing idea is not an
// error here, the suggestion just runs on form data alone.
func (p *Plugin) suggestField(c *fiber.Ctx) error {
	var req dto.FieldSuggestionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	if req.UserID == "" || req.IdeaID == "" || req.FieldName == "" {
		return badRequest(c, "user_id, idea_id e field_name são obrigatórios")
	}
	if !suggestibleFields[req.FieldName] {
		return badRequest(c, "Campo não suporta sugestões: "+req.FieldName)
	}

	ctx := c.UserContext()

	var idea *IdeaContext
	if stored, err := p.ideas.Get(ctx, req.UserID, req.IdeaID); err == nil {
		idea = ContextFromIdea(stored)
	} else if !errors.Is(err, storage.ErrNotFound) {
		slog.Warn("idea read failed", "idea_id", req.IdeaID, "error", err)
	}

	form := &FormContext{
		CurrentStep: req.CurrentStep,
		StepName:    stepNameFor(req.CurrentStep),
		FormData:    req.FormData,
	}
	suggestion := p.service.GenerateFieldSuggestion(ctx, req.FieldName, idea, form)
	return c.JSON(suggestion)
}

func (p *Plugin) suggestions(c *fiber.Ctx) error {
	userID, ideaID := c.Params("user_id"), c.Params("idea_id")
	ctx := c.UserContext()

	stored, err := p.ideas.Get(ctx, userID, ideaID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Ideia não encontrada"})
		}
		return storageFailure(c, err)
	}

	return c.JSON(fiber.Map{
		"idea_id":     ideaID,
		"suggestions": p.service.GenerateSuggestions(ctx, ContextFromIdea(stored)),
	})
}

func (p *Plugin) validate(c *fiber.Ctx) error {
	userID, ideaID := c.Params("user_id"), c.Params("idea_id")

	stored, err := p.ideas.Get(c.UserContext(), userID, ideaID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Ideia não encontrada"})
		}
		return storageFailure(c, err)
	}

	result := ValidateCompleteness(ContextFromIdea(stored))
	return c.JSON(fiber.Map{
		"idea_id":        ideaID,
		"score":          result.Score,
		"is_complete":    result.IsComplete,
		"missing_fields": result.MissingFields,
		"filled_fields":  result.FilledFields,
		"total_fields":   result.TotalFields,
	})
}

// history returns the full transcript. An unavailable database degrades to
// an empty list so the client can still render the conversation screen.
func (p *Plugin) history(c *fiber.Ctx) error {
	userID, ideaID := c.Params("user_id"), c.Params("idea_id")

	messages, err := p.chats.History(c.UserContext(), userID, ideaID)
	if err != nil {
		if errors.Is(err, storage.ErrUnavailable) {
			slog.Warn("chat history unavailable", "idea_id", ideaID, "error", err)
			messages = nil
		} else {
			return storageFailure(c, err)
		}
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}

	return c.JSON(fiber.Map{"idea_id": ideaID, "user_id": userID, "messages": messages})
}

func (p *Plugin) clearHistory(c *fiber.Ctx) error {
	userID, ideaID := c.Params("user_id"), c.Params("idea_id")

	if err := p.chats.Clear(c.UserContext(), userID, ideaID); err != nil {
		return storageFailure(c, err)
	}
	return c.JSON(dto.SuccessResponse{Status: "success", Message: "Histórico de conversa removido"})
}
