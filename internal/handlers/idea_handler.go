package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sandboxcaixa/ideation-backend/internal/dto"
	"github.com/sandboxcaixa/ideation-backend/internal/models"
	"github.com/sandboxcaixa/ideation-backend/internal/storage"
)

// IdeaHandler serves the idea lifecycle endpoints on top of the idea store.
type IdeaHandler struct {
	ideas *storage.IdeaStore
}

func NewIdeaHandler(ideas *storage.IdeaStore) *IdeaHandler {
	return &IdeaHandler{ideas: ideas}
}

func (h *IdeaHandler) RegisterRoutes(router fiber.Router) {
	group := router.Group("/ideas")
	group.Post("/", h.create)
	group.Get("/:user_id", h.list)
	group.Get("/:user_id/:idea_id", h.get)
	group.Patch("/:user_id/:idea_id", h.update)
	group.Put("/:user_id/:idea_id/status", h.updateStatus)
	group.Delete("/:user_id/:idea_id", h.remove)
}

func (h *IdeaHandler) create(c *fiber.Ctx) error {
	var req dto.CreateIdeaRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	if req.UserID == "" {
		return badRequest(c, "user_id é obrigatório")
	}

	idea, err := h.ideas.Create(c.UserContext(), req.UserID, req.Title)
	if err != nil {
		return storageFailure(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(idea)
}

// list degrades to an empty page when the database is unreachable so the
// client can still render its idea list screen.
func (h *IdeaHandler) list(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	limit := c.QueryInt("limit", 50)

	ideas, err := h.ideas.List(c.UserContext(), userID, limit)
	if err != nil && !errors.Is(err, storage.ErrUnavailable) {
		return storageFailure(c, err)
	}
	if ideas == nil {
		ideas = []models.Idea{}
	}
	return c.JSON(fiber.Map{"user_id": userID, "ideas": ideas, "count": len(ideas)})
}

func (h *IdeaHandler) get(c *fiber.Ctx) error {
	idea, err := h.ideas.Get(c.UserContext(), c.Params("user_id"), c.Params("idea_id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return notFound(c)
		}
		return storageFailure(c, err)
	}
	return c.JSON(idea)
}

// update is the autosave endpoint: only the supplied fields change and
// dynamic content merges key by key instead of being replaced.
func (h *IdeaHandler) update(c *fiber.Ctx) error {
	var req dto.UpdateIdeaRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	if req.Status != nil && !models.ValidStatuses[*req.Status] {
		return badRequest(c, "Status inválido: "+*req.Status)
	}

	fields := req.UpdateFields()
	if len(fields) == 0 {
		return badRequest(c, "Nenhum campo para atualizar")
	}

	idea, err := h.ideas.Autosave(c.UserContext(), c.Params("user_id"), c.Params("idea_id"), fields)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return notFound(c)
		}
		return storageFailure(c, err)
	}
	return c.JSON(idea)
}

func (h *IdeaHandler) updateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Corpo da requisição inválido")
	}
	status := strings.TrimSpace(req.Status)
	if !models.ValidStatuses[status] {
		return badRequest(c, "Status inválido: "+req.Status)
	}

	idea, err := h.ideas.Autosave(c.UserContext(), c.Params("user_id"), c.Params("idea_id"), map[string]interface{}{"status": status})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return notFound(c)
		}
		return storageFailure(c, err)
	}
	return c.JSON(idea)
}

func (h *IdeaHandler) remove(c *fiber.Ctx) error {
	err := h.ideas.Delete(c.UserContext(), c.Params("user_id"), c.Params("idea_id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return notFound(c)
		}
		return storageFailure(c, err)
	}
	return c.JSON(dto.SuccessResponse{Status: "success", Message: "Ideia removida"})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Ideia não encontrada"})
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
