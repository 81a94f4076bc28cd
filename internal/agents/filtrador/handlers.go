package filtrador

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sandboxcaixa/ideation-backend/internal/dto"
)

// analyzeContent classifies a single piece of content. The check is called
// before anything is saved; the response carries the full verdict.
func (p *Plugin) analyzeContent(c *fiber.Ctx) error {
	var req dto.AnalyzeContentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Corpo da requisição inválido",
		})
	}

	result := p.service.Evaluate(c.UserContext(), req.Content, req.FieldName, req.Context)
	return c.JSON(result)
}
