// Package filtrador implements the moderation gate that classifies content
// before it reaches storage or the ideation agent. The gate fails open:
// when the model is unavailable it reports content as appropriate rather
// than blocking the flow.
package filtrador

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sandboxcaixa/ideation-backend/internal/ai"
)

// Moderation categories.
const (
	CategoryInappropriate        = "conteudo_inapropriado"
	CategoryDestructiveCriticism = "critica_destrutiva"
	CategoryOffTopic             = "fora_de_contexto"
	CategoryNonsense             = "conteudo_sem_sentido"
)

const defaultReason = "conteúdo inapropriado detectado pelo Agente Filtrador"

// excerptLimit bounds the offending excerpt synthesized by the keyword
// fallback, in characters.
const excerptLimit = 100

// Result is the outcome of one moderation check. It is produced fresh per
// call and never persisted.
type Result struct {
	IsInappropriate bool    `json:"is_inappropriate"`
	Category        *string `json:"category"`
	Reason          string  `json:"reason"`
	OffensiveText   *string `json:"offensive_text"`
}

// Service is the Filtrador agent's moderation engine.
type Service struct {
	ai        ai.Completer
	knowledge string
}

func NewService(completer ai.Completer, knowledge string) *Service {
	return &Service{ai: completer, knowledge: knowledge}
}

// Enabled reports whether the gate will actually call the model. When false
// every evaluation short-circuits to appropriate.
func (s *Service) Enabled() bool {
	return s.ai.Configured()
}

// Evaluate classifies content. It never returns an error: any model or
// transport failure degrades to an appropriate verdict carrying the failure
// as the reason.
func (s *Service) Evaluate(ctx context.Context, content, fieldName string, extra map[string]interface{}) Result {
	if strings.TrimSpace(content) == "" {
		return Result{}
	}

	if !s.ai.Configured() {
		return Result{Reason: "Agente Filtrador não configurado"}
	}

	var contextStr strings.Builder
	if fieldName != "" {
		contextStr.WriteString("\nCampo sendo analisado: " + fieldName)
	}
	if len(extra) > 0 {
		if b, err := json.Marshal(extra); err == nil {
			contextStr.WriteString("\nContexto adicional: " + string(b))
		}
	}

	userPrompt := fmt.Sprintf(`%s

Conteúdo a analisar: %q
%s

Analise este conteúdo e determine se deve ser bloqueado antes de salvar no banco de dados.`,
		moderationPrompt(s.knowledge), content, contextStr.String())

	raw, err := s.ai.Complete(ctx, []ai.Message{
		{Role: "system", Content: systemInstruction},
		{Role: "user", Content: userPrompt},
	}, ai.Options{
		// Near-deterministic: the gate must be rigorous and consistent.
		Temperature: 0.1,
		MaxTokens:   300,
		JSONObject:  true,
	})
	if err != nil {
		slog.Warn("filtrador call failed, failing open", "error", err)
		return Result{Reason: "Erro na análise: " + err.Error()}
	}

	return parseVerdict(raw, content)
}

// CheckContent is a convenience wrapper returning only the verdict and
// its reason.
func (s *Service) CheckContent(ctx context.Context, content, fieldName string) (bool, string) {
	result := s.Evaluate(ctx, content, fieldName, nil)
	return result.IsInappropriate, result.Reason
}

type verdictPayload struct {
	IsInappropriate bool    `json:"is_inappropriate"`
	Category        *string `json:"category"`
	Reason          *string `json:"reason"`
	OffensiveText   *string `json:"offensive_text"`
}

// parseVerdict decodes the model's structured verdict, defaulting absent
// fields. When the payload is not valid JSON it falls back to a keyword
// scan over the raw text.
func parseVerdict(raw, content string) Result {
	var payload verdictPayload
	if err := json.Unmarshal([]byte(ai.StripCodeFence(raw)), &payload); err != nil {
		return keywordFallback(raw, content)
	}

	reason := defaultReason
	if payload.Reason != nil {
		reason = *payload.Reason
	}

	return Result{
		IsInappropriate: payload.IsInappropriate,
		Category:        payload.Category,
		Reason:          reason,
		OffensiveText:   payload.OffensiveText,
	}
}

// keywordFallback scans a malformed response for inappropriateness signals
// and, when triggered, synthesizes a verdict with a bounded excerpt of the
// original input.
func keywordFallback(raw, content string) Result {
	lower := strings.ToLower(raw)
	if strings.Contains(lower, "true") ||
		strings.Contains(lower, "inappropriate") ||
		strings.Contains(lower, "inapropriado") {
		category := CategoryInappropriate
		excerpt := truncateRunes(content, excerptLimit)
		return Result{
			IsInappropriate: true,
			Category:        &category,
			Reason:          defaultReason,
			OffensiveText:   &excerpt,
		}
	}
	return Result{}
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
