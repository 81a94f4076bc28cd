package ideia

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sandboxcaixa/ideation-backend/internal/ai"
)

const (
	chatMaxTokens        = 1024
	suggestionsMaxTokens = 300
	fieldMaxTokens       = 500

	suggestionsTemperature = 0.5
	fieldTemperature       = 0.7

	maxSuggestions = 3
)

const (
	notConfiguredReply = "⚠️ Serviço de IA não está configurado. Verifique a configuração da GROQ_API_KEY."
	transientReply     = "Desculpe, tive um problema ao processar sua mensagem. Tente novamente em alguns instantes."
)

// FieldSuggestion is a structured autocomplete proposal for one form field.
type FieldSuggestion struct {
	Suggestion string  `json:"suggestion"`
	Reasoning  string  `json:"reasoning"`
	Confidence float64 `json:"confidence"`
}

// Service is the ideation agent. It owns the persona prompt, the knowledge
// base and the per-capability model parameters.
type Service struct {
	ai          ai.Completer
	knowledge   string
	temperature float64
}

func NewService(completer ai.Completer, knowledge string, temperature float64) *Service {
	return &Service{ai: completer, knowledge: knowledge, temperature: temperature}
}

// Enabled reports whether the service has a usable model client.
func (s *Service) Enabled() bool {
	return s.ai != nil && s.ai.Configured()
}

// Respond produces the assistant's reply to one user message. The reply is
// always usable text: configuration and transport failures degrade to fixed
// Portuguese fallbacks instead of surfacing errors to the caller.
func (s *Service) Respond(ctx context.Context, message string, history []ai.Message, idea *IdeaContext, form *FormContext) string {
	if !s.Enabled() {
		return notConfiguredReply
	}

	system := systemPrompt(s.knowledge) + "\n\n" + BuildContext(idea, form)

	messages := make([]ai.Message, 0, len(history)+2)
	messages = append(messages, ai.Message{Role: "system", Content: system})
	messages = append(messages, history...)
	messages = append(messages, ai.Message{Role: "user", Content: message})

	reply, err := s.ai.Complete(ctx, messages, ai.Options{
		Temperature: s.temperature,
		MaxTokens:   chatMaxTokens,
	})
	if err != nil {
		slog.Error("ideia chat completion failed", "error", err)
		return transientReply
	}
	return reply
}

// GenerateSuggestions returns up to three short improvement suggestions for
// a stored idea. Failures degrade to a single fallback suggestion.
func (s *Service) GenerateSuggestions(ctx context.Context, idea *IdeaContext) []string {
	if !s.Enabled() {
		return []string{"Configure a GROQ_API_KEY para receber sugestões personalizadas."}
	}

	prompt := BuildContext(idea, nil) + "\n\n" + suggestionsInstruction
	raw, err := s.ai.Complete(ctx, []ai.Message{
		{Role: "system", Content: systemPrompt(s.knowledge)},
		{Role: "user", Content: prompt},
	}, ai.Options{
		Temperature: suggestionsTemperature,
		MaxTokens:   suggestionsMaxTokens,
	})
	if err != nil {
		slog.Error("ideia suggestions failed", "error", err)
		return []string{"Não foi possível gerar sugestões no momento. Tente novamente mais tarde."}
	}

	suggestions := make([]string, 0, maxSuggestions)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		suggestions = append(suggestions, line)
		if len(suggestions) == maxSuggestions {
			break
		}
	}
	if len(suggestions) == 0 {
		return []string{"Não foi possível gerar sugestões no momento. Tente novamente mais tarde."}
	}
	return suggestions
}

// GenerateFieldSuggestion proposes content for one form field as structured
// output. The model is asked for JSON; malformed output and transport
// failures both degrade to a zero-confidence explanatory suggestion.
func (s *Service) GenerateFieldSuggestion(ctx context.Context, fieldName string, idea *IdeaContext, form *FormContext) FieldSuggestion {
	if !s.Enabled() {
		return FieldSuggestion{
			Suggestion: "Serviço de IA não configurado.",
			Reasoning:  "A variável GROQ_API_KEY não foi definida.",
		}
	}

	prompt := BuildContext(idea, form) + "\n\n" + fmt.Sprintf(fieldSuggestionInstruction, fieldName)
	raw, err := s.ai.Complete(ctx, []ai.Message{
		{Role: "system", Content: systemPrompt(s.knowledge)},
		{Role: "user", Content: prompt},
	}, ai.Options{
		Temperature: fieldTemperature,
		MaxTokens:   fieldMaxTokens,
		JSONObject:  true,
	})
	if err != nil {
		slog.Error("ideia field suggestion failed", "field", fieldName, "error", err)
		return FieldSuggestion{
			Suggestion: "Não foi possível gerar uma sugestão no momento.",
			Reasoning:  "Erro ao consultar o serviço de IA.",
		}
	}

	var suggestion FieldSuggestion
	if err := json.Unmarshal([]byte(ai.StripCodeFence(raw)), &suggestion); err != nil {
		slog.Warn("ideia field suggestion returned invalid JSON", "field", fieldName, "error", err)
		return FieldSuggestion{
			Suggestion: "Não foi possível gerar uma sugestão válida.",
			Reasoning:  "O modelo não retornou o formato esperado.",
		}
	}

	if suggestion.Confidence < 0 {
		suggestion.Confidence = 0
	}
	if suggestion.Confidence > 1 {
		suggestion.Confidence = 1
	}
	return suggestion
}
