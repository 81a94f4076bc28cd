package ideia

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sandboxcaixa/ideation-backend/internal/models"
)

const noIdeaDataSentence = "DADOS ATUAIS DA IDEIA DO USUÁRIO (salvos no banco): Ainda não há informações salvas sobre a ideia."

// IdeaContext is the persisted idea state the assembler renders for the
// model.
type IdeaContext struct {
	Title          string
	Description    string
	TargetAudience string
	Status         string
	DynamicContent map[string]interface{}
}

// FormContext is the ephemeral, per-request form state. It is supplied by
// the caller and never stored.
type FormContext struct {
	CurrentStep             int
	StepName                string
	FormData                map[string]string
	RequiredFieldsFilled    *string
	OptionalFieldsAvailable *string
}

// ContextFromIdea converts a stored idea into assembler input. A nil idea
// stays nil, which renders as the explicit no-data sentence.
func ContextFromIdea(idea *models.Idea) *IdeaContext {
	if idea == nil {
		return nil
	}
	return &IdeaContext{
		Title:          idea.Title,
		Description:    idea.Description,
		TargetAudience: idea.TargetAudience,
		Status:         idea.Status,
		DynamicContent: idea.DynamicContent,
	}
}

// BuildContext merges form state and idea state into one bounded text block
// with deterministic ordering: the form block first when present, then the
// idea block. Empty dynamic fields are omitted entirely; a missing idea
// renders as an explicit sentence so the model never sees an ambiguous
// empty context.
func BuildContext(idea *IdeaContext, form *FormContext) string {
	var parts []string

	if form != nil {
		stepName := form.StepName
		if stepName == "" {
			stepName = "Desconhecida"
		}
		parts = append(parts, fmt.Sprintf("CONTEXTO ATUAL DO FORMULÁRIO (seção: %s):", stepName))
		parts = append(parts, fmt.Sprintf("Etapa atual: %d", form.CurrentStep))

		if len(form.FormData) > 0 {
			parts = append(parts, "📝 Campos do Formulário (valores atuais, incluindo não salvos):")
			for _, key := range sortedStringKeys(form.FormData) {
				if value := form.FormData[key]; value != "" {
					parts = append(parts, fmt.Sprintf("  • %s: %s", key, value))
				}
			}
		} else {
			parts = append(parts, "📝 Nenhum dado preenchido no formulário ainda.")
		}

		if form.RequiredFieldsFilled != nil {
			parts = append(parts, "✅ Campos obrigatórios da seção atual preenchidos: "+*form.RequiredFieldsFilled)
		}
		if form.OptionalFieldsAvailable != nil {
			parts = append(parts, "💡 Campos opcionais disponíveis para sugestão: "+*form.OptionalFieldsAvailable)
		}
		parts = append(parts, "")
	}

	if idea == nil {
		parts = append(parts, noIdeaDataSentence)
		return strings.Join(parts, "\n")
	}

	parts = append(parts, "DADOS ATUAIS DA IDEIA DO USUÁRIO (salvos no banco):")
	if idea.Title != "" {
		parts = append(parts, "📌 Título: "+idea.Title)
	}
	if idea.Description != "" {
		parts = append(parts, "📝 Descrição: "+idea.Description)
	}
	if idea.TargetAudience != "" {
		parts = append(parts, "👥 Público-alvo: "+idea.TargetAudience)
	}
	if idea.Status != "" {
		parts = append(parts, "📊 Status: "+idea.Status)
	}

	dynamic := nonEmptyDynamicFields(idea.DynamicContent)
	if len(dynamic) > 0 {
		parts = append(parts, "\n🔧 Campos Adicionais (salvos):")
		for _, key := range sortedAnyKeys(idea.DynamicContent) {
			if value, ok := dynamic[key]; ok {
				parts = append(parts, fmt.Sprintf("  • %s: %s", key, value))
			}
		}
	}

	return strings.Join(parts, "\n")
}

// nonEmptyDynamicFields keeps only entries whose trimmed string rendering
// is non-empty.
func nonEmptyDynamicFields(dynamic map[string]interface{}) map[string]string {
	out := make(map[string]string, len(dynamic))
	for key, value := range dynamic {
		if value == nil {
			continue
		}
		rendered := strings.TrimSpace(fmt.Sprintf("%v", value))
		if rendered == "" {
			continue
		}
		out[key] = rendered
	}
	return out
}

func sortedStringKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedAnyKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
