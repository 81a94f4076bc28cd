package ideia

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildContextNoIdea(t *testing.T) {
	text := BuildContext(nil, nil)

	assert.NotEmpty(t, text)
	assert.Contains(t, text, "Ainda não há informações salvas sobre a ideia.")
}

func TestBuildContextOmitsEmptyDynamicFields(t *testing.T) {
	text := BuildContext(&IdeaContext{
		Title: "Inclusão Digital",
		DynamicContent: map[string]interface{}{
			"problema":  "",
			"objetivos": "ok",
		},
	}, nil)

	assert.Contains(t, text, "objetivos: ok")
	assert.NotContains(t, text, "problema")
}

func TestBuildContextDynamicFieldsSorted(t *testing.T) {
	text := BuildContext(&IdeaContext{
		Title: "x",
		DynamicContent: map[string]interface{}{
			"metricas":  "m",
			"cronogram": "c",
			"riscos":    "r",
		},
	}, nil)

	assert.Less(t, strings.Index(text, "cronogram"), strings.Index(text, "metricas"))
	assert.Less(t, strings.Index(text, "metricas"), strings.Index(text, "riscos"))
}

func TestBuildContextFormBlockComesFirst(t *testing.T) {
	filled := "titulo, descricao"
	text := BuildContext(
		&IdeaContext{Title: "Inclusão Digital"},
		&FormContext{
			CurrentStep:          2,
			StepName:             "Objetivos e Metas",
			FormData:             map[string]string{"objetivos": "ampliar acesso"},
			RequiredFieldsFilled: &filled,
		},
	)

	formIdx := strings.Index(text, "CONTEXTO ATUAL DO FORMULÁRIO")
	ideaIdx := strings.Index(text, "DADOS ATUAIS DA IDEIA")
	assert.GreaterOrEqual(t, formIdx, 0)
	assert.Greater(t, ideaIdx, formIdx)
	assert.Contains(t, text, "Objetivos e Metas")
	assert.Contains(t, text, "objetivos: ampliar acesso")
	assert.Contains(t, text, "titulo, descricao")
}

func TestBuildContextEmptyFormData(t *testing.T) {
	text := BuildContext(nil, &FormContext{CurrentStep: 1, StepName: "Sua Ideia"})

	assert.Contains(t, text, "Nenhum dado preenchido no formulário ainda.")
	assert.Contains(t, text, "Ainda não há informações salvas sobre a ideia.")
}

func TestBuildContextSavedFields(t *testing.T) {
	text := BuildContext(&IdeaContext{
		Title:          "Inclusão Digital",
		Description:    "Capacitação em comunidades",
		TargetAudience: "Jovens",
		Status:         "draft",
	}, nil)

	assert.Contains(t, text, "Título: Inclusão Digital")
	assert.Contains(t, text, "Descrição: Capacitação em comunidades")
	assert.Contains(t, text, "Público-alvo: Jovens")
	assert.Contains(t, text, "Status: draft")
}
