package filtrador

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sandboxcaixa/ideation-backend/internal/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	configured bool
	reply      string
	err        error
	calls      int
	lastOpts   ai.Options
}

func (f *fakeCompleter) Configured() bool { return f.configured }

func (f *fakeCompleter) Complete(_ context.Context, _ []ai.Message, opts ai.Options) (string, error) {
	f.calls++
	f.lastOpts = opts
	return f.reply, f.err
}

func TestEvaluateEmptyContentSkipsModel(t *testing.T) {
	fake := &fakeCompleter{configured: true}
	svc := NewService(fake, "")

	for _, content := range []string{"", "   ", "\n\t"} {
		result := svc.Evaluate(context.Background(), content, "", nil)
		assert.False(t, result.IsInappropriate)
		assert.Nil(t, result.Category)
	}
	assert.Zero(t, fake.calls, "empty content must not reach the model")
}

func TestEvaluateParsesStructuredVerdict(t *testing.T) {
	fake := &fakeCompleter{
		configured: true,
		reply:      `{"is_inappropriate": true, "category": "critica_destrutiva", "reason": "ataque pessoal", "offensive_text": "sua ideia é lixo"}`,
	}
	svc := NewService(fake, "")

	result := svc.Evaluate(context.Background(), "sua ideia é lixo", "description", nil)

	assert.True(t, result.IsInappropriate)
	require.NotNil(t, result.Category)
	assert.Equal(t, CategoryDestructiveCriticism, *result.Category)
	assert.Equal(t, "ataque pessoal", result.Reason)
	require.NotNil(t, result.OffensiveText)
	assert.Equal(t, "sua ideia é lixo", *result.OffensiveText)
	assert.Equal(t, 1, fake.calls)
}

func TestEvaluateUsesStrictModelOptions(t *testing.T) {
	fake := &fakeCompleter{configured: true, reply: `{"is_inappropriate": false}`}
	svc := NewService(fake, "")

	svc.Evaluate(context.Background(), "uma ideia qualquer", "", nil)

	assert.Equal(t, 0.1, fake.lastOpts.Temperature)
	assert.Equal(t, 300, fake.lastOpts.MaxTokens)
	assert.True(t, fake.lastOpts.JSONObject)
}

func TestEvaluateFailsOpenOnTransportError(t *testing.T) {
	fake := &fakeCompleter{configured: true, err: errors.New("connection refused")}
	svc := NewService(fake, "")

	result := svc.Evaluate(context.Background(), "qualquer conteúdo", "", nil)

	assert.False(t, result.IsInappropriate)
	assert.Contains(t, result.Reason, "Erro na análise")
}

func TestEvaluateFailsOpenWhenUnconfigured(t *testing.T) {
	fake := &fakeCompleter{configured: false}
	svc := NewService(fake, "")

	result := svc.Evaluate(context.Background(), "qualquer conteúdo", "", nil)

	assert.False(t, result.IsInappropriate)
	assert.Contains(t, result.Reason, "não configurado")
	assert.Zero(t, fake.calls)
}

func TestEvaluateKeywordFallbackOnMalformedJSON(t *testing.T) {
	fake := &fakeCompleter{configured: true, reply: "the content is inappropriate: true"}
	svc := NewService(fake, "")

	content := strings.Repeat("x", 150)
	result := svc.Evaluate(context.Background(), content, "", nil)

	assert.True(t, result.IsInappropriate)
	require.NotNil(t, result.Category)
	assert.Equal(t, CategoryInappropriate, *result.Category)
	require.NotNil(t, result.OffensiveText)
	assert.Len(t, []rune(*result.OffensiveText), 100)
}

func TestEvaluateKeywordFallbackNoSignal(t *testing.T) {
	fake := &fakeCompleter{configured: true, reply: "tudo certo com esse conteúdo"}
	svc := NewService(fake, "")

	result := svc.Evaluate(context.Background(), "uma ideia comum", "", nil)

	assert.False(t, result.IsInappropriate)
	assert.Nil(t, result.Category)
}

func TestEvaluateStripsCodeFence(t *testing.T) {
	fake := &fakeCompleter{
		configured: true,
		reply:      "```json\n{\"is_inappropriate\": true, \"category\": \"fora_de_contexto\", \"reason\": \"assunto alheio\"}\n```",
	}
	svc := NewService(fake, "")

	result := svc.Evaluate(context.Background(), "qual a previsão do tempo?", "", nil)

	assert.True(t, result.IsInappropriate)
	require.NotNil(t, result.Category)
	assert.Equal(t, CategoryOffTopic, *result.Category)
}

func TestCheckContent(t *testing.T) {
	fake := &fakeCompleter{
		configured: true,
		reply:      `{"is_inappropriate": true, "reason": "palavrão detectado"}`,
	}
	svc := NewService(fake, "")

	blocked, reason := svc.CheckContent(context.Background(), "conteúdo ofensivo", "title")

	assert.True(t, blocked)
	assert.Equal(t, "palavrão detectado", reason)
}
