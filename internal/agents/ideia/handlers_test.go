package ideia

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sandboxcaixa/ideation-backend/internal/agents/filtrador"
	"github.com/sandboxcaixa/ideation-backend/internal/models"
	"github.com/sandboxcaixa/ideation-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIdeas struct {
	idea *models.Idea
	err  error
}

func (f *fakeIdeas) Get(context.Context, string, string) (*models.Idea, error) {
	return f.idea, f.err
}

type fakeChats struct {
	appended  []models.ChatMessage
	recent    []models.ChatMessage
	history   []models.ChatMessage
	appendErr error
	cleared   bool
}

func (f *fakeChats) Append(_ context.Context, userID, ideaID, role, content string) (*models.ChatMessage, error) {
	if f.appendErr != nil {
		return nil, f.appendErr
	}
	msg := models.ChatMessage{UserID: userID, IdeaID: ideaID, Role: role, Content: content, Timestamp: time.Now()}
	f.appended = append(f.appended, msg)
	return &msg, nil
}

func (f *fakeChats) Recent(context.Context, string, string, int) ([]models.ChatMessage, error) {
	return f.recent, nil
}

func (f *fakeChats) History(context.Context, string, string) ([]models.ChatMessage, error) {
	return f.history, nil
}

func (f *fakeChats) Clear(context.Context, string, string) error {
	f.cleared = true
	return nil
}

type fakeModerator struct {
	result filtrador.Result
	calls  int
}

func (f *fakeModerator) Evaluate(context.Context, string, string, map[string]interface{}) filtrador.Result {
	f.calls++
	return f.result
}

func newTestApp(completer *fakeCompleter, moderator *fakeModerator, ideas *fakeIdeas, chats *fakeChats) *fiber.App {
	app := fiber.New()
	plugin := New(NewService(completer, "", 0.2), moderator, ideas, chats, 10)
	plugin.RegisterRoutes(app.Group("/api"))
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) (int, []byte) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func TestSimpleChatRejectsEmptyMessage(t *testing.T) {
	completer := &fakeCompleter{configured: true, reply: "olá"}
	app := newTestApp(completer, &fakeModerator{}, &fakeIdeas{}, &fakeChats{})

	status, _ := postJSON(t, app, "/api/ideia/chat", map[string]string{"message": "   "})

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Zero(t, completer.calls)
}

func TestSimpleChatRespondsWithoutPersisting(t *testing.T) {
	completer := &fakeCompleter{configured: true, reply: "Olá! Vamos estruturar sua ideia."}
	chats := &fakeChats{}
	app := newTestApp(completer, &fakeModerator{}, &fakeIdeas{}, chats)

	status, body := postJSON(t, app, "/api/ideia/chat", map[string]interface{}{
		"message": "oi",
		"history": []map[string]string{{"role": "user", "content": "primeira"}},
	})

	assert.Equal(t, fiber.StatusOK, status)
	var resp struct {
		Response string `json:"response"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "Olá! Vamos estruturar sua ideia.", resp.Response)
	assert.Empty(t, chats.appended)
}

func TestSendMessagePersistsBothTurns(t *testing.T) {
	completer := &fakeCompleter{configured: true, reply: "Boa! Qual o público-alvo?"}
	chats := &fakeChats{}
	ideas := &fakeIdeas{idea: &models.Idea{ID: "i1", UserID: "u1", Title: "Inclusão Digital"}}
	app := newTestApp(completer, &fakeModerator{}, ideas, chats)

	status, body := postJSON(t, app, "/api/ideia/send", map[string]string{
		"user_id": "u1", "idea_id": "i1", "message": "quero ajudar jovens",
	})

	assert.Equal(t, fiber.StatusOK, status)
	require.Len(t, chats.appended, 2)
	assert.Equal(t, "user", chats.appended[0].Role)
	assert.Equal(t, "quero ajudar jovens", chats.appended[0].Content)
	assert.Equal(t, "assistant", chats.appended[1].Role)

	var resp struct {
		Response string `json:"response"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "Boa! Qual o público-alvo?", resp.Response)
}

func TestSendMessageBlockedByModeration(t *testing.T) {
	category := filtrador.CategoryInappropriate
	moderator := &fakeModerator{result: filtrador.Result{
		IsInappropriate: true,
		Category:        &category,
		Reason:          "linguagem ofensiva",
	}}
	completer := &fakeCompleter{configured: true, reply: "não deveria chegar aqui"}
	chats := &fakeChats{}
	app := newTestApp(completer, moderator, &fakeIdeas{}, chats)

	status, body := postJSON(t, app, "/api/ideia/send", map[string]string{
		"user_id": "u1", "idea_id": "i1", "message": "conteúdo ofensivo",
	})

	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Empty(t, chats.appended, "rejected content must never be persisted")
	assert.Zero(t, completer.calls)
	assert.Contains(t, string(body), "linguagem ofensiva")
}

func TestSendMessageMissingIdentifiers(t *testing.T) {
	app := newTestApp(&fakeCompleter{configured: true}, &fakeModerator{}, &fakeIdeas{}, &fakeChats{})

	status, _ := postJSON(t, app, "/api/ideia/send", map[string]string{"message": "oi"})

	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestSuggestFieldRejectsUnknownField(t *testing.T) {
	completer := &fakeCompleter{configured: true}
	app := newTestApp(completer, &fakeModerator{}, &fakeIdeas{}, &fakeChats{})

	status, body := postJSON(t, app, "/api/ideia/suggest-field", map[string]interface{}{
		"user_id": "u1", "idea_id": "i1", "field_name": "orçamento",
	})

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Zero(t, completer.calls, "disallowed field must be rejected before any model call")
	assert.Contains(t, string(body), "orçamento")
}

func TestSuggestFieldAllowedField(t *testing.T) {
	completer := &fakeCompleter{
		configured: true,
		reply:      `{"suggestion": "Jovens de 15 a 24 anos", "reasoning": "derivado da descrição", "confidence": 0.8}`,
	}
	app := newTestApp(completer, &fakeModerator{}, &fakeIdeas{err: storage.ErrNotFound}, &fakeChats{})

	status, body := postJSON(t, app, "/api/ideia/suggest-field", map[string]interface{}{
		"user_id": "u1", "idea_id": "i1", "field_name": "publicoAlvo", "current_step": 1,
		"form_data": map[string]string{"titulo": "Inclusão Digital"},
	})

	assert.Equal(t, fiber.StatusOK, status)
	var got FieldSuggestion
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "Jovens de 15 a 24 anos", got.Suggestion)
	assert.Equal(t, 0.8, got.Confidence)
}

func TestValidateEndpoint(t *testing.T) {
	ideas := &fakeIdeas{idea: &models.Idea{
		ID: "i1", UserID: "u1",
		Title: "x", Description: "y", TargetAudience: "z",
	}}
	app := newTestApp(&fakeCompleter{configured: true}, &fakeModerator{}, ideas, &fakeChats{})

	req := httptest.NewRequest("GET", "/api/ideia/validate/u1/i1", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var got struct {
		Score      float64 `json:"score"`
		IsComplete bool    `json:"is_complete"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, float64(100), got.Score)
	assert.True(t, got.IsComplete)
}

func TestValidateEndpointMissingIdea(t *testing.T) {
	app := newTestApp(&fakeCompleter{configured: true}, &fakeModerator{}, &fakeIdeas{err: storage.ErrNotFound}, &fakeChats{})

	req := httptest.NewRequest("GET", "/api/ideia/validate/u1/missing", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestClearHistory(t *testing.T) {
	chats := &fakeChats{}
	app := newTestApp(&fakeCompleter{configured: true}, &fakeModerator{}, &fakeIdeas{}, chats)

	req := httptest.NewRequest("DELETE", "/api/ideia/history/u1/i1", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, chats.cleared)
}
