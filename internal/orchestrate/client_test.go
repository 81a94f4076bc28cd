package orchestrate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAgent struct {
	statuses    []string
	getCalls    atomic.Int32
	tokenCalls  atomic.Int32
	createCalls atomic.Int32
}

func (a *fakeAgent) server() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/identity/token", func(w http.ResponseWriter, r *http.Request) {
		a.tokenCalls.Add(1)
		fmt.Fprint(w, `{"access_token": "test-token", "expires_in": 3600}`)
	})
	mux.HandleFunc("/orchestrate/runs", func(w http.ResponseWriter, r *http.Request) {
		a.createCalls.Add(1)
		fmt.Fprint(w, `{"run_id": "run-1"}`)
	})
	mux.HandleFunc("/orchestrate/runs/run-1", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		call := int(a.getCalls.Add(1))
		status := a.statuses[len(a.statuses)-1]
		if call <= len(a.statuses) {
			status = a.statuses[call-1]
		}
		fmt.Fprintf(w, `{
			"run_id": "run-1",
			"thread_id": "thread-1",
			"status": %q,
			"result": {"data": {"message": {"content": [{"response_type": "text", "text": "resposta do agente"}]}}}
		}`, status)
	})
	return httptest.NewServer(mux)
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	dir := t.TempDir()
	store, err := NewThreadStore(filepath.Join(dir, "threads.json"))
	require.NoError(t, err)

	tokens := NewTokenManager("api-key", srv.URL+"/identity/token", srv.Client())
	client := NewClient(srv.URL, "agent-1", tokens, store, NewConversationLog(filepath.Join(dir, "conversas")))
	client.http = srv.Client()
	client.pollInterval = time.Millisecond
	client.waitTimeout = time.Second
	return client
}

func TestWaitRunPollsToTerminalState(t *testing.T) {
	agent := &fakeAgent{statuses: []string{"created", "running", "completed"}}
	srv := agent.server()
	defer srv.Close()

	client := newTestClient(t, srv)
	run, err := client.WaitRun(context.Background(), "run-1")

	require.NoError(t, err)
	assert.Equal(t, "completed", run.Status)
	assert.Equal(t, int32(3), agent.getCalls.Load(), "terminal state must be reached on the third poll")
}

func TestWaitRunTimeoutCarriesLastStatus(t *testing.T) {
	agent := &fakeAgent{statuses: []string{"running"}}
	srv := agent.server()
	defer srv.Close()

	client := newTestClient(t, srv)
	client.waitTimeout = 5 * time.Millisecond

	_, err := client.WaitRun(context.Background(), "run-1")

	var timeout *TimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, "run-1", timeout.RunID)
	assert.Equal(t, "running", timeout.LastStatus)
	assert.Greater(t, timeout.Elapsed, time.Duration(0))
}

func TestCreateRunResolvesAndPersistsThread(t *testing.T) {
	agent := &fakeAgent{statuses: []string{"created"}}
	srv := agent.server()
	defer srv.Close()

	client := newTestClient(t, srv)
	runID, threadID, err := client.CreateRun(context.Background(), []ChatMessage{{Role: "user", Content: "INICIAR"}}, "")

	require.NoError(t, err)
	assert.Equal(t, "run-1", runID)
	assert.Equal(t, "thread-1", threadID)
	assert.Equal(t, "thread-1", client.store.Get("agent-1"))

	logPath := client.log.Path("thread-1")
	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	var entries []json.RawMessage
	require.NoError(t, json.Unmarshal(data, &entries))
	assert.Len(t, entries, 1)
}

func TestCreateRunRequiresUserMessage(t *testing.T) {
	agent := &fakeAgent{statuses: []string{"created"}}
	srv := agent.server()
	defer srv.Close()

	client := newTestClient(t, srv)

	_, _, err := client.CreateRun(context.Background(), nil, "")
	assert.Error(t, err)

	_, _, err = client.CreateRun(context.Background(), []ChatMessage{{Role: "assistant", Content: "oi"}}, "")
	assert.Error(t, err)

	assert.Zero(t, agent.createCalls.Load(), "validation must reject before any request")
}

func TestSendSequenceReusesThread(t *testing.T) {
	agent := &fakeAgent{statuses: []string{"completed"}}
	srv := agent.server()
	defer srv.Close()

	client := newTestClient(t, srv)
	runs, err := client.SendSequence(context.Background(), []string{"primeira", "segunda"}, true)

	require.NoError(t, err)
	require.Len(t, runs, 2)
	for _, run := range runs {
		assert.Equal(t, "completed", run.Status)
		assert.Equal(t, []string{"resposta do agente"}, ExtractTexts(run))
	}
	assert.Equal(t, int32(2), agent.createCalls.Load())

	// Final snapshots append on top of the two creation snapshots.
	data, err := os.ReadFile(client.log.Path("thread-1"))
	require.NoError(t, err)
	var entries []json.RawMessage
	require.NoError(t, json.Unmarshal(data, &entries))
	assert.Len(t, entries, 4)
}

func TestTokenManagerCachesUntilExpiry(t *testing.T) {
	agent := &fakeAgent{statuses: []string{"completed"}}
	srv := agent.server()
	defer srv.Close()

	tokens := NewTokenManager("api-key", srv.URL+"/identity/token", srv.Client())

	first, err := tokens.Token(context.Background())
	require.NoError(t, err)
	second, err := tokens.Token(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), agent.tokenCalls.Load())

	// Force the cached token into the refresh window.
	tokens.expires = time.Now().Add(-time.Second)
	_, err = tokens.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), agent.tokenCalls.Load())
}

func TestTokenManagerRejectsEmptyToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"expires_in": 3600}`)
	}))
	defer srv.Close()

	tokens := NewTokenManager("api-key", srv.URL, srv.Client())
	_, err := tokens.Token(context.Background())
	assert.Error(t, err)
}

func TestExtractTextsPlainString(t *testing.T) {
	run := &Run{Raw: json.RawMessage(`{"result": {"data": {"message": {"content": "resposta simples"}}}}`)}
	assert.Equal(t, []string{"resposta simples"}, ExtractTexts(run))
}

func TestExtractTextsIgnoresNonTextParts(t *testing.T) {
	run := &Run{Raw: json.RawMessage(`{"result": {"data": {"message": {"content": [
		{"response_type": "image", "text": "ignorado"},
		{"response_type": "text", "text": "  mantido  "},
		{"response_type": "text", "text": ""}
	]}}}}`)}
	assert.Equal(t, []string{"mantido"}, ExtractTexts(run))
}

func TestExtractTextsEmptyRun(t *testing.T) {
	assert.Nil(t, ExtractTexts(nil))
	assert.Nil(t, ExtractTexts(&Run{}))
}

func TestThreadStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "threads.json")

	store, err := NewThreadStore(path)
	require.NoError(t, err)
	assert.Empty(t, store.Get("agent-1"))

	require.NoError(t, store.Set("agent-1", "thread-9"))

	reloaded, err := NewThreadStore(path)
	require.NoError(t, err)
	assert.Equal(t, "thread-9", reloaded.Get("agent-1"))
}

func TestThreadStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "threads.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := NewThreadStore(path)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, os.ErrNotExist))
}
