package orchestrate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultWaitTimeout  = 90 * time.Second
	DefaultPollInterval = time.Second
)

// ChatMessage is one turn sent to the agent.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Run is a snapshot of a remote run. Raw keeps the full payload for the
// audit log and for text extraction.
type Run struct {
	RunID    string `json:"run_id"`
	ThreadID string `json:"thread_id"`
	Status   string `json:"status"`

	Raw json.RawMessage `json:"-"`
}

// Terminal reports whether the run reached a final state.
func (r *Run) Terminal() bool {
	switch r.Status {
	case "completed", "failed", "cancelled":
		return true
	}
	return false
}

// TimeoutError signals that a run did not reach a terminal state within the
// wait deadline. It carries enough state for the caller to resume polling.
type TimeoutError struct {
	RunID      string
	LastStatus string
	Elapsed    time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("run %s did not finish within %s (status=%s)", e.RunID, e.Elapsed, e.LastStatus)
}

// Client drives runs against one orchestrate agent and keeps the thread
// continuity and audit trail for it.
type Client struct {
	baseURL string
	agentID string
	tokens  *TokenManager
	store   *ThreadStore
	log     *ConversationLog
	http    *http.Client

	waitTimeout  time.Duration
	pollInterval time.Duration
}

func NewClient(baseURL, agentID string, tokens *TokenManager, store *ThreadStore, log *ConversationLog) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		agentID:      agentID,
		tokens:       tokens,
		store:        store,
		log:          log,
		http:         &http.Client{Timeout: 60 * time.Second},
		waitTimeout:  DefaultWaitTimeout,
		pollInterval: DefaultPollInterval,
	}
}

// CreateRun posts the given messages as a new run and returns the run id
// plus the resolved thread id. At least one message must be user-authored.
// The resolved thread is persisted for the agent and the post-creation
// snapshot is appended to the audit log.
func (c *Client) CreateRun(ctx context.Context, messages []ChatMessage, threadID string) (string, string, error) {
	if len(messages) == 0 {
		return "", "", fmt.Errorf("at least one message is required")
	}
	hasUser := false
	for _, m := range messages {
		if m.Role == "user" {
			hasUser = true
			break
		}
	}
	if !hasUser {
		return "", "", fmt.Errorf("at least one user message is required")
	}

	payload := map[string]interface{}{"agent_id": c.agentID}
	if threadID != "" {
		payload["thread_id"] = threadID
	}
	if len(messages) == 1 {
		payload["message"] = messages[0]
	} else {
		payload["messages"] = messages
	}

	body, err := c.do(ctx, http.MethodPost, c.baseURL+"/orchestrate/runs", payload)
	if err != nil {
		return "", "", err
	}
	var created struct {
		RunID string `json:"run_id"`
	}
	if err := json.Unmarshal(body, &created); err != nil || created.RunID == "" {
		return "", "", fmt.Errorf("unexpected create-run response: %s", strings.TrimSpace(string(body)))
	}

	// The thread id is resolved from the run itself, falling back to the
	// caller-supplied one.
	run, err := c.GetRun(ctx, created.RunID)
	if err != nil {
		return "", "", err
	}
	resolved := run.ThreadID
	if resolved == "" {
		resolved = threadID
	}
	if resolved != "" {
		if err := c.store.Set(c.agentID, resolved); err != nil {
			return "", "", err
		}
	}

	if err := c.log.AppendRun(resolved, run); err != nil {
		return "", "", err
	}
	return created.RunID, resolved, nil
}

// GetRun fetches the current snapshot of a run.
func (c *Client) GetRun(ctx context.Context, runID string) (*Run, error) {
	body, err := c.do(ctx, http.MethodGet, c.baseURL+"/orchestrate/runs/"+runID, nil)
	if err != nil {
		return nil, err
	}
	var run Run
	if err := json.Unmarshal(body, &run); err != nil {
		return nil, fmt.Errorf("decoding run %s: %w", runID, err)
	}
	run.Raw = body
	return &run, nil
}

// WaitRun polls the run until it reaches a terminal state or the wait
// deadline elapses. Expiry returns a *TimeoutError so callers can tell a
// slow run apart from a transport failure.
func (c *Client) WaitRun(ctx context.Context, runID string) (*Run, error) {
	start := time.Now()
	for {
		run, err := c.GetRun(ctx, runID)
		if err != nil {
			return nil, err
		}
		if run.Terminal() {
			return run, nil
		}

		elapsed := time.Since(start)
		if elapsed > c.waitTimeout {
			return nil, &TimeoutError{RunID: runID, LastStatus: run.Status, Elapsed: elapsed}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

// SendSequence sends each message as its own run on a shared thread,
// waiting for each run to finish before sending the next. The final
// snapshot of every run is appended to the audit log.
func (c *Client) SendSequence(ctx context.Context, userMessages []string, startNewThread bool) ([]*Run, error) {
	if len(userMessages) == 0 {
		return nil, fmt.Errorf("at least one message is required")
	}

	threadID := ""
	if !startNewThread {
		threadID = c.store.Get(c.agentID)
	}

	runs := make([]*Run, 0, len(userMessages))
	for _, text := range userMessages {
		runID, resolved, err := c.CreateRun(ctx, []ChatMessage{{Role: "user", Content: text}}, threadID)
		if err != nil {
			return runs, err
		}
		threadID = resolved

		run, err := c.WaitRun(ctx, runID)
		if err != nil {
			return runs, err
		}
		runs = append(runs, run)

		if err := c.log.AppendRun(threadID, run); err != nil {
			return runs, err
		}
	}
	return runs, nil
}

func (c *Client) do(ctx context.Context, method, url string, payload interface{}) ([]byte, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s %s returned %d: %s", method, url, resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return data, nil
}
