package orchestrate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// tokenSafety is subtracted from the advertised lifetime so a token is
// refreshed before it actually expires mid-request.
const tokenSafety = 30 * time.Second

// TokenManager exchanges an IBM Cloud API key for IAM bearer tokens and
// caches them until shortly before expiry.
type TokenManager struct {
	apiKey string
	iamURL string
	http   *http.Client

	mu      sync.Mutex
	token   string
	expires time.Time
}

func NewTokenManager(apiKey, iamURL string, client *http.Client) *TokenManager {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &TokenManager{apiKey: apiKey, iamURL: iamURL, http: client}
}

// Token returns a valid bearer token, refreshing it when the cached one is
// missing or inside the safety window.
func (m *TokenManager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != "" && time.Now().Before(m.expires) {
		return m.token, nil
	}

	token, lifetime, err := m.fetch(ctx)
	if err != nil {
		return "", err
	}
	m.token = token
	m.expires = time.Now().Add(lifetime - tokenSafety)
	return m.token, nil
}

func (m *TokenManager) fetch(ctx context.Context) (string, time.Duration, error) {
	form := url.Values{
		"grant_type": {"urn:ibm:params:oauth:grant-type:apikey"},
		"apikey":     {m.apiKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.iamURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, fmt.Errorf("building iam request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.http.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("requesting iam token: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("reading iam response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("iam token request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", 0, fmt.Errorf("decoding iam response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", 0, fmt.Errorf("iam response contained no access token")
	}

	lifetime := time.Duration(payload.ExpiresIn) * time.Second
	if lifetime <= tokenSafety {
		lifetime = time.Hour
	}
	return payload.AccessToken, lifetime, nil
}
