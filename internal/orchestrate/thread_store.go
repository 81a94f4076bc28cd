package orchestrate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ThreadStore remembers which conversation thread belongs to which agent so
// separate runs of the client continue the same conversation. It is a flat
// JSON file mapping agent IDs to thread IDs.
type ThreadStore struct {
	path string

	mu      sync.Mutex
	threads map[string]string
}

func NewThreadStore(path string) (*ThreadStore, error) {
	store := &ThreadStore{path: path, threads: map[string]string{}}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return store, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading thread store: %w", err)
	}
	if err := json.Unmarshal(data, &store.threads); err != nil {
		return nil, fmt.Errorf("parsing thread store %s: %w", path, err)
	}
	return store, nil
}

// Get returns the stored thread for an agent, or "" when none exists.
func (s *ThreadStore) Get(agentID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.threads[agentID]
}

// Set records the thread for an agent and writes the store to disk.
func (s *ThreadStore) Set(agentID, threadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.threads[agentID] = threadID

	data, err := json.MarshalIndent(s.threads, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding thread store: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating thread store dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing thread store: %w", err)
	}
	return nil
}
