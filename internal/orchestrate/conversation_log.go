package orchestrate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ConversationLog appends every observed run snapshot of a thread to a
// per-thread JSON file as an audit trail. Each file holds a single JSON
// array of raw run payloads so it stays directly readable.
type ConversationLog struct {
	dir string
}

func NewConversationLog(dir string) *ConversationLog {
	return &ConversationLog{dir: dir}
}

// AppendRun loads the thread's file, appends the run's raw payload and
// writes it back. A corrupt existing file is discarded rather than blocking
// the conversation.
func (l *ConversationLog) AppendRun(threadID string, run *Run) error {
	if threadID == "" || run == nil || len(run.Raw) == 0 {
		return nil
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("creating conversation dir: %w", err)
	}

	path := l.Path(threadID)
	var entries []json.RawMessage
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &entries); err != nil {
			entries = nil
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("reading conversation log: %w", err)
	}

	entries = append(entries, run.Raw)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding conversation log: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing conversation log: %w", err)
	}
	return nil
}

func (l *ConversationLog) Path(threadID string) string {
	return filepath.Join(l.dir, "conversa_"+threadID+".json")
}
