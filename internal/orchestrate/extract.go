package orchestrate

import (
	"encoding/json"
	"strings"
)

// ExtractTexts pulls the assistant-facing text out of a finished run. The
// agent returns the message content either as a plain string or as a list
// of typed parts, where only response_type "text" carries prose.
func ExtractTexts(run *Run) []string {
	if run == nil || len(run.Raw) == 0 {
		return nil
	}

	var payload struct {
		Result struct {
			Data struct {
				Message struct {
					Content json.RawMessage `json:"content"`
				} `json:"message"`
			} `json:"data"`
		} `json:"result"`
	}
	if err := json.Unmarshal(run.Raw, &payload); err != nil {
		return nil
	}
	content := payload.Result.Data.Message.Content
	if len(content) == 0 {
		return nil
	}

	var parts []struct {
		ResponseType string `json:"response_type"`
		Text         string `json:"text"`
	}
	if err := json.Unmarshal(content, &parts); err == nil {
		var texts []string
		for _, part := range parts {
			if part.ResponseType != "text" {
				continue
			}
			if text := strings.TrimSpace(part.Text); text != "" {
				texts = append(texts, text)
			}
		}
		return texts
	}

	var plain string
	if err := json.Unmarshal(content, &plain); err != nil {
		return nil
	}
	if text := strings.TrimSpace(plain); text != "" {
		return []string{text}
	}
	return nil
}
