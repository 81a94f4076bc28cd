package dto

import "time"

// Message is one turn of a caller-supplied conversation history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SimpleChatRequest is the stateless chat payload: the caller keeps the
// history, nothing is persisted.
type SimpleChatRequest struct {
	Message string    `json:"message"`
	History []Message `json:"history"`
}

type SimpleChatResponse struct {
	Response string `json:"response"`
}

// FormContextPayload is the ephemeral form state sent along with a chat or
// suggestion request. It is never persisted.
type FormContextPayload struct {
	CurrentStep             int               `json:"current_step"`
	StepName                string            `json:"step_name"`
	FormData                map[string]string `json:"form_data"`
	RequiredFieldsFilled    *string           `json:"required_fields_filled"`
	OptionalFieldsAvailable *string           `json:"optional_fields_available"`
}

// ChatSendRequest is the persisted chat payload.
type ChatSendRequest struct {
	UserID      string              `json:"user_id"`
	IdeaID      string              `json:"idea_id"`
	Message     string              `json:"message"`
	FormContext *FormContextPayload `json:"form_context"`
}

type ChatSendResponse struct {
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

type FieldSuggestionRequest struct {
	UserID      string            `json:"user_id"`
	IdeaID      string            `json:"idea_id"`
	FieldName   string            `json:"field_name"`
	FormData    map[string]string `json:"form_data"`
	CurrentStep int               `json:"current_step"`
}
