package models

import "time"

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of an idea's conversation. Messages are append
// only and bulk-deleted when the idea (or its history) is deleted.
type ChatMessage struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"size:128;not null;index:idx_chat_owner" json:"-"`
	IdeaID    string    `gorm:"type:uuid;not null;index:idx_chat_owner" json:"-"`
	Role      string    `gorm:"size:10;not null" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
}
