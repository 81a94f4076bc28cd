package models

import (
	"time"

	"gorm.io/datatypes"
)

// Idea statuses. Any value in the set is accepted at any time; there is no
// enforced transition machine.
const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
)

// ValidStatuses maps every accepted idea status.
var ValidStatuses = map[string]bool{
	StatusDraft:     true,
	StatusSubmitted: true,
	StatusApproved:  true,
	StatusRejected:  true,
}

// Idea is a user-authored innovation proposal. DynamicContent holds the
// open-ended form fields not fixed in the schema.
type Idea struct {
	ID             string            `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         string            `gorm:"size:128;not null;index:idx_ideas_user" json:"user_id"`
	Title          string            `gorm:"size:255;not null" json:"title"`
	Description    string            `gorm:"type:text" json:"description"`
	TargetAudience string            `gorm:"type:text" json:"target_audience"`
	Status         string            `gorm:"size:20;not null;default:draft" json:"status"`
	DynamicContent datatypes.JSONMap `gorm:"type:jsonb;default:'{}'" json:"dynamic_content"`
	CreatedAt      time.Time         `json:"created_at"`
	LastUpdated    time.Time         `gorm:"index:idx_ideas_user_updated" json:"last_updated"`
}
