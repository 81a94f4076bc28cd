package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sandboxcaixa/ideation-backend/internal/models"
	"gorm.io/gorm"
)

// ChatStore persists the append-only chat history of an idea.
type ChatStore struct {
	db *gorm.DB
}

func NewChatStore(db *gorm.DB) *ChatStore {
	return &ChatStore{db: db}
}

func (s *ChatStore) Append(ctx context.Context, userID, ideaID, role, content string) (*models.ChatMessage, error) {
	msg := &models.ChatMessage{
		ID:        uuid.NewString(),
		UserID:    userID,
		IdeaID:    ideaID,
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, classify(err)
	}
	return msg, nil
}

// Recent returns the last limit messages in chronological order. The query
// runs descending with a limit and the slice is reversed afterwards.
func (s *ChatStore) Recent(ctx context.Context, userID, ideaID string, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = 10
	}
	var msgs []models.ChatMessage
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND idea_id = ?", userID, ideaID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, classify(err)
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// History returns the full transcript in chronological order.
func (s *ChatStore) History(ctx context.Context, userID, ideaID string) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND idea_id = ?", userID, ideaID).
		Order("timestamp ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, classify(err)
	}
	return msgs, nil
}

// Clear deletes the whole transcript of an idea.
func (s *ChatStore) Clear(ctx context.Context, userID, ideaID string) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND idea_id = ?", userID, ideaID).
		Delete(&models.ChatMessage{}).Error
	return classify(err)
}
