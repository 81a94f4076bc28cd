package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sandboxcaixa/ideation-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const DefaultTitle = "Nova Ideia"

// IdeaStore persists ideas keyed by (user_id, idea_id).
type IdeaStore struct {
	db *gorm.DB
}

func NewIdeaStore(db *gorm.DB) *IdeaStore {
	return &IdeaStore{db: db}
}

func (s *IdeaStore) Create(ctx context.Context, userID, title string) (*models.Idea, error) {
	if title == "" {
		title = DefaultTitle
	}
	now := time.Now()
	idea := &models.Idea{
		ID:             uuid.NewString(),
		UserID:         userID,
		Title:          title,
		Status:         models.StatusDraft,
		DynamicContent: datatypes.JSONMap{},
		CreatedAt:      now,
		LastUpdated:    now,
	}
	if err := s.db.WithContext(ctx).Create(idea).Error; err != nil {
		return nil, classify(err)
	}
	return idea, nil
}

func (s *IdeaStore) Get(ctx context.Context, userID, ideaID string) (*models.Idea, error) {
	var idea models.Idea
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, ideaID).
		First(&idea).Error
	if err != nil {
		return nil, classify(err)
	}
	return &idea, nil
}

// List returns the user's ideas ordered by last_updated descending.
func (s *IdeaStore) List(ctx context.Context, userID string, limit int) ([]models.Idea, error) {
	if limit <= 0 {
		limit = 50
	}
	var ideas []models.Idea
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_updated DESC").
		Limit(limit).
		Find(&ideas).Error
	if err != nil {
		return nil, classify(err)
	}
	return ideas, nil
}

// Autosave merges only the supplied fields into the idea and bumps
// last_updated. DynamicContent is merged key by key so partial form saves
// never wipe earlier dynamic fields.
func (s *IdeaStore) Autosave(ctx context.Context, userID, ideaID string, fields map[string]interface{}) (*models.Idea, error) {
	if len(fields) == 0 {
		return s.Get(ctx, userID, ideaID)
	}

	if dyn, ok := fields["dynamic_content"].(map[string]interface{}); ok {
		current, err := s.Get(ctx, userID, ideaID)
		if err != nil {
			return nil, err
		}
		merged := datatypes.JSONMap{}
		for k, v := range current.DynamicContent {
			merged[k] = v
		}
		for k, v := range dyn {
			merged[k] = v
		}
		fields["dynamic_content"] = merged
	}

	fields["last_updated"] = time.Now()

	result := s.db.WithContext(ctx).
		Model(&models.Idea{}).
		Where("user_id = ? AND id = ?", userID, ideaID).
		Updates(fields)
	if result.Error != nil {
		return nil, classify(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return s.Get(ctx, userID, ideaID)
}

// Delete removes the idea together with its chat history.
func (s *IdeaStore) Delete(ctx context.Context, userID, ideaID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("user_id = ? AND idea_id = ?", userID, ideaID).
			Delete(&models.ChatMessage{}).Error; err != nil {
			return err
		}
		result := tx.
			Where("user_id = ? AND id = ?", userID, ideaID).
			Delete(&models.Idea{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return classify(err)
}
