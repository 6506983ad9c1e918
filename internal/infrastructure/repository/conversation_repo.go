package repository

import (
	"context"

	"mentora/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

func (r *ConversationRepository) Create(ctx context.Context, c *domain.Conversation) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// Окно памяти: последние limit обменов по пользователю и теме.
// day == nil — без фильтра по дню (гостевой режим).
func (r *ConversationRepository) Recent(ctx context.Context, userID uuid.UUID, topic string, day *int, limit int) ([]domain.Conversation, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ? AND topic = ?", userID, topic)
	if day != nil {
		query = query.Where("day_number = ?", *day)
	}

	var conversations []domain.Conversation
	err := query.Order("created_at desc").Limit(limit).Find(&conversations).Error
	return conversations, err
}

func (r *ConversationRepository) History(ctx context.Context, userID uuid.UUID, topic string, day *int, limit int) ([]domain.Conversation, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if topic != "" {
		query = query.Where("topic = ?", topic)
	}
	if day != nil {
		query = query.Where("day_number = ?", *day)
	}

	var conversations []domain.Conversation
	err := query.Order("created_at desc").Limit(limit).Find(&conversations).Error
	return conversations, err
}

// Удаляет только диалог владельца. Чужой или отсутствующий — ErrNotFound.
func (r *ConversationRepository) DeleteOwned(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Conversation{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
