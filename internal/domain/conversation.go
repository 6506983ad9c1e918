package domain

import (
	"time"

	"github.com/google/uuid"
)

// Один обмен вопрос/ответ с AI-учителем
type Conversation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;index"`
	Topic     string    `gorm:"size:255;index"`
	Question  string
	Answer    string
	DayNumber int `gorm:"default:1"`
	CreatedAt time.Time
}
