package domain

import (
	"time"

	"github.com/google/uuid"
)

// Прогресс по предмету: день программы + счетчик вопросов за день
type SubjectProgress struct {
	UserID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Subject string    `gorm:"primaryKey;size:255"`

	CurrentDay       int `gorm:"default:1"`
	DayQuestionCount int `gorm:"default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
