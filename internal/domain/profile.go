package domain

import (
	"time"

	"github.com/google/uuid"
)

// Тарифы профиля
const (
	PlanFree  = "FREE"
	PlanBasic = "BASIC"
	PlanUltra = "ULTRA"
)

// Категории требований для бейджей
const (
	BadgeRequirementXP     = "XP"
	BadgeRequirementStreak = "STREAK"
	BadgeRequirementQuiz   = "QUIZ"
)

type UserProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex"`

	TotalXP        int        `gorm:"default:0"`
	CurrentLevelID *uuid.UUID `gorm:"type:uuid"`
	CurrentLevel   *Level     `gorm:"foreignKey:CurrentLevelID"`

	CurrentStreak int `gorm:"default:0"`
	MaxStreak     int `gorm:"default:0"`
	LastLoginAt   time.Time

	Plan             string `gorm:"default:'FREE'"`
	QuestionsAsked   int    `gorm:"default:0"`
	QuizzesCompleted int    `gorm:"default:0"`
	Interests        string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Справочник уровней. Только чтение в рантайме, наполняется сидом.
type Level struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number      int       `gorm:"uniqueIndex"`
	Title       string
	XPThreshold int `gorm:"index"`
}

// Append-only журнал начислений XP
type XPTransaction struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;index"`
	Amount    int
	Reason    string
	CreatedAt time.Time
}

// Справочник бейджей. Только чтение в рантайме.
type Badge struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name             string    `gorm:"uniqueIndex"`
	Description      string
	Icon             string
	RequirementType  string `gorm:"index"` // XP / STREAK / QUIZ
	RequirementValue int
}

// Выданный бейдж. Составной ключ защищает от повторной выдачи.
type UserBadge struct {
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	BadgeID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Badge    Badge     `gorm:"foreignKey:BadgeID"`
	EarnedAt time.Time
}

type LoginHistory struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;index"`
	IPAddress string
	UserAgent string
	CreatedAt time.Time
}
