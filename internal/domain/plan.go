package domain

import "github.com/google/uuid"

// Тарифный план. Справочник для страницы цен, наполняется сидом.
type Plan struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code        string    `gorm:"uniqueIndex;size:10"` // FREE / BASIC / ULTRA
	Name        string
	Price       int    // в центах за месяц
	Description string
	// -1 = безлимит
	QuestionLimit int `gorm:"default:-1"`
}
