package usecase

import (
	"context"
	"fmt"
	"strings"

	"mentora/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// Служебные маркеры в ответе учителя. До пользователя не доходят.
	DayCompleteMarker = "[DAY_COMPLETE]"
	NextChapterMarker = "[NEXT_CHAPTER]"

	dayQuestionCap = 15
	curriculumDays = 14
)

type DayStatus struct {
	Day    int    `json:"day"`
	Status string `json:"status"` // locked / in_progress / completed
	Label  string `json:"label"`
}

// ProgressEngine ведет позицию пользователя в программе предмета:
// текущий день и счетчик вопросов внутри дня.
type ProgressEngine struct {
	db *gorm.DB
}

func NewProgressEngine(db *gorm.DB) *ProgressEngine {
	return &ProgressEngine{db: db}
}

// Current возвращает прогресс по предмету, создавая запись
// с первым днем при первом обращении.
func (e *ProgressEngine) Current(ctx context.Context, userID uuid.UUID, subject string) (*domain.SubjectProgress, error) {
	progress := domain.SubjectProgress{
		UserID:     userID,
		Subject:    subject,
		CurrentDay: 1,
	}
	err := e.db.WithContext(ctx).
		Where(domain.SubjectProgress{UserID: userID, Subject: subject}).
		FirstOrCreate(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// ApplyAnswer прогоняет ответ учителя через машину состояний дня:
// снимает маркеры, увеличивает счетчик вопросов и при маркере
// завершения или достижении лимита переводит день вперед.
// Возвращает очищенный текст, признак перехода и актуальный день.
func (e *ProgressEngine) ApplyAnswer(ctx context.Context, userID uuid.UUID, subject, rawAnswer string) (clean string, advanced bool, day int, err error) {
	clean, markerSeen := StripMarkers(rawAnswer)

	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		progress := domain.SubjectProgress{
			UserID:     userID,
			Subject:    subject,
			CurrentDay: 1,
		}
		if err := tx.Where(domain.SubjectProgress{UserID: userID, Subject: subject}).
			FirstOrCreate(&progress).Error; err != nil {
			return err
		}

		day = progress.CurrentDay
		progress.DayQuestionCount++

		if markerSeen || progress.DayQuestionCount >= dayQuestionCap {
			progress.CurrentDay++
			progress.DayQuestionCount = 0
			advanced = true
		}

		return tx.Save(&progress).Error
	})
	if err != nil {
		return "", false, 0, err
	}
	return clean, advanced, day, nil
}

// SubjectDays строит карту программы для фронта: пройденные дни,
// текущий и еще закрытые. currentDay == 1 отдает и гостю.
func (e *ProgressEngine) SubjectDays(ctx context.Context, userID *uuid.UUID, subject string) ([]DayStatus, error) {
	currentDay := 1
	if userID != nil {
		progress, err := e.Current(ctx, *userID, subject)
		if err != nil {
			return nil, err
		}
		currentDay = progress.CurrentDay
	}

	days := make([]DayStatus, 0, curriculumDays)
	for d := 1; d <= curriculumDays; d++ {
		status := "locked"
		switch {
		case d < currentDay:
			status = "completed"
		case d == currentDay:
			status = "in_progress"
		}
		days = append(days, DayStatus{
			Day:    d,
			Status: status,
			Label:  fmt.Sprintf("Day %d: %s", d, ChapterFor(subject, d)),
		})
	}
	return days, nil
}

// StripMarkers вырезает служебные маркеры из текста ответа.
// Второе значение — встретился ли маркер завершения дня.
func StripMarkers(raw string) (string, bool) {
	seen := strings.Contains(raw, DayCompleteMarker) || strings.Contains(raw, NextChapterMarker)
	clean := strings.ReplaceAll(raw, DayCompleteMarker, "")
	clean = strings.ReplaceAll(clean, NextChapterMarker, "")
	return strings.TrimSpace(clean), seen
}
