package usecase

import (
	"context"
	"errors"
	"time"

	"mentora/internal/domain"
	"mentora/internal/infrastructure/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Дефолтный уровень для отображения, когда справочник пуст
// или пользователь еще не дотянул до первого порога.
var beginnerLevel = LevelInfo{Number: 1, Title: "Beginner", XPThreshold: 0}

type LevelInfo struct {
	Number      int    `json:"number"`
	Title       string `json:"title"`
	XPThreshold int    `json:"xp_threshold"`
}

type BadgeInfo struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	EarnedAt    time.Time `json:"earned_at"`
}

type DashboardStats struct {
	Username           string      `json:"username"`
	TotalXP            int         `json:"total_xp"`
	Level              LevelInfo   `json:"level"`
	CurrentStreak      int         `json:"current_streak"`
	MaxStreak          int         `json:"max_streak"`
	BadgesCount        int64       `json:"badges_count"`
	RecentBadges       []BadgeInfo `json:"recent_badges"`
	XPToNextLevel      int         `json:"xp_to_next_level"`
	ProgressPercentage int         `json:"progress_percentage"`
	Plan               string      `json:"plan"`
	QuestionsAsked     int         `json:"questions_asked"`
}

// GamificationUseCase держит журнал XP, уровни, бейджи и стрики.
// Вся цепочка "транзакция XP -> итог профиля -> уровень -> бейджи"
// выполняется явно и в одной транзакции БД, без хуков на сохранение.
type GamificationUseCase struct {
	db       *gorm.DB
	profiles *repository.ProfileRepository
}

func NewGamificationUseCase(db *gorm.DB, profiles *repository.ProfileRepository) *GamificationUseCase {
	return &GamificationUseCase{db: db, profiles: profiles}
}

// GrantXP добавляет запись в журнал и атомарно пересчитывает профиль:
// total_xp -> уровень (только вверх) -> XP-бейджи по новому итогу.
func (g *GamificationUseCase) GrantXP(ctx context.Context, userID uuid.UUID, amount int, reason string) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&domain.XPTransaction{
			ID:     uuid.New(),
			UserID: userID,
			Amount: amount,
			Reason: reason,
		}).Error; err != nil {
			return err
		}

		profile, err := getOrCreateProfile(tx, userID)
		if err != nil {
			return err
		}
		profile.TotalXP += amount

		// Уровень не понижаем, даже если справочник поменялся
		newLevel, err := resolveLevel(tx, profile.TotalXP)
		if err != nil {
			return err
		}
		if newLevel != nil && (profile.CurrentLevel == nil || newLevel.Number > profile.CurrentLevel.Number) {
			profile.CurrentLevelID = &newLevel.ID
			profile.CurrentLevel = newLevel
		}

		if err := tx.Save(profile).Error; err != nil {
			return err
		}

		return evaluateBadges(tx, userID, domain.BadgeRequirementXP, profile.TotalXP)
	})
}

// RecordLogin пишет запись в историю входов и обновляет стрик.
// Правило по календарным дням UTC: тот же день — без изменений,
// вчера — +1, пропуск — сброс на 1.
func (g *GamificationUseCase) RecordLogin(ctx context.Context, userID uuid.UUID, ip, userAgent string) error {
	// IP и User-Agent пишем как есть; их отсутствие — не ошибка
	err := g.profiles.CreateLoginRecord(ctx, &domain.LoginHistory{
		UserID:    userID,
		IPAddress: ip,
		UserAgent: userAgent,
	})
	if err != nil {
		return err
	}

	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profile, err := getOrCreateProfile(tx, userID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		today := truncateToDay(now)
		changed := false

		if profile.LastLoginAt.IsZero() {
			profile.CurrentStreak = 1
			changed = true
		} else {
			lastDay := truncateToDay(profile.LastLoginAt.UTC())
			switch days := int(today.Sub(lastDay).Hours() / 24); {
			case days == 0:
				// уже заходил сегодня
			case days == 1:
				profile.CurrentStreak++
				changed = true
			default:
				profile.CurrentStreak = 1
				changed = true
			}
		}

		if profile.CurrentStreak > profile.MaxStreak {
			profile.MaxStreak = profile.CurrentStreak
		}
		profile.LastLoginAt = now

		if err := tx.Save(profile).Error; err != nil {
			return err
		}

		if changed {
			return evaluateBadges(tx, userID, domain.BadgeRequirementStreak, profile.CurrentStreak)
		}
		return nil
	})
}

// RecordQuizCompletion — точка расширения для квизов: увеличивает счетчик
// и прогоняет QUIZ-бейджи. HTTP-роута пока нет, контракт зафиксирован здесь.
func (g *GamificationUseCase) RecordQuizCompletion(ctx context.Context, userID uuid.UUID) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profile, err := getOrCreateProfile(tx, userID)
		if err != nil {
			return err
		}
		profile.QuizzesCompleted++
		if err := tx.Save(profile).Error; err != nil {
			return err
		}
		return evaluateBadges(tx, userID, domain.BadgeRequirementQuiz, profile.QuizzesCompleted)
	})
}

func (g *GamificationUseCase) Profile(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	return g.profiles.GetOrCreate(ctx, userID)
}

func (g *GamificationUseCase) Dashboard(ctx context.Context, userID uuid.UUID) (*DashboardStats, error) {
	db := g.db.WithContext(ctx)

	var user domain.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	profile, err := g.profiles.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	level := beginnerLevel
	if profile.CurrentLevel != nil {
		level = LevelInfo{
			Number:      profile.CurrentLevel.Number,
			Title:       profile.CurrentLevel.Title,
			XPThreshold: profile.CurrentLevel.XPThreshold,
		}
	}

	badgesCount, err := g.profiles.CountBadges(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent, err := g.profiles.RecentBadges(ctx, userID, 4)
	if err != nil {
		return nil, err
	}
	recentInfo := make([]BadgeInfo, 0, len(recent))
	for _, ub := range recent {
		recentInfo = append(recentInfo, BadgeInfo{
			Name:        ub.Badge.Name,
			Description: ub.Badge.Description,
			Icon:        ub.Badge.Icon,
			EarnedAt:    ub.EarnedAt,
		})
	}

	xpToNext, progressPct := levelProgress(db, level, profile.TotalXP)

	return &DashboardStats{
		Username:           user.Username,
		TotalXP:            profile.TotalXP,
		Level:              level,
		CurrentStreak:      profile.CurrentStreak,
		MaxStreak:          profile.MaxStreak,
		BadgesCount:        badgesCount,
		RecentBadges:       recentInfo,
		XPToNextLevel:      xpToNext,
		ProgressPercentage: progressPct,
		Plan:               profile.Plan,
		QuestionsAsked:     profile.QuestionsAsked,
	}, nil
}

func (g *GamificationUseCase) UpdateInterests(ctx context.Context, userID uuid.UUID, interests string) error {
	// Профиль заводим, если его еще нет, прежде чем обновлять поле
	if _, err := g.profiles.GetOrCreate(ctx, userID); err != nil {
		return err
	}
	return g.profiles.UpdateInterests(ctx, userID, interests)
}

// resolveLevel возвращает максимальный уровень с порогом <= totalXP,
// nil — если ни один порог не достигнут (или справочник пуст).
func resolveLevel(tx *gorm.DB, totalXP int) (*domain.Level, error) {
	var level domain.Level
	err := tx.Where("xp_threshold <= ?", totalXP).
		Order("number desc").
		First(&level).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &level, nil
}

// evaluateBadges выдает все бейджи категории, чей порог уже достигнут
// и которых у пользователя еще нет. FirstOrCreate по составному ключу
// гарантирует идемпотентность; выданное не отзывается.
func evaluateBadges(tx *gorm.DB, userID uuid.UUID, requirementType string, currentValue int) error {
	owned := tx.Model(&domain.UserBadge{}).
		Select("badge_id").
		Where("user_id = ?", userID)

	var eligible []domain.Badge
	err := tx.Where("requirement_type = ? AND requirement_value <= ?", requirementType, currentValue).
		Where("id NOT IN (?)", owned).
		Find(&eligible).Error
	if err != nil {
		return err
	}

	for _, badge := range eligible {
		grant := domain.UserBadge{
			UserID:   userID,
			BadgeID:  badge.ID,
			EarnedAt: time.Now().UTC(),
		}
		if err := tx.Where(domain.UserBadge{UserID: userID, BadgeID: badge.ID}).
			FirstOrCreate(&grant).Error; err != nil {
			return err
		}
	}
	return nil
}

func getOrCreateProfile(tx *gorm.DB, userID uuid.UUID) (*domain.UserProfile, error) {
	profile := domain.UserProfile{
		ID:     uuid.New(),
		UserID: userID,
		Plan:   domain.PlanFree,
	}
	err := tx.Where(domain.UserProfile{UserID: userID}).
		Preload("CurrentLevel").
		FirstOrCreate(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func levelProgress(tx *gorm.DB, current LevelInfo, totalXP int) (xpToNext, progressPct int) {
	var next domain.Level
	err := tx.Where("number = ?", current.Number+1).First(&next).Error
	if err != nil {
		// Максимальный уровень достигнут
		return totalXP, 100
	}

	totalNeeded := next.XPThreshold - current.XPThreshold
	if totalNeeded <= 0 {
		return next.XPThreshold, 0
	}
	earned := totalXP - current.XPThreshold
	pct := earned * 100 / totalNeeded
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	return next.XPThreshold, pct
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
