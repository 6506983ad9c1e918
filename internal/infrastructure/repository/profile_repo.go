package repository

import (
	"context"

	"mentora/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Профиль создается лениво при первом обращении
func (r *ProfileRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	profile := domain.UserProfile{
		ID:     uuid.New(),
		UserID: userID,
		Plan:   domain.PlanFree,
	}
	err := r.db.WithContext(ctx).
		Where(domain.UserProfile{UserID: userID}).
		Preload("CurrentLevel").
		FirstOrCreate(&profile).Error
	return &profile, err
}

func (r *ProfileRepository) Save(ctx context.Context, profile *domain.UserProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *ProfileRepository) IncrementQuestionsAsked(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&domain.UserProfile{}).
		Where("user_id = ?", userID).
		Update("questions_asked", gorm.Expr("questions_asked + 1")).Error
}

func (r *ProfileRepository) UpdateInterests(ctx context.Context, userID uuid.UUID, interests string) error {
	return r.db.WithContext(ctx).Model(&domain.UserProfile{}).
		Where("user_id = ?", userID).
		Update("interests", interests).Error
}

func (r *ProfileRepository) CreateLoginRecord(ctx context.Context, record *domain.LoginHistory) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *ProfileRepository) CountBadges(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.UserBadge{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *ProfileRepository) RecentBadges(ctx context.Context, userID uuid.UUID, limit int) ([]domain.UserBadge, error) {
	var badges []domain.UserBadge
	err := r.db.WithContext(ctx).
		Preload("Badge").
		Where("user_id = ?", userID).
		Order("earned_at desc").
		Limit(limit).
		Find(&badges).Error
	return badges, err
}
