package usecase

import (
	"context"
	"errors"

	"mentora/internal/domain"
	"mentora/internal/infrastructure/cache"
	"mentora/internal/infrastructure/repository"
	"mentora/internal/infrastructure/security"

	"github.com/google/uuid"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthUseCase struct {
	users        *repository.UserRepository
	profiles     *repository.ProfileRepository
	gamification *GamificationUseCase
	hasher       *security.PasswordHasher
	tokens       *security.TokenManager
	tokenCache   *cache.TokenCache
}

func NewAuthUseCase(
	users *repository.UserRepository,
	profiles *repository.ProfileRepository,
	gamification *GamificationUseCase,
	hasher *security.PasswordHasher,
	tokens *security.TokenManager,
	tokenCache *cache.TokenCache,
) *AuthUseCase {
	return &AuthUseCase{
		users:        users,
		profiles:     profiles,
		gamification: gamification,
		hasher:       hasher,
		tokens:       tokens,
		tokenCache:   tokenCache,
	}
}

func (uc *AuthUseCase) Register(ctx context.Context, email, username, password string) (*domain.User, error) {
	// 1. Хешируем пароль
	hashed, err := uc.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	// 2. Создаем пользователя
	user := &domain.User{
		ID:       uuid.New(),
		Email:    email,
		Username: username,
		Password: hashed,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}

	// 3. Профиль заводим сразу, чтобы дашборд не ловил пустоту
	if _, err := uc.profiles.GetOrCreate(ctx, user.ID); err != nil {
		return nil, err
	}

	return user, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password, ip, userAgent string) (*TokenPair, error) {
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := uc.hasher.Compare(user.Password, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	// Вход засчитывается в стрик до выдачи токенов
	if err := uc.gamification.RecordLogin(ctx, user.ID, ip, userAgent); err != nil {
		return nil, err
	}

	profile, err := uc.profiles.GetOrCreate(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	access, refresh, err := uc.tokens.Generate(user.ID.String(), profile.Plan)
	if err != nil {
		return nil, err
	}
	if err := uc.tokenCache.SaveRefresh(ctx, user.ID.String(), refresh); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh ротирует пару: старый refresh гасится, выдается новый.
func (uc *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, err := uc.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	cachedID, err := uc.tokenCache.CheckRefresh(ctx, refreshToken)
	if err != nil || cachedID != userID {
		return nil, ErrInvalidCredentials
	}

	if err := uc.tokenCache.DeleteRefresh(ctx, refreshToken); err != nil {
		return nil, err
	}

	parsedID, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	profile, err := uc.profiles.GetOrCreate(ctx, parsedID)
	if err != nil {
		return nil, err
	}

	access, refresh, err := uc.tokens.Generate(userID, profile.Plan)
	if err != nil {
		return nil, err
	}
	if err := uc.tokenCache.SaveRefresh(ctx, userID, refresh); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (uc *AuthUseCase) Logout(ctx context.Context, refreshToken string) error {
	return uc.tokenCache.DeleteRefresh(ctx, refreshToken)
}
