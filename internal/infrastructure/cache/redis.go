package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type TokenCache struct {
	client *redis.Client
}

func NewTokenCache(client *redis.Client) *TokenCache {
	return &TokenCache{client: client}
}

func (c *TokenCache) SaveRefresh(ctx context.Context, userID string, refreshToken string) error {
	// Храним 7 дней
	return c.client.Set(ctx, "refresh_token:"+refreshToken, userID, 7*24*time.Hour).Err()
}

func (c *TokenCache) CheckRefresh(ctx context.Context, refreshToken string) (string, error) {
	val, err := c.client.Get(ctx, "refresh_token:"+refreshToken).Result()
	if err != nil {
		return "", err
	}
	return val, nil
}

func (c *TokenCache) DeleteRefresh(ctx context.Context, refreshToken string) error {
	return c.client.Del(ctx, "refresh_token:"+refreshToken).Err()
}

// Счетчик гостевых вопросов по session id из cookie.
// Сессия живет сутки, дальше счетчик сгорает вместе с ключом.
type GuestSessions struct {
	client *redis.Client
}

func NewGuestSessions(client *redis.Client) *GuestSessions {
	return &GuestSessions{client: client}
}

func (g *GuestSessions) Count(ctx context.Context, sessionID string) (int64, error) {
	val, err := g.client.Get(ctx, "guest_questions:"+sessionID).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return val, nil
}

func (g *GuestSessions) Increment(ctx context.Context, sessionID string) (int64, error) {
	key := "guest_questions:" + sessionID
	count, err := g.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	// Первый вопрос — ставим время жизни ключу
	if count == 1 {
		g.client.Expire(ctx, key, 24*time.Hour)
	}
	return count, nil
}
