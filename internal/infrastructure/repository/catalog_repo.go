package repository

import (
	"context"
	"encoding/json"
	"time"

	"mentora/internal/domain"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Справочники (уровни, бейджи, тарифы). Список тарифов кешируется в Redis:
// страницу цен открывают и гости, а данные меняются только сидом.
type CatalogRepository struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewCatalogRepository(db *gorm.DB, rdb *redis.Client) *CatalogRepository {
	return &CatalogRepository{db: db, rdb: rdb}
}

func (r *CatalogRepository) Plans(ctx context.Context) ([]domain.Plan, error) {
	const key = "plans:list"

	// 1. Кеш
	if r.rdb != nil {
		if val, err := r.rdb.Get(ctx, key).Result(); err == nil {
			var plans []domain.Plan
			if json.Unmarshal([]byte(val), &plans) == nil {
				return plans, nil
			}
		}
	}

	// 2. БД
	var plans []domain.Plan
	if err := r.db.WithContext(ctx).Order("price asc").Find(&plans).Error; err != nil {
		return nil, err
	}

	// 3. Пишем в кеш на час, тарифы меняются только сидом
	if r.rdb != nil {
		if data, err := json.Marshal(plans); err == nil {
			r.rdb.Set(ctx, key, data, 1*time.Hour)
		}
	}

	return plans, nil
}
