package postgres

import (
	"context"
	"fmt"
	"kneexEngine/domain"

	"gorm.io/gorm"
)

type AnalyticsRepository struct {
	DB *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{
		DB: db,
	}
}

// TopByClicks returns up to pool products ordered by click count descending,
// joined with their display fields. This is the bounded candidate pool the
// trending ranking re-sorts; product_analytics is read-only for the engine.
func (r *AnalyticsRepository) TopByClicks(ctx context.Context, pool int) ([]domain.ProductCounters, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.ProductCounters
	err := r.DB.WithContext(ctx).
		Table("product_analytics").
		Select("product_analytics.product_id, product_analytics.click_count, product_analytics.search_count, products.product_name, products.price, products.image_url, products.created_at").
		Joins("JOIN products ON products.id = product_analytics.product_id").
		Order("product_analytics.click_count DESC, products.created_at DESC").
		Limit(pool).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load analytics pool: %w", err)
	}

	return rows, nil
}
