package postgres

import (
	"context"
	"errors"
	"fmt"
	"kneexEngine/domain"
	"time"

	"gorm.io/gorm"
)

type PageViewRepository struct {
	DB *gorm.DB
}

func NewPageViewRepository(db *gorm.DB) *PageViewRepository {
	return &PageViewRepository{
		DB: db,
	}
}

// Create inserts the session row; the store-assigned id comes back on the
// model.
func (r *PageViewRepository) Create(ctx context.Context, view *domain.PageView) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(view).Error; err != nil {
		return fmt.Errorf("failed to create page view: %w", err)
	}

	return nil
}

// Close stamps exited_at on the session.
func (r *PageViewRepository) Close(ctx context.Context, id uint64, exitedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(&domain.PageView{}).Where("id = ?", id).Update("exited_at", exitedAt)
	if result.Error != nil {
		return fmt.Errorf("failed to close page view: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("page view not found")
	}

	return nil
}
