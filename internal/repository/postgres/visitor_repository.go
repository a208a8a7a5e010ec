package postgres

import (
	"context"
	"fmt"
	"kneexEngine/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VisitorRepository struct {
	DB *gorm.DB
}

func NewVisitorRepository(db *gorm.DB) *VisitorRepository {
	return &VisitorRepository{
		DB: db,
	}
}

// Upsert inserts the visitor row or, when the id already exists, refreshes
// its user linkage and device descriptor. The visitor id itself is never
// rewritten.
func (r *VisitorRepository) Upsert(ctx context.Context, visitor *domain.Visitor) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "device_descriptor"}),
	}).Create(visitor).Error
	if err != nil {
		return fmt.Errorf("failed to upsert visitor: %w", err)
	}

	return nil
}
