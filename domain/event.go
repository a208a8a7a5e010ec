package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Interaction event types emitted by the rendering layer.
const (
	EventPageClick     = "page_click"
	EventProductClick  = "product_click"
	EventSearchSubmit  = "search"
	EventCheckoutStart = "checkout_start"
)

// InteractionEvent is a single recorded user action. Rows are append-only:
// there is no update or delete path.
type InteractionEvent struct {
	ID          uint64            `gorm:"primaryKey;autoIncrement" json:"id"`
	VisitorID   string            `gorm:"column:visitor_id;not null" json:"visitor_id"`
	EventType   string            `gorm:"column:event_type;not null" json:"event_type"`
	ProductID   *uint64           `gorm:"column:product_id" json:"product_id"`
	SearchQuery *string           `gorm:"column:search_query" json:"search_query"`
	Metadata    datatypes.JSONMap `gorm:"column:metadata;type:jsonb" json:"metadata"`
	CreatedAt   time.Time         `gorm:"column:created_at;not null" json:"created_at"`
}

func (InteractionEvent) TableName() string {
	return "events"
}
