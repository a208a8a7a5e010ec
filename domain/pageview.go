package domain

import "time"

// PageView is one continuous period a visitor spends on one logical route.
// The id is assigned by the store on insert; exited_at stays null until the
// route is left.
type PageView struct {
	ID        uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	VisitorID string     `gorm:"column:visitor_id;not null" json:"visitor_id"`
	PagePath  string     `gorm:"column:page_path;type:text;not null" json:"page_path"`
	EnteredAt time.Time  `gorm:"column:entered_at;not null" json:"entered_at"`
	ExitedAt  *time.Time `gorm:"column:exited_at" json:"exited_at"`
}

func (PageView) TableName() string {
	return "page_views"
}
