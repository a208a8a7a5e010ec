package domain

import "time"

type Product struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductName string    `gorm:"column:product_name;type:text" json:"product_name"`
	Price       float64   `gorm:"column:price;type:numeric" json:"price"`
	ImageURL    string    `gorm:"column:image_url;type:text" json:"image_url"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Product) TableName() string {
	return "products"
}

// ProductAnalytics carries the per-product interaction counters kept by the
// store. The engine only ever reads this table.
type ProductAnalytics struct {
	ProductID   uint64 `gorm:"primaryKey;column:product_id" json:"product_id"`
	ClickCount  uint64 `gorm:"column:click_count" json:"click_count"`
	SearchCount uint64 `gorm:"column:search_count" json:"search_count"`
}

func (ProductAnalytics) TableName() string {
	return "product_analytics"
}

// ProductCounters is one row of the trending candidate pool: a product's
// display fields joined with its interaction counters.
type ProductCounters struct {
	ProductID   uint64    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"image_url"`
	ClickCount  uint64    `json:"click_count"`
	SearchCount uint64    `json:"search_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// TrendingProduct is a ranked entry for the trending surface. Derived, never
// persisted.
type TrendingProduct struct {
	ProductID   uint64  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	Score       uint64  `json:"score"`
}
