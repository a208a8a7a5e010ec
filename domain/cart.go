package domain

import (
	"errors"
	"time"
)

// ErrCartItemNotFound marks a missing remote cart row for a (user, product)
// pair.
var ErrCartItemNotFound = errors.New("cart item not found")

// CartLine is one product-quantity pair in the in-memory cart. Display
// fields are snapshotted from the product at add time so a guest cart can
// render offline.
type CartLine struct {
	ProductID   uint64  `json:"product_id"`
	Quantity    int     `json:"quantity"`
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
}

// CartItem is the remote-synchronized row behind an authenticated user's
// cart line.
type CartItem struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"column:user_id;index;not null" json:"user_id"`
	ProductID uint64    `gorm:"column:product_id;not null" json:"product_id"`
	Quantity  int       `gorm:"column:quantity;not null" json:"quantity"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
