package domain

import "time"

// CREATE TABLE public.visitors (
//     id                TEXT PRIMARY KEY,
//     user_id           TEXT,
//     device_descriptor TEXT,
//     created_at        TIMESTAMPTZ DEFAULT NOW()
// );

// Visitor is the durable anonymous identity of one browsing device. The id
// is generated on-device once and never changes; user_id is filled in when
// an authenticated identity gets linked to the device.
type Visitor struct {
	ID               string    `gorm:"primaryKey;column:id" json:"id"`
	UserID           *string   `gorm:"column:user_id" json:"user_id"`
	DeviceDescriptor string    `gorm:"column:device_descriptor;type:text" json:"device_descriptor"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Visitor) TableName() string {
	return "visitors"
}
