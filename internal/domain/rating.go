package domain

import "time"

// Rating Model, at most one per (user, device)
type Rating struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_device,priority:1" json:"userId"`
	DeviceID  uint      `gorm:"not null;uniqueIndex:idx_user_device,priority:2;index" json:"deviceId"`
	Rate      int       `gorm:"not null" json:"rate"`
	Comment   string    `gorm:"size:500" json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
