package domain

import "time"

// Basket Model, exactly one per user
type Basket struct {
	ID        uint         `gorm:"primaryKey"`                                      // Primary key
	UserID    uint         `gorm:"uniqueIndex;not null"`                            // Owner, one basket per user
	Lines     []BasketLine `gorm:"foreignKey:BasketID;constraint:OnDelete:CASCADE"` // Basket contents
	CreatedAt time.Time
}

// BasketLine Model. At most one line per (basket, device); quantity is always >= 1.
type BasketLine struct {
	ID        uint      `gorm:"primaryKey"`                                        // Primary key
	BasketID  uint      `gorm:"not null;uniqueIndex:idx_basket_device,priority:1"` // Owning basket
	DeviceID  uint      `gorm:"not null;uniqueIndex:idx_basket_device,priority:2"` // Referenced device
	Quantity  int       `gorm:"not null;default:1"`                                // Units of the device
	Device    *Device   `gorm:"foreignKey:DeviceID"`                               // Joined device, loaded on read
	CreatedAt time.Time // First add
	UpdatedAt time.Time // Last quantity change
}
