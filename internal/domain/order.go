package domain

import "time"

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"   // Created by checkout
	OrderShipped   OrderStatus = "shipped"   // Handed to delivery
	OrderDelivered OrderStatus = "delivered" // Received by the customer
)

// OrderStatuses lists every accepted status
var OrderStatuses = []OrderStatus{OrderPending, OrderShipped, OrderDelivered}

// Valid reports whether s is one of OrderStatuses
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Order Model. Immutable after checkout except for Status.
type Order struct {
	ID        uint        `gorm:"primaryKey"`                                     // Primary key
	UserID    uint        `gorm:"index;not null"`                                 // Owner
	User      *User       `gorm:"foreignKey:UserID"`                              // Joined owner, admin views only
	Total     int64       `gorm:"not null"`                                       // Sum of price x quantity at checkout
	Address   string      `gorm:"size:255;not null"`                              // Delivery address
	Status    OrderStatus `gorm:"size:16;not null;default:pending"`               // Lifecycle state
	Lines     []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"` // Purchased devices
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderLine Model, a snapshot of one basket line at checkout
type OrderLine struct {
	ID       uint    `gorm:"primaryKey"`          // Primary key
	OrderID  uint    `gorm:"index;not null"`      // Owning order
	DeviceID uint    `gorm:"index;not null"`      // Purchased device
	Quantity int     `gorm:"not null"`            // Units purchased
	Price    int64   `gorm:"not null"`            // Unit price at checkout
	Device   *Device `gorm:"foreignKey:DeviceID"` // Joined device, loaded on read
}
