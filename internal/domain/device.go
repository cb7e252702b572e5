package domain

import "time"

// Brand Model
type Brand struct {
	ID   uint   `gorm:"primaryKey" json:"id"`                     // Primary key
	Name string `gorm:"size:50;uniqueIndex;not null" json:"name"` // Unique brand name
}

// DeviceType Model, stored in the "types" table
type DeviceType struct {
	ID   uint   `gorm:"primaryKey" json:"id"`                     // Primary key
	Name string `gorm:"size:50;uniqueIndex;not null" json:"name"` // Unique type name
}

func (DeviceType) TableName() string { return "types" }

// Device Model
type Device struct {
	ID        uint         `gorm:"primaryKey" json:"id"`                      // Primary key
	Name      string       `gorm:"size:191;uniqueIndex;not null" json:"name"` // Unique device name
	Price     int64        `gorm:"not null" json:"price"`                     // Price in minor currency units
	Rating    int          `gorm:"not null;default:0" json:"rating"`          // Rounded average of ratings
	Img       string       `gorm:"not null" json:"img"`                       // Static image path
	TypeID    uint         `gorm:"index;not null" json:"typeId"`              // Device type
	BrandID   uint         `gorm:"index;not null" json:"brandId"`             // Device brand
	Type      *DeviceType  `gorm:"foreignKey:TypeID" json:"type,omitempty"`   // Joined type
	Brand     *Brand       `gorm:"foreignKey:BrandID" json:"brand,omitempty"` // Joined brand
	Infos     []DeviceInfo `gorm:"foreignKey:DeviceID" json:"info,omitempty"` // Characteristics
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// DeviceInfo Model, one characteristic line of a device
type DeviceInfo struct {
	ID          uint   `gorm:"primaryKey" json:"id"`        // Primary key
	DeviceID    uint   `gorm:"index;not null" json:"-"`     // Owning device
	Title       string `gorm:"not null" json:"title"`       // Characteristic name
	Description string `gorm:"not null" json:"description"` // Characteristic value
}
