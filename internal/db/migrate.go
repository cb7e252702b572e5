package db

import (
	"online_shop/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// Models lists every persisted model in dependency order
func Models() []any {
	return []any{
		&domain.User{},       // Credential store
		&domain.Brand{},      // Catalog
		&domain.DeviceType{}, // Catalog
		&domain.Device{},     // Catalog
		&domain.DeviceInfo{}, // Catalog
		&domain.Basket{},     // Basket aggregate
		&domain.BasketLine{}, // Basket aggregate
		&domain.Order{},      // Order aggregate
		&domain.OrderLine{},  // Order aggregate
		&domain.Rating{},     // Ratings
	}
}

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	return db.AutoMigrate(Models()...)
}
