package db

import (
	"fmt" // DSN formatting

	"gorm.io/gorm"        // GORM ORM library
	"gorm.io/gorm/logger" // GORM logger levels
)

// OpenMemory opens a private, migrated in-memory SQLite database named name.
// Databases with different names never share data.
func OpenMemory(name string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	conn, err := OpenSQLite(dsn, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := Migrate(conn); err != nil {
		return nil, err
	}
	return conn, nil
}
