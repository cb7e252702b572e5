package main

import (
	"online_shop/internal/config" // Custom import path (Config)
	"online_shop/internal/db"     // Custom import path (Database)
	"online_shop/internal/utils"  // Logger setup

	"github.com/sirupsen/logrus" // Logging
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	utils.SetupLogger(cfg.LogLevel, cfg.LogFile, cfg.IsProd)

	conn, err := db.Open(cfg) // Open a connection to the database
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}
	logrus.WithFields(logrus.Fields{"driver": cfg.DBDriver}).Info("Migration completed")
}
