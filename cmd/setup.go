package cmd

import (
	"fmt"

	"translation-manager/core/config"
	"translation-manager/core/database"
	"translation-manager/core/logger"
	"translation-manager/feature/branches"
	"translation-manager/feature/branches/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// setupService loads configuration, connects to the database, and builds the
// branches service for CLI commands. Storage is not wired; CLI commands do
// not export snapshots.
func setupService() (*branches.Service, *gorm.DB, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return branches.NewService(db, nil, "", l), db, l, nil
}
