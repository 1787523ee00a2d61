package database

import (
	"fmt"
	"log/slog"

	"github.com/hugh/kudosboard/internal/database/models"
	"github.com/hugh/kudosboard/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Connect(cfg *config.DatabaseConfig, log *slog.Logger) (*gorm.DB, error) {
	gormLogger := logger.Default.LogMode(logger.Warn)
	if cfg.SSLMode == "disable" {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying db: %w", err)
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Info("connected to database", "host", cfg.Host, "database", cfg.Name)

	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.Kudos{},
	); err != nil {
		return err
	}

	// Composite indexes backing the history and leaderboard queries.
	// gorm tags cannot span the embedded Base, so they are created here.
	stmts := []string{
		"CREATE INDEX IF NOT EXISTS idx_kudos_sender_created ON kudos (sender_id, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_kudos_receiver_created ON kudos (receiver_id, created_at)",
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}

	return nil
}
