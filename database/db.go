package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"bookshelf/internal/config"
	"bookshelf/internal/http-api/models"
)

// Connect opens the postgres pool described by cfg, verifies it and
// migrates the catalogue schema.
func Connect(ctx context.Context, cfg *config.Config, log *slog.Logger) (*gorm.DB, error) {
	gormLog := logger.Default.LogMode(logger.Warn)
	if cfg.IsProduction() {
		gormLog = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
		Logger:         gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		sqlDB.Close()
		return nil, err
	}

	log.Info("connected to the database")
	return db, nil
}

// Migrate creates or updates the genres and books tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Genre{}, &models.Book{}); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// Close releases the pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
