package database

import (
	"fmt"

	"taxreturn/internal/model"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection opens the connection pool and migrates the filing schema.
// A failed migration is logged, not fatal.
func NewConnection(dsn string, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := Migrate(db); err != nil {
		log.Warn("failed to auto-migrate models", zap.Error(err))
	}
	return db, nil
}

// Migrate creates or updates the tables of every persisted model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Filing{},
		&model.Review{},
		&model.AuditLog{},
	)
}
