package db

import (
	"fmt"

	"github.com/elite-acai/pdv-auth/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the operator schema.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	if errMigrate := conn.AutoMigrate(&models.Operator{}); errMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errMigrate)
	}
	return nil
}
