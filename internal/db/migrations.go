package db

import (
	"fmt"

	"gorm.io/gorm"

	"fleet-service/internal/model"
)

func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Driver{},
		&model.Vehicle{},
		&model.Route{},
		&model.Delivery{},
		&model.ComplianceDocument{},
		&model.TrainingModule{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
