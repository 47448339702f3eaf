package service

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fleet-service/internal/db"
	"fleet-service/internal/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "fleet_test.db")

	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.RunMigrations(database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return database
}

func managerPrincipal() model.Principal {
	return model.Principal{
		UserID:   uuid.New(),
		Username: "dispatch",
		Email:    "dispatch@example.com",
		Role:     model.UserRoleManager,
	}
}

func driverPrincipal(driverID uuid.UUID) model.Principal {
	return model.Principal{
		UserID:   uuid.New(),
		Username: "driver",
		Email:    "driver@example.com",
		Role:     model.UserRoleDriver,
		DriverID: &driverID,
	}
}
