package db

import (
	"errors"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"fleet-service/internal/model"
)

func TestOpenTranslatesDuplicateKey(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fleet_test.db")

	database, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := RunMigrations(database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	if err := database.Create(&model.User{
		Username:     "dup",
		Email:        "dup@fleet.kz",
		PasswordHash: "hash",
		Role:         model.UserRoleManager,
	}).Error; err != nil {
		t.Fatalf("first insert: %v", err)
	}

	err = database.Create(&model.User{
		Username:     "dup",
		Email:        "other@fleet.kz",
		PasswordHash: "hash",
		Role:         model.UserRoleManager,
	}).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("duplicate username err = %v, want gorm.ErrDuplicatedKey", err)
	}
}
