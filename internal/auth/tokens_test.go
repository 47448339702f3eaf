package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"fleet-service/internal/model"
)

func TestIssueParseRoundTrip(t *testing.T) {
	manager := NewManager("test-secret", time.Hour)
	driverID := uuid.New()
	principal := model.Principal{
		UserID:     uuid.New(),
		Username:   "yerlan",
		Email:      "yerlan@fleet.kz",
		Role:       model.UserRoleDriver,
		DriverID:   &driverID,
		DriverName: "Yerlan",
	}

	token, err := manager.Issue(principal)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := manager.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got := claims.Principal()
	if got.UserID != principal.UserID || got.Username != principal.Username || got.Role != principal.Role {
		t.Fatalf("principal mismatch: %+v", got)
	}
	if got.DriverID == nil || *got.DriverID != driverID {
		t.Fatalf("driver id = %v, want %s", got.DriverID, driverID)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", time.Hour).Issue(model.Principal{Username: "x", Role: model.UserRoleManager})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewManager("secret-b", time.Hour).Parse(token); err == nil {
		t.Fatalf("expected signature failure")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	manager := NewManager("test-secret", -time.Minute)
	token, err := manager.Issue(model.Principal{Username: "x", Role: model.UserRoleManager})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := manager.Parse(token); err == nil {
		t.Fatalf("expected expiry failure")
	}
}
