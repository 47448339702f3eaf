package model

import "github.com/google/uuid"

type UserRole string

const (
	UserRoleManager UserRole = "manager"
	UserRoleDriver  UserRole = "driver"
)

// Principal is the authenticated identity a request acts as. It is built
// from token claims and stays immutable for the request's lifetime.
type Principal struct {
	UserID     uuid.UUID
	Username   string
	Email      string
	Role       UserRole
	DriverID   *uuid.UUID
	DriverName string
}

func (p Principal) IsManager() bool {
	return p.Role == UserRoleManager
}

func (p Principal) IsDriver() bool {
	return p.Role == UserRoleDriver
}
