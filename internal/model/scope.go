package model

import "github.com/google/uuid"

type ScopeType string

const (
	ScopeAll    ScopeType = "ALL"
	ScopeDriver ScopeType = "DRIVER"
)

// Scope limits what a principal may read or mutate. Managers get ScopeAll;
// driver principals are restricted to routes assigned to their driver record.
type Scope struct {
	Type     ScopeType
	DriverID *uuid.UUID
}

func ScopeFor(p Principal) Scope {
	if p.IsDriver() {
		return Scope{Type: ScopeDriver, DriverID: p.DriverID}
	}
	return Scope{Type: ScopeAll}
}

// AllowsRoute reports whether a route assigned to the given driver is inside
// the scope. A nil assignment is only visible to unrestricted scopes.
func (s Scope) AllowsRoute(assignedDriver *uuid.UUID) bool {
	if s.Type == ScopeAll {
		return true
	}
	if s.DriverID == nil || assignedDriver == nil {
		return false
	}
	return *s.DriverID == *assignedDriver
}
