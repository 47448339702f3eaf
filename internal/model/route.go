package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RouteStatus string

const (
	RouteStatusPending   RouteStatus = "pending"
	RouteStatusActive    RouteStatus = "active"
	RouteStatusCompleted RouteStatus = "completed"
	RouteStatusCancelled RouteStatus = "cancelled"
)

func (s RouteStatus) Terminal() bool {
	return s == RouteStatusCompleted || s == RouteStatusCancelled
}

// Route is a planned sequence of deliveries assigned to at most one driver
// and one vehicle. TotalStops always mirrors the count of deliveries that
// reference the route; every membership mutation recounts it in the same
// transaction.
type Route struct {
	ID             uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	RouteID        string      `gorm:"type:varchar(32);not null;uniqueIndex" json:"route_id"`
	Name           string      `gorm:"type:varchar(255);not null" json:"name"`
	Status         RouteStatus `gorm:"type:varchar(32);not null;default:'pending'" json:"status"`
	TotalStops     int         `gorm:"not null;default:0" json:"total_stops"`
	CompletedStops int         `gorm:"not null;default:0" json:"completed_stops"`
	EstimatedTime  string      `gorm:"type:varchar(64)" json:"estimated_time"`
	ActualTime     string      `gorm:"type:varchar(64)" json:"actual_time"`
	DriverID       *uuid.UUID  `gorm:"type:uuid" json:"driver_id"`
	VehicleID      *uuid.UUID  `gorm:"type:uuid" json:"vehicle_id"`
	CreatedAt      time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time   `gorm:"autoUpdateTime" json:"updated_at"`

	// references:ID is required: the external-code columns (DriverID,
	// VehicleID) shadow the foreign keys by name, and gorm would otherwise
	// resolve the association against them.
	Driver     *Driver    `gorm:"belongsTo;foreignKey:DriverID;references:ID" json:"driver,omitempty"`
	Vehicle    *Vehicle   `gorm:"belongsTo;foreignKey:VehicleID;references:ID" json:"vehicle,omitempty"`
	Deliveries []Delivery `gorm:"foreignKey:RouteID;references:ID" json:"deliveries,omitempty"`
}

func (Route) TableName() string {
	return "routes"
}

func (r *Route) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// CanTransitionTo enforces the forward-only route lifecycle. Cancellation is
// allowed from any non-terminal status.
func (s RouteStatus) CanTransitionTo(next RouteStatus) bool {
	if s == next {
		return true
	}
	if s.Terminal() {
		return false
	}
	switch next {
	case RouteStatusActive:
		return s == RouteStatusPending
	case RouteStatusCompleted:
		return s == RouteStatusActive
	case RouteStatusCancelled:
		return true
	default:
		return false
	}
}
