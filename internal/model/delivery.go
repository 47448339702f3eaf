package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DeliveryStatus string

const (
	DeliveryStatusPending    DeliveryStatus = "pending"
	DeliveryStatusInProgress DeliveryStatus = "in_progress"
	DeliveryStatusCompleted  DeliveryStatus = "completed"
	DeliveryStatusCancelled  DeliveryStatus = "cancelled"
)

func (s DeliveryStatus) Terminal() bool {
	return s == DeliveryStatusCompleted || s == DeliveryStatusCancelled
}

func (s DeliveryStatus) CanTransitionTo(next DeliveryStatus) bool {
	if s == next {
		return true
	}
	if s.Terminal() {
		return false
	}
	switch next {
	case DeliveryStatusInProgress:
		return s == DeliveryStatusPending
	case DeliveryStatusCompleted:
		return s == DeliveryStatusPending || s == DeliveryStatusInProgress
	case DeliveryStatusCancelled:
		return true
	default:
		return false
	}
}

type Delivery struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	DeliveryID          string         `gorm:"type:varchar(32);not null;uniqueIndex" json:"delivery_id"`
	Address             string         `gorm:"type:text;not null" json:"address"`
	CustomerName        string         `gorm:"type:varchar(255)" json:"customer_name"`
	CustomerPhone       string         `gorm:"type:varchar(32)" json:"customer_phone"`
	PackageCount        int            `gorm:"not null;default:1" json:"package_count"`
	ScheduledTime       string         `gorm:"type:varchar(64)" json:"scheduled_time"`
	SpecialInstructions string         `gorm:"type:text" json:"special_instructions"`
	Status              DeliveryStatus `gorm:"type:varchar(32);not null;default:'pending'" json:"status"`
	Latitude            *float64       `json:"latitude"`
	Longitude           *float64       `json:"longitude"`
	StopNumber          int            `gorm:"not null;default:0" json:"stop_number"`
	Notes               string         `gorm:"type:text" json:"notes"`
	RouteID             *uuid.UUID     `gorm:"type:uuid;index" json:"route_id"`
	CreatedAt           time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	// references:ID is required: without it gorm matches the association
	// against the RouteID code column instead of the primary key.
	Route *Route `gorm:"belongsTo;foreignKey:RouteID;references:ID" json:"route,omitempty"`
}

func (Delivery) TableName() string {
	return "deliveries"
}

func (d *Delivery) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
