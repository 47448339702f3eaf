package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DriverStatus string

const (
	DriverStatusOffDuty  DriverStatus = "off_duty"
	DriverStatusActive   DriverStatus = "active"
	DriverStatusInactive DriverStatus = "inactive"
)

type Driver struct {
	ID              uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	DriverID        string       `gorm:"type:varchar(32);not null;uniqueIndex" json:"driver_id"`
	Name            string       `gorm:"type:varchar(255);not null" json:"name"`
	Phone           string       `gorm:"type:varchar(32)" json:"phone"`
	Email           string       `gorm:"type:varchar(255)" json:"email"`
	LicenseNumber   string       `gorm:"type:varchar(64)" json:"license_number"`
	LicenseExpiry   *time.Time   `json:"license_expiry"`
	Status          DriverStatus `gorm:"type:varchar(32);not null;default:'off_duty'" json:"status"`
	SafetyScore     float64      `gorm:"not null;default:5.0" json:"safety_score"`
	TotalDeliveries int          `gorm:"not null;default:0" json:"total_deliveries"`
	HasAccount      bool         `gorm:"not null;default:false" json:"has_account"`
	CreatedAt       time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Driver) TableName() string {
	return "drivers"
}

func (d *Driver) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
