package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VehicleStatus string

const (
	VehicleStatusActive      VehicleStatus = "active"
	VehicleStatusMaintenance VehicleStatus = "maintenance"
	VehicleStatusRetired     VehicleStatus = "retired"
)

type Vehicle struct {
	ID              uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	VehicleID       string        `gorm:"type:varchar(32);not null;uniqueIndex" json:"vehicle_id"`
	Type            string        `gorm:"type:varchar(64)" json:"type"`
	Status          VehicleStatus `gorm:"type:varchar(32);not null;default:'active'" json:"status"`
	Mileage         float64       `gorm:"not null;default:0" json:"mileage"`
	LastMaintenance *time.Time    `json:"last_maintenance"`
	CreatedAt       time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}

func (v *Vehicle) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
