package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ComplianceDocument struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	DriverID   *uuid.UUID `gorm:"type:uuid;index" json:"driver_id"`
	Name       string     `gorm:"type:varchar(255);not null" json:"name"`
	Type       string     `gorm:"type:varchar(64)" json:"type"`
	Status     string     `gorm:"type:varchar(32);not null;default:'valid'" json:"status"`
	ExpiryDate *time.Time `json:"expiry_date"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (ComplianceDocument) TableName() string {
	return "compliance_documents"
}

func (d *ComplianceDocument) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

type TrainingModule struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title           string    `gorm:"type:varchar(255);not null" json:"title"`
	Category        string    `gorm:"type:varchar(64)" json:"category"`
	DurationMinutes int       `gorm:"not null;default:0" json:"duration_minutes"`
	Required        bool      `gorm:"not null;default:false" json:"required"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (TrainingModule) TableName() string {
	return "training_modules"
}

func (m *TrainingModule) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
