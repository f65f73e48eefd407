package model

import (
	"time"

	"github.com/google/uuid"
)

// VitalSignModel mirrors the 'vital_signs' table. The composite index on
// (account_id, recorded_at) serves both the latest-reading lookup and range
// queries for history and summaries.
type VitalSignModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	AccountID   uuid.UUID `gorm:"type:uuid;not null;index:idx_vitals_account_recorded,priority:1"`
	HeartRate   int       `gorm:"not null"`
	SpO2        *float64
	SystolicBP  *int
	DiastolicBP *int
	DeviceID    string    `gorm:"type:varchar(100)"`
	RecordedAt  time.Time `gorm:"not null;index:idx_vitals_account_recorded,priority:2,sort:desc"`
	CreatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (VitalSignModel) TableName() string {
	return "vital_signs"
}
