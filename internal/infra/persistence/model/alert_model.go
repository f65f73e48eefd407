package model

import (
	"time"

	"github.com/google/uuid"
)

// AlertModel mirrors the 'alerts' table. The (account_id, type, created_at)
// index backs the deduplication lookup for active alerts within the window.
type AlertModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	AccountID      uuid.UUID `gorm:"type:uuid;not null;index:idx_alerts_dedup,priority:1"`
	Type           string    `gorm:"type:varchar(40);not null;index:idx_alerts_dedup,priority:2"`
	Severity       string    `gorm:"type:varchar(20);not null;index"`
	Title          string    `gorm:"type:varchar(200);not null"`
	Message        string    `gorm:"type:text;not null"`
	ActionRequired string    `gorm:"type:text"`
	TriggerValue   float64
	ThresholdValue float64
	Acknowledged   bool `gorm:"not null;default:false"`
	AcknowledgedAt *time.Time
	AcknowledgedBy *uuid.UUID `gorm:"type:uuid"`
	Resolved       bool       `gorm:"not null;default:false"`
	ResolvedAt     *time.Time
	CreatedAt      time.Time `gorm:"index:idx_alerts_dedup,priority:3,sort:desc"`
	UpdatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (AlertModel) TableName() string {
	return "alerts"
}
