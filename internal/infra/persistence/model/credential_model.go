package model

import (
	"time"

	"github.com/google/uuid"
)

// CredentialModel mirrors the 'account_credentials' table. One row per
// account. The failed-attempt counter and lockout expiry live here so that
// clinical queries never join against password material.
type CredentialModel struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	AccountID         uuid.UUID  `gorm:"type:uuid;unique;not null"`
	PasswordHash      string     `gorm:"type:varchar(255);not null"`
	FailedAttempts    int        `gorm:"not null;default:0"`
	LockedUntil       *time.Time
	LastLoginAt       *time.Time
	PasswordChangedAt *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName explicitly sets the table name for GORM.
func (CredentialModel) TableName() string {
	return "account_credentials"
}
