package model

import (
	"time"

	"github.com/google/uuid"
)

// AccountModel mirrors the 'accounts' table. PostgreSQL generates UUIDs via
// uuid_generate_v7(). Consent columns are denormalized onto the account row
// so a single-row compare-and-set can guard every state transition.
type AccountModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Email      string    `gorm:"type:varchar(255);unique;not null"`
	FullName   string    `gorm:"type:varchar(100)"`
	Role       string    `gorm:"type:varchar(20);not null;index"`
	IsActive   bool      `gorm:"not null;default:true"`
	IsVerified bool      `gorm:"not null;default:false"`

	ConsentState       string     `gorm:"type:varchar(30);not null;default:'SHARING_ON';index"`
	ConsentRequestedAt *time.Time
	ConsentRequestedBy *uuid.UUID `gorm:"type:uuid"`
	ConsentReviewedAt  *time.Time
	ConsentReviewedBy  *uuid.UUID `gorm:"type:uuid"`
	ConsentDecision    *string    `gorm:"type:varchar(10)"`
	ConsentReason      string     `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time `gorm:"index"`

	Credential *CredentialModel `gorm:"foreignKey:AccountID"`
	VitalSigns []VitalSignModel `gorm:"foreignKey:AccountID"`
	Alerts     []AlertModel     `gorm:"foreignKey:AccountID"`
}

// TableName explicitly sets the table name for GORM.
func (AccountModel) TableName() string {
	return "accounts"
}
