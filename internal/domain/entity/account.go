// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Account is the core identity in the system, representing one person
// (patient, clinician or administrator). Clinical records always reference
// an Account by ID; authentication material lives in Credential.
type Account struct {
	ID         uuid.UUID      // The Global Unique Identifier for the account.
	Email      string         // Unique login identifier.
	FullName   string         // Display name.
	Role       Role           // Exactly one of patient / clinician / admin.
	IsActive   bool           // Cleared on soft-deactivation; the record is kept for audit.
	IsVerified bool           // Whether the email address has been verified.
	Consent    *ConsentRecord // Data-sharing consent state. Only populated for patient accounts.
	CreatedAt  time.Time      // Timestamp of when this account was provisioned.
	UpdatedAt  time.Time      // Timestamp of the last modification to this account.
}

// IsPatient reports whether this account holds the patient role.
func (a *Account) IsPatient() bool {
	return a.Role == RolePatient
}

// ConsentState returns the account's share state, defaulting to sharing-on
// for patient accounts that have never touched their consent settings.
func (a *Account) ConsentState() ShareState {
	if a.Consent == nil || a.Consent.State == "" {
		return ShareOn
	}

	return a.Consent.State
}
