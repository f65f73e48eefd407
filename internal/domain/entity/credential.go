// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Lockout policy. These are deliberately constants rather than configuration:
// exposing them as tunables would allow the brute-force protection to be
// silently weakened by a deployment change.
const (
	// MaxFailedLogins is the number of consecutive failed password checks
	// after which an account is locked.
	MaxFailedLogins = 3

	// LockoutDuration is how long a locked account stays locked.
	LockoutDuration = 15 * time.Minute
)

// Credential holds the authentication material for exactly one Account.
// It is kept separate from the Account so that clinical reads never touch
// password hashes or lockout counters.
type Credential struct {
	ID                uuid.UUID  // The unique ID for this credential record itself.
	AccountID         uuid.UUID  // Links this credential to the Account it belongs to (1:1).
	PasswordHash      string     // bcrypt hash of the password, never plaintext.
	FailedAttempts    int        // Consecutive failed password checks; reset to 0 on success.
	LockedUntil       *time.Time // Lockout expiry; nil means not locked.
	LastLoginAt       *time.Time // Last successful authentication.
	PasswordChangedAt *time.Time // When the password was last changed. Also invalidates older reset tokens.
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsLocked reports whether the credential is locked at the given instant.
func (c *Credential) IsLocked(now time.Time) bool {
	return c.LockedUntil != nil && c.LockedUntil.After(now)
}

// LockRemaining returns how much of the lockout window is left at the given
// instant, or zero when the credential is not locked.
func (c *Credential) LockRemaining(now time.Time) time.Duration {
	if !c.IsLocked(now) {
		return 0
	}

	return c.LockedUntil.Sub(now)
}
