package repository

import (
	"context"
	"errors"
	"time"

	"adaptiv/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrCredentialNotFound is returned when an account has no credential row.
var ErrCredentialNotFound = errors.New("credential not found")

// ErrStaleFailureCount is returned when a conditional failed-attempt update
// loses the race against a concurrent failed login. The counter must never
// be overwritten blindly, or concurrent guesses could bypass the lockout.
var ErrStaleFailureCount = errors.New("failed-attempt counter changed concurrently")

// CredentialRepository defines operations on authentication credentials.
// Only the authenticator and the password-reset flow mutate credentials.
type CredentialRepository interface {
	// FindByAccountID retrieves the credential for an account.
	FindByAccountID(ctx context.Context, accountID uuid.UUID) (*entity.Credential, error)

	// Create persists the credential for a freshly provisioned account.
	Create(ctx context.Context, credential *entity.Credential) error

	// RecordFailedAttempt increments the failed-attempt counter from its
	// expected current value and, when lockUntil is non-nil, arms the
	// lockout in the same conditional update. Returns ErrStaleFailureCount
	// when the stored counter no longer equals expected.
	RecordFailedAttempt(ctx context.Context, accountID uuid.UUID, expected int, lockUntil *time.Time) error

	// ResetFailures clears the failed-attempt counter and lockout expiry
	// and stamps the successful login time.
	ResetFailures(ctx context.Context, accountID uuid.UUID, loginAt time.Time) error

	// UpdatePassword replaces the password hash, clears the counter and
	// lockout, and records the change time so older reset tokens die.
	UpdatePassword(ctx context.Context, accountID uuid.UUID, passwordHash string, changedAt time.Time) error
}
