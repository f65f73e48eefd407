// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers
// and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"adaptiv/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrAccountNotFound is returned when no account matches the lookup.
var ErrAccountNotFound = errors.New("account not found")

// ErrStaleConsentState is returned when a consent compare-and-set finds the
// stored state no longer matches the expected one. The caller must fail the
// transition rather than overwrite a concurrent change.
var ErrStaleConsentState = errors.New("consent state changed concurrently")

// AccountRepository defines the standard operations for account persistence.
type AccountRepository interface {
	// FindByID retrieves a single account by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)

	// FindByEmail retrieves a single account by its email address.
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)

	// Create persists a new account.
	Create(ctx context.Context, account *entity.Account) error

	// Update modifies an existing account's profile and status fields.
	// Consent changes go through UpdateConsent instead.
	Update(ctx context.Context, account *entity.Account) error

	// UpdateConsent applies a consent transition as a single-row
	// compare-and-set: the write only succeeds while the stored share
	// state still equals expected. Returns ErrStaleConsentState otherwise.
	UpdateConsent(ctx context.Context, accountID uuid.UUID, expected entity.ShareState, consent entity.ConsentRecord) error

	// ListPendingConsent returns all patient accounts whose disable
	// request awaits clinician review.
	ListPendingConsent(ctx context.Context) ([]*entity.Account, error)
}
