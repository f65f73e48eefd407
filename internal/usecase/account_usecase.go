package usecase

import (
	"context"

	"adaptiv/internal/domain/entity"
	"adaptiv/internal/domain/guard"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// ProvisionAccountInput defines the data for admin-driven account
// provisioning.
type ProvisionAccountInput struct {
	Email    string
	FullName string
	Password string
	Role     entity.Role
}

// --- Output DTOs ---

// AccountOutput returns an account's public information.
type AccountOutput struct {
	Account *entity.Account
}

// AccountUsecase defines the interface for account management operations.
type AccountUsecase interface {
	// ProvisionAccount creates an account of any role. Admin only; there
	// is no public self-registration.
	ProvisionAccount(ctx context.Context, actor guard.Identity, input *ProvisionAccountInput) (*AccountOutput, error)

	// DeactivateAccount soft-deactivates an account, keeping the record
	// for audit. Admin only; an admin cannot deactivate themselves.
	DeactivateAccount(ctx context.Context, actor guard.Identity, accountID uuid.UUID) error

	// GetProfile returns the caller's own account.
	GetProfile(ctx context.Context, actor guard.Identity) (*AccountOutput, error)
}
