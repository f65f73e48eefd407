// Package guard implements the role-based authorization predicates.
// Each guard is a pure function over the authenticated identity; endpoints
// chain guards explicitly instead of resolving permissions dynamically.
// Consent is a separate dimension checked by the consent engine after the
// role guard passes, so "wrong role" and "patient revoked access" remain
// distinguishable failures.
package guard

import (
	domainerrors "adaptiv/internal/domain/errors"
	"adaptiv/internal/domain/entity"

	"github.com/google/uuid"
)

// Identity is the authenticated caller as established by token validation.
// The middleware guarantees the underlying account exists and is active
// before an Identity is ever constructed.
type Identity struct {
	AccountID uuid.UUID
	Role      entity.Role
}

// IsSelf reports whether the identity refers to the given subject account.
// Self-access is always permitted regardless of role or consent; consent
// only gates clinician access to someone else's records.
func (id Identity) IsSelf(subject uuid.UUID) bool {
	return id.AccountID == subject
}

// Guard decides whether an operation is authorized for an identity.
// A nil return means allowed.
type Guard func(ident Identity) error

// AnyAuthenticated admits every validated identity. Used for self-service
// operations where the subject is always the caller.
func AnyAuthenticated(ident Identity) error {
	if !ident.Role.IsValid() {
		return domainerrors.ErrTokenInvalid
	}

	return nil
}

// RequireAdmin admits only administrative accounts. Used exclusively for
// provisioning, deactivation and admin-driven password resets.
func RequireAdmin(ident Identity) error {
	if ident.Role != entity.RoleAdmin {
		return domainerrors.ErrRoleForbidden
	}

	return nil
}

// RequireClinician admits only clinician accounts. Admin is rejected first
// with a dedicated error: admin privilege is disjoint from clinical access,
// not above it, and the distinct error code keeps that auditable.
func RequireClinician(ident Identity) error {
	if ident.Role == entity.RoleAdmin {
		return domainerrors.ErrAdminExcluded
	}
	if ident.Role != entity.RoleClinician {
		return domainerrors.ErrRoleForbidden
	}

	return nil
}

// RequirePatient admits only patient accounts. The consent workflow is
// patient-initiated, so its mutating operations hang off this guard.
func RequirePatient(ident Identity) error {
	if ident.Role != entity.RolePatient {
		return domainerrors.ErrRoleForbidden
	}

	return nil
}

// Chain combines guards left to right, returning the first denial.
func Chain(guards ...Guard) Guard {
	return func(ident Identity) error {
		for _, g := range guards {
			if err := g(ident); err != nil {
				return err
			}
		}

		return nil
	}
}
