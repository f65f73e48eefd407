package guard

import (
	"testing"

	"adaptiv/internal/domain/entity"
	domainerrors "adaptiv/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func identity(role entity.Role) Identity {
	return Identity{AccountID: uuid.New(), Role: role}
}

func TestRequireClinician(t *testing.T) {
	assert.NoError(t, RequireClinician(identity(entity.RoleClinician)))

	// Admin is rejected with its own error code, before the generic role
	// check. Admin privilege does not include clinical access.
	err := RequireClinician(identity(entity.RoleAdmin))
	assert.ErrorIs(t, err, domainerrors.ErrAdminExcluded)

	err = RequireClinician(identity(entity.RolePatient))
	assert.ErrorIs(t, err, domainerrors.ErrRoleForbidden)
}

func TestRequireAdmin(t *testing.T) {
	assert.NoError(t, RequireAdmin(identity(entity.RoleAdmin)))
	assert.ErrorIs(t, RequireAdmin(identity(entity.RoleClinician)), domainerrors.ErrRoleForbidden)
	assert.ErrorIs(t, RequireAdmin(identity(entity.RolePatient)), domainerrors.ErrRoleForbidden)
}

func TestRequirePatient(t *testing.T) {
	assert.NoError(t, RequirePatient(identity(entity.RolePatient)))
	assert.ErrorIs(t, RequirePatient(identity(entity.RoleClinician)), domainerrors.ErrRoleForbidden)
	assert.ErrorIs(t, RequirePatient(identity(entity.RoleAdmin)), domainerrors.ErrRoleForbidden)
}

func TestAnyAuthenticated(t *testing.T) {
	assert.NoError(t, AnyAuthenticated(identity(entity.RolePatient)))
	assert.NoError(t, AnyAuthenticated(identity(entity.RoleAdmin)))
	assert.ErrorIs(t, AnyAuthenticated(Identity{AccountID: uuid.New(), Role: "ghost"}), domainerrors.ErrTokenInvalid)
}

func TestIsSelf(t *testing.T) {
	id := identity(entity.RolePatient)
	assert.True(t, id.IsSelf(id.AccountID))
	assert.False(t, id.IsSelf(uuid.New()))
}

func TestChain(t *testing.T) {
	chained := Chain(AnyAuthenticated, RequireClinician)

	assert.NoError(t, chained(identity(entity.RoleClinician)))
	assert.ErrorIs(t, chained(identity(entity.RoleAdmin)), domainerrors.ErrAdminExcluded)
}
