package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	deliverycontext "adaptiv/internal/delivery/context"
	"adaptiv/internal/domain/entity"
	domainerrors "adaptiv/internal/domain/errors"
	"adaptiv/internal/domain/repository"
	"adaptiv/internal/domain/service"
	mockrepo "adaptiv/internal/mocks/repository"
	mocksvc "adaptiv/internal/mocks/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func authTestContext(header string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func TestAuthenticate_ValidTokenSetsIdentity(t *testing.T) {
	tokenSvc := new(mocksvc.TokenService)
	accountRepo := new(mockrepo.AccountRepository)
	m := NewAuthMiddleware(tokenSvc, accountRepo)

	accountID := uuid.New()
	tokenSvc.On("Validate", "good-token", service.TokenTypeAccess).
		Return(&service.Claims{AccountID: accountID, Role: entity.RoleClinician, Type: service.TokenTypeAccess}, nil)
	accountRepo.On("FindByID", mock.Anything, accountID).
		Return(&entity.Account{ID: accountID, Role: entity.RoleClinician, IsActive: true}, nil)

	c, _ := authTestContext("Bearer good-token")
	var sawIdentity bool
	err := m.Authenticate(func(c echo.Context) error {
		ident, ok := deliverycontext.GetIdentity(c)
		sawIdentity = ok && ident.AccountID == accountID && ident.Role == entity.RoleClinician

		return nil
	})(c)

	require.NoError(t, err)
	assert.True(t, sawIdentity)
}

func TestAuthenticate_MissingHeaderRejected(t *testing.T) {
	m := NewAuthMiddleware(new(mocksvc.TokenService), new(mockrepo.AccountRepository))

	c, rec := authTestContext("")
	err := m.Authenticate(func(c echo.Context) error {
		t.Fatal("next handler must not run")

		return nil
	})(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_InvalidTokenRejected(t *testing.T) {
	tokenSvc := new(mocksvc.TokenService)
	m := NewAuthMiddleware(tokenSvc, new(mockrepo.AccountRepository))

	tokenSvc.On("Validate", "bad-token", service.TokenTypeAccess).
		Return(nil, domainerrors.ErrTokenInvalid)

	c, _ := authTestContext("Bearer bad-token")
	err := m.Authenticate(func(c echo.Context) error { return nil })(c)

	assert.ErrorIs(t, err, domainerrors.ErrTokenInvalid)
}

func TestAuthenticate_DeactivatedAccountRejected(t *testing.T) {
	tokenSvc := new(mocksvc.TokenService)
	accountRepo := new(mockrepo.AccountRepository)
	m := NewAuthMiddleware(tokenSvc, accountRepo)

	accountID := uuid.New()
	tokenSvc.On("Validate", "stale-token", service.TokenTypeAccess).
		Return(&service.Claims{AccountID: accountID, Role: entity.RolePatient, Type: service.TokenTypeAccess}, nil)
	accountRepo.On("FindByID", mock.Anything, accountID).
		Return(&entity.Account{ID: accountID, Role: entity.RolePatient, IsActive: false}, nil)

	c, _ := authTestContext("Bearer stale-token")
	err := m.Authenticate(func(c echo.Context) error { return nil })(c)

	assert.ErrorIs(t, err, domainerrors.ErrAccountInactive)
}

func TestAuthenticate_UnknownAccountRejected(t *testing.T) {
	tokenSvc := new(mocksvc.TokenService)
	accountRepo := new(mockrepo.AccountRepository)
	m := NewAuthMiddleware(tokenSvc, accountRepo)

	accountID := uuid.New()
	tokenSvc.On("Validate", "orphan-token", service.TokenTypeAccess).
		Return(&service.Claims{AccountID: accountID, Role: entity.RolePatient, Type: service.TokenTypeAccess}, nil)
	accountRepo.On("FindByID", mock.Anything, accountID).
		Return(nil, repository.ErrAccountNotFound)

	c, _ := authTestContext("Bearer orphan-token")
	err := m.Authenticate(func(c echo.Context) error { return nil })(c)

	assert.ErrorIs(t, err, domainerrors.ErrTokenInvalid)
}
