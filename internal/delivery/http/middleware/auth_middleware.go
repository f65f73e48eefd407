package middleware

import (
	"strings"

	deliverycontext "adaptiv/internal/delivery/context"
	"adaptiv/internal/delivery/http/response"
	domainerrors "adaptiv/internal/domain/errors"
	"adaptiv/internal/domain/guard"
	"adaptiv/internal/domain/repository"
	"adaptiv/internal/domain/service"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthMiddleware validates the bearer access token and establishes the
// caller's identity for downstream handlers.
type AuthMiddleware struct {
	tokenSvc    service.TokenService
	accountRepo repository.AccountRepository
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, accountRepo repository.AccountRepository) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, accountRepo: accountRepo}
}

// Authenticate validates the JWT access token and re-checks the account
// against the store, so a deactivated account loses access immediately
// instead of riding out its token's lifetime.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "TOKEN_MISSING", "Authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return response.Unauthorized(c, "TOKEN_MISSING", "Invalid token format, must be Bearer token")
		}

		claims, err := m.tokenSvc.Validate(tokenString, service.TokenTypeAccess)
		if err != nil {
			return domainerrors.ErrTokenInvalid
		}

		account, err := m.accountRepo.FindByID(c.Request().Context(), claims.AccountID)
		if errors.Is(err, repository.ErrAccountNotFound) {
			return domainerrors.ErrTokenInvalid
		}
		if err != nil {
			return errors.Wrap(err, "failed to load account during authentication")
		}
		if !account.IsActive {
			return domainerrors.ErrAccountInactive
		}

		deliverycontext.SetIdentity(c, guard.Identity{
			AccountID: account.ID,
			Role:      account.Role,
		})

		return next(c)
	}
}
