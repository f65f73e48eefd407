// Package service defines interfaces for core, stateless domain logic.
package service

import (
	"time"

	"adaptiv/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType tags what a token may be used for. A token minted for one
// purpose must never be accepted for another: login tokens cannot confirm a
// password reset and reset tokens cannot authenticate requests.
type TokenType string

const (
	TokenTypeAccess        TokenType = "access"
	TokenTypeRefresh       TokenType = "refresh"
	TokenTypePasswordReset TokenType = "password_reset"
)

// Claims are the custom claims carried by every token: identity, role and
// the type tag. Validity is fully determined by signature and expiry; there
// is no server-side session store, so revocation is wait-for-expiry only.
type Claims struct {
	AccountID uuid.UUID
	Role      entity.Role
	Type      TokenType
	jwt.RegisteredClaims
}

// TokenPair is the result of a successful authentication or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int // Access token lifetime in seconds, for client display.
}

// TokenService defines the interface for generating and validating signed
// session tokens. This abstracts the token format from the use cases.
type TokenService interface {
	// GeneratePair creates a short-lived access token and a long-lived
	// refresh token for the account.
	GeneratePair(accountID uuid.UUID, role entity.Role) (*TokenPair, error)

	// GenerateResetToken creates a single-purpose password-reset token.
	GenerateResetToken(accountID uuid.UUID) (string, error)

	// Validate checks signature and expiry and requires the token's type
	// claim to equal want.
	Validate(tokenString string, want TokenType) (*Claims, error)

	// AccessTokenDuration returns the configured access token lifetime.
	AccessTokenDuration() time.Duration
}
