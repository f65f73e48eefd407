// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"adaptiv/config"
	"adaptiv/internal/domain/entity"
	"adaptiv/internal/domain/service"
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
// Each token purpose is signed with its own secret, so an access secret leak
// cannot be parlayed into forged reset tokens.
type jwtService struct {
	accessSecret  string
	refreshSecret string
	resetSecret   string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	resetTTL      time.Duration
}

// jwtClaims is the wire shape of the custom claims.
type jwtClaims struct {
	Role string `json:"role"`
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" || cfg.SecretKey.Refresh == "" || cfg.SecretKey.Reset == "" {
		return nil, errors.New("jwt secrets must be provided")
	}

	return &jwtService{
		accessSecret:  cfg.SecretKey.Access,
		refreshSecret: cfg.SecretKey.Refresh,
		resetSecret:   cfg.SecretKey.Reset,
		accessTTL:     cfg.Auth.AccessTokenTTL,
		refreshTTL:    cfg.Auth.RefreshTokenTTL,
		resetTTL:      cfg.Auth.ResetTokenTTL,
	}, nil
}

// GeneratePair creates an access token and a refresh token for a given account.
func (s *jwtService) GeneratePair(accountID uuid.UUID, role entity.Role) (*service.TokenPair, error) {
	accessToken, err := s.generateToken(accountID, role, s.accessTTL, s.accessSecret, service.TokenTypeAccess)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateToken(accountID, role, s.refreshTTL, s.refreshSecret, service.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	return &service.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.accessTTL.Seconds()),
	}, nil
}

// GenerateResetToken creates a single-purpose password-reset token.
func (s *jwtService) GenerateResetToken(accountID uuid.UUID) (string, error) {
	return s.generateToken(accountID, "", s.resetTTL, s.resetSecret, service.TokenTypePasswordReset)
}

// Validate checks signature and expiry, and requires the embedded type claim
// to match the expected purpose. A valid refresh token presented where an
// access token is required is rejected, and vice versa.
func (s *jwtService) Validate(tokenString string, want service.TokenType) (*service.Claims, error) {
	secret, err := s.secretFor(want)
	if err != nil {
		return nil, err
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*jwtClaims)
	if !ok || !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Type != string(want) {
		return nil, jwt.ErrTokenInvalidClaims
	}

	accountID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, jwt.ErrTokenInvalidSubject
	}

	return &service.Claims{
		AccountID:        accountID,
		Role:             entity.Role(claims.Role),
		Type:             service.TokenType(claims.Type),
		RegisteredClaims: claims.RegisteredClaims,
	}, nil
}

// AccessTokenDuration returns the configured access token lifetime.
func (s *jwtService) AccessTokenDuration() time.Duration {
	return s.accessTTL
}

func (s *jwtService) secretFor(tokenType service.TokenType) (string, error) {
	switch tokenType {
	case service.TokenTypeAccess:
		return s.accessSecret, nil
	case service.TokenTypeRefresh:
		return s.refreshSecret, nil
	case service.TokenTypePasswordReset:
		return s.resetSecret, nil
	default:
		return "", errors.New("unknown token type")
	}
}

// generateToken is a private helper to create a JWT with specific claims.
func (s *jwtService) generateToken(accountID uuid.UUID, role entity.Role, ttl time.Duration, secret string, tokenType service.TokenType) (string, error) {
	now := time.Now()
	claims := jwtClaims{
		Role: string(role),
		Type: string(tokenType),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secret))
}
