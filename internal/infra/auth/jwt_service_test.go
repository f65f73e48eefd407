package auth

import (
	"testing"
	"time"

	"adaptiv/config"
	"adaptiv/internal/domain/entity"
	"adaptiv/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Access = "test_access_secret_key_very_long_for_testing"
	cfg.SecretKey.Refresh = "test_refresh_secret_key_very_long_for_testing"
	cfg.SecretKey.Reset = "test_reset_secret_key_very_long_for_testing"
	cfg.Auth = &config.AuthConfig{
		AccessTokenTTL:  30 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		ResetTokenTTL:   time.Hour,
	}

	return cfg
}

func TestJWTService_GenerateAndValidatePair(t *testing.T) {
	jwtService, err := NewJWTService(testConfig())
	require.NoError(t, err)

	accountID := uuid.New()

	pair, err := jwtService.GeneratePair(accountID, entity.RoleClinician)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, int((30 * time.Minute).Seconds()), pair.ExpiresIn)

	accessClaims, err := jwtService.Validate(pair.AccessToken, service.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, accountID, accessClaims.AccountID)
	assert.Equal(t, entity.RoleClinician, accessClaims.Role)
	assert.Equal(t, service.TokenTypeAccess, accessClaims.Type)

	refreshClaims, err := jwtService.Validate(pair.RefreshToken, service.TokenTypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, accountID, refreshClaims.AccountID)
	assert.Equal(t, service.TokenTypeRefresh, refreshClaims.Type)
}

func TestJWTService_TypeConfusionRejected(t *testing.T) {
	jwtService, err := NewJWTService(testConfig())
	require.NoError(t, err)

	pair, err := jwtService.GeneratePair(uuid.New(), entity.RolePatient)
	require.NoError(t, err)

	// A refresh token must not authenticate requests and an access token
	// must not mint new sessions.
	_, err = jwtService.Validate(pair.RefreshToken, service.TokenTypeAccess)
	assert.Error(t, err)

	_, err = jwtService.Validate(pair.AccessToken, service.TokenTypeRefresh)
	assert.Error(t, err)

	_, err = jwtService.Validate(pair.AccessToken, service.TokenTypePasswordReset)
	assert.Error(t, err)
}

func TestJWTService_ResetToken(t *testing.T) {
	jwtService, err := NewJWTService(testConfig())
	require.NoError(t, err)

	accountID := uuid.New()

	token, err := jwtService.GenerateResetToken(accountID)
	require.NoError(t, err)

	claims, err := jwtService.Validate(token, service.TokenTypePasswordReset)
	require.NoError(t, err)
	assert.Equal(t, accountID, claims.AccountID)
	assert.NotNil(t, claims.IssuedAt)

	// Reset tokens must never pass as access tokens.
	_, err = jwtService.Validate(token, service.TokenTypeAccess)
	assert.Error(t, err)
}

func TestJWTService_InvalidToken(t *testing.T) {
	jwtService, err := NewJWTService(testConfig())
	require.NoError(t, err)

	claims, err := jwtService.Validate("clearly-not-a-jwt-token-format", service.TokenTypeAccess)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_EmptySecrets(t *testing.T) {
	cfg := testConfig()
	cfg.SecretKey.Reset = ""

	jwtService, err := NewJWTService(cfg)
	assert.Error(t, err)
	assert.Nil(t, jwtService)
	assert.Contains(t, err.Error(), "jwt secrets must be provided")
}

func TestJWTService_TamperedToken(t *testing.T) {
	jwtService, err := NewJWTService(testConfig())
	require.NoError(t, err)

	pair, err := jwtService.GeneratePair(uuid.New(), entity.RolePatient)
	require.NoError(t, err)

	tampered := pair.AccessToken[:len(pair.AccessToken)-2] + "xx"
	_, err = jwtService.Validate(tampered, service.TokenTypeAccess)
	assert.Error(t, err)
}
