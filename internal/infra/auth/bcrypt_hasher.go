// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"adaptiv/config"
	domainerrors "adaptiv/internal/domain/errors"
	"adaptiv/internal/domain/service"
)

const defaultBcryptCost = 12

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost     int
	strength *config.PasswordStrengthConfig
	// dummyHash is a hash of a random throwaway string, compared against on
	// the unknown-email path so its latency matches a real check.
	dummyHash string
}

// NewBcryptHasher is the constructor for bcryptHasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewBcryptHasher(cfg *config.Config) (service.PasswordHasher, error) {
	cost := defaultBcryptCost
	if cfg.Auth != nil && cfg.Auth.BcryptCost >= bcrypt.MinCost && cfg.Auth.BcryptCost <= bcrypt.MaxCost {
		cost = cfg.Auth.BcryptCost
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("timing-sentinel-not-a-password"), cost)
	if err != nil {
		return nil, err
	}

	return &bcryptHasher{
		cost:      cost,
		strength:  cfg.PasswordStrength,
		dummyHash: string(dummy),
	}, nil
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt automatically handles salt generation.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)

	return string(bytes), err
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	// err is nil if the password and hash match.
	return err == nil
}

// DummyCheck burns one bcrypt comparison against the sentinel hash. The
// result is discarded; only the elapsed time matters.
func (h *bcryptHasher) DummyCheck(password string) {
	_ = bcrypt.CompareHashAndPassword([]byte(h.dummyHash), []byte(password))
}

// ValidatePasswordStrength rejects passwords that fail the configured policy.
func (h *bcryptHasher) ValidatePasswordStrength(password string) error {
	policy := h.strength
	if policy == nil {
		policy = &config.PasswordStrengthConfig{MinLength: 8, MaxLength: 72}
	}

	if len(password) < policy.MinLength {
		return domainerrors.ErrValidationFailed.WithDetails("password is too short")
	}
	if policy.MaxLength > 0 && len(password) > policy.MaxLength {
		return domainerrors.ErrValidationFailed.WithDetails("password is too long")
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasNumber = true
		case strings.ContainsRune("!@#$%^&*()-_=+[]{};:'\",.<>/?\\|`~", r):
			hasSpecial = true
		}
	}

	if policy.RequireUppercase && !hasUpper {
		return domainerrors.ErrValidationFailed.WithDetails("password needs an uppercase letter")
	}
	if policy.RequireLowercase && !hasLower {
		return domainerrors.ErrValidationFailed.WithDetails("password needs a lowercase letter")
	}
	if policy.RequireNumbers && !hasNumber {
		return domainerrors.ErrValidationFailed.WithDetails("password needs a digit")
	}
	if policy.RequireSpecial && !hasSpecial {
		return domainerrors.ErrValidationFailed.WithDetails("password needs a special character")
	}

	return nil
}
