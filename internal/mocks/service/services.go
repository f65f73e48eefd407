// Package service provides hand-written testify mocks for the domain
// service interfaces.
package service

import (
	"context"
	"time"

	"adaptiv/internal/domain/entity"
	"adaptiv/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// PasswordHasher is a mock implementation of service.PasswordHasher.
type PasswordHasher struct {
	mock.Mock
}

func (m *PasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *PasswordHasher) Check(password, hash string) bool {
	args := m.Called(password, hash)

	return args.Bool(0)
}

func (m *PasswordHasher) DummyCheck(password string) {
	m.Called(password)
}

func (m *PasswordHasher) ValidatePasswordStrength(password string) error {
	args := m.Called(password)

	return args.Error(0)
}

// TokenService is a mock implementation of service.TokenService.
type TokenService struct {
	mock.Mock
}

func (m *TokenService) GeneratePair(accountID uuid.UUID, role entity.Role) (*service.TokenPair, error) {
	args := m.Called(accountID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*service.TokenPair), args.Error(1)
}

func (m *TokenService) GenerateResetToken(accountID uuid.UUID) (string, error) {
	args := m.Called(accountID)

	return args.String(0), args.Error(1)
}

func (m *TokenService) Validate(tokenString string, want service.TokenType) (*service.Claims, error) {
	args := m.Called(tokenString, want)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*service.Claims), args.Error(1)
}

func (m *TokenService) AccessTokenDuration() time.Duration {
	args := m.Called()

	return args.Get(0).(time.Duration)
}

// ResetMailer is a mock implementation of service.ResetMailer.
type ResetMailer struct {
	mock.Mock
}

func (m *ResetMailer) SendResetToken(ctx context.Context, email, token string) error {
	args := m.Called(ctx, email, token)

	return args.Error(0)
}
