package repository

import (
	"context"
	"time"

	"adaptiv/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// CredentialRepository is a mock implementation of repository.CredentialRepository.
type CredentialRepository struct {
	mock.Mock
}

func (m *CredentialRepository) FindByAccountID(ctx context.Context, accountID uuid.UUID) (*entity.Credential, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Credential), args.Error(1)
}

func (m *CredentialRepository) Create(ctx context.Context, credential *entity.Credential) error {
	args := m.Called(ctx, credential)

	return args.Error(0)
}

func (m *CredentialRepository) RecordFailedAttempt(ctx context.Context, accountID uuid.UUID, expected int, lockUntil *time.Time) error {
	args := m.Called(ctx, accountID, expected, lockUntil)

	return args.Error(0)
}

func (m *CredentialRepository) ResetFailures(ctx context.Context, accountID uuid.UUID, loginAt time.Time) error {
	args := m.Called(ctx, accountID, loginAt)

	return args.Error(0)
}

func (m *CredentialRepository) UpdatePassword(ctx context.Context, accountID uuid.UUID, passwordHash string, changedAt time.Time) error {
	args := m.Called(ctx, accountID, passwordHash, changedAt)

	return args.Error(0)
}
