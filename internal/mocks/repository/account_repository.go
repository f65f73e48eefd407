// Package repository provides hand-written testify mocks for the domain
// repository interfaces.
package repository

import (
	"context"

	"adaptiv/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// AccountRepository is a mock implementation of repository.AccountRepository.
type AccountRepository struct {
	mock.Mock
}

func (m *AccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Account), args.Error(1)
}

func (m *AccountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Account), args.Error(1)
}

func (m *AccountRepository) Create(ctx context.Context, account *entity.Account) error {
	args := m.Called(ctx, account)

	return args.Error(0)
}

func (m *AccountRepository) Update(ctx context.Context, account *entity.Account) error {
	args := m.Called(ctx, account)

	return args.Error(0)
}

func (m *AccountRepository) UpdateConsent(ctx context.Context, accountID uuid.UUID, expected entity.ShareState, consent entity.ConsentRecord) error {
	args := m.Called(ctx, accountID, expected, consent)

	return args.Error(0)
}

func (m *AccountRepository) ListPendingConsent(ctx context.Context) ([]*entity.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Account), args.Error(1)
}
