package repository

import (
	"context"
	"time"

	"adaptiv/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// VitalRepository is a mock implementation of repository.VitalRepository.
type VitalRepository struct {
	mock.Mock
}

func (m *VitalRepository) Create(ctx context.Context, vital *entity.VitalSign) error {
	args := m.Called(ctx, vital)

	return args.Error(0)
}

func (m *VitalRepository) FindLatest(ctx context.Context, accountID uuid.UUID) (*entity.VitalSign, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.VitalSign), args.Error(1)
}

func (m *VitalRepository) FindRange(ctx context.Context, accountID uuid.UUID, from, to time.Time, offset, limit int) ([]*entity.VitalSign, int64, error) {
	args := m.Called(ctx, accountID, from, to, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}

	return args.Get(0).([]*entity.VitalSign), args.Get(1).(int64), args.Error(2)
}
