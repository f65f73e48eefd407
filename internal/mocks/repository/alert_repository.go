package repository

import (
	"context"
	"time"

	"adaptiv/internal/domain/entity"
	"adaptiv/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// AlertRepository is a mock implementation of repository.AlertRepository.
type AlertRepository struct {
	mock.Mock
}

func (m *AlertRepository) Create(ctx context.Context, alert *entity.Alert) error {
	args := m.Called(ctx, alert)

	return args.Error(0)
}

func (m *AlertRepository) FindActiveSince(ctx context.Context, accountID uuid.UUID, alertType entity.AlertType, since time.Time) (*entity.Alert, error) {
	args := m.Called(ctx, accountID, alertType, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Alert), args.Error(1)
}

func (m *AlertRepository) Supersede(ctx context.Context, alertID uuid.UUID, trigger float64, message string, firedAt time.Time) error {
	args := m.Called(ctx, alertID, trigger, message, firedAt)

	return args.Error(0)
}

func (m *AlertRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Alert, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Alert), args.Error(1)
}

func (m *AlertRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, filter repository.AlertListFilter) ([]*entity.Alert, int64, error) {
	args := m.Called(ctx, accountID, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}

	return args.Get(0).([]*entity.Alert), args.Get(1).(int64), args.Error(2)
}

func (m *AlertRepository) Update(ctx context.Context, alert *entity.Alert) error {
	args := m.Called(ctx, alert)

	return args.Error(0)
}
