// Package usecase contains hand-maintained testify mocks for the usecase
// interfaces.
package usecase

import (
	"context"
	"time"

	"adaptiv/internal/domain/entity"
	"adaptiv/internal/domain/guard"
	"adaptiv/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// VitalUsecase is a mock implementation of usecase.VitalUsecase.
type VitalUsecase struct {
	mock.Mock
}

func (m *VitalUsecase) Submit(ctx context.Context, actor guard.Identity, input *usecase.SubmitVitalInput) (*usecase.SubmitVitalOutput, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*usecase.SubmitVitalOutput), args.Error(1)
}

func (m *VitalUsecase) SubmitBatch(ctx context.Context, actor guard.Identity, inputs []*usecase.SubmitVitalInput) (*usecase.SubmitBatchOutput, error) {
	args := m.Called(ctx, actor, inputs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*usecase.SubmitBatchOutput), args.Error(1)
}

func (m *VitalUsecase) Latest(ctx context.Context, actor guard.Identity, patientID uuid.UUID) (*entity.VitalSign, error) {
	args := m.Called(ctx, actor, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.VitalSign), args.Error(1)
}

func (m *VitalUsecase) History(ctx context.Context, actor guard.Identity, input *usecase.VitalsHistoryInput) (*usecase.VitalsHistoryOutput, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*usecase.VitalsHistoryOutput), args.Error(1)
}

func (m *VitalUsecase) Summary(ctx context.Context, actor guard.Identity, patientID uuid.UUID, from, to time.Time) (*entity.VitalsSummary, error) {
	args := m.Called(ctx, actor, patientID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.VitalsSummary), args.Error(1)
}
