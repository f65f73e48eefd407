package repository

import (
	"context"
	"errors"
	"time"

	"adaptiv/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrVitalNotFound is returned when an account has no readings.
var ErrVitalNotFound = errors.New("vital sign reading not found")

// VitalRepository defines operations for vital-sign telemetry persistence.
type VitalRepository interface {
	// Create persists one reading.
	Create(ctx context.Context, vital *entity.VitalSign) error

	// FindLatest returns the most recent reading for an account.
	FindLatest(ctx context.Context, accountID uuid.UUID) (*entity.VitalSign, error)

	// FindRange returns readings within [from, to] ordered newest first,
	// with offset/limit pagination, plus the total count for the range.
	// A non-positive limit disables pagination and returns the full range.
	FindRange(ctx context.Context, accountID uuid.UUID, from, to time.Time, offset, limit int) ([]*entity.VitalSign, int64, error)
}
