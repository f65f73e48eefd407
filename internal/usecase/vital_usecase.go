package usecase

import (
	"context"
	"time"

	"adaptiv/internal/domain/entity"
	"adaptiv/internal/domain/guard"

	"github.com/google/uuid"
)

// MaxBatchSize caps the number of readings accepted in a single batch
// submission.
const MaxBatchSize = 1000

// --- Input DTOs ---

// SubmitVitalInput is one telemetry reading from a wearable.
type SubmitVitalInput struct {
	HeartRate   int
	SpO2        *float64
	SystolicBP  *int
	DiastolicBP *int
	DeviceID    string
	RecordedAt  time.Time
}

// VitalsHistoryInput narrows a history query.
type VitalsHistoryInput struct {
	PatientID uuid.UUID
	From      time.Time
	To        time.Time
	Offset    int
	Limit     int
}

// --- Output DTOs ---

// SubmitVitalOutput returns the stored reading and any alerts it fired.
type SubmitVitalOutput struct {
	Reading *entity.VitalSign
	Alerts  []*entity.Alert
}

// SubmitBatchOutput returns per-reading results of an atomic batch submit.
type SubmitBatchOutput struct {
	Readings []*entity.VitalSign
	Alerts   []*entity.Alert
}

// VitalsHistoryOutput returns a page of readings plus the total in range.
type VitalsHistoryOutput struct {
	Readings []*entity.VitalSign
	Total    int64
}

// VitalUsecase defines the interface for vital-sign telemetry operations.
//
// Reads are governed by self-access supremacy and the consent gate: a
// patient always sees their own data regardless of consent state, a
// clinician only while the patient's share state permits it, and an admin
// never sees clinical data at all.
type VitalUsecase interface {
	// Submit stores one reading and evaluates alert thresholds. Reading
	// and alerts commit in one transaction: if alert persistence fails,
	// the reading is rolled back rather than silently losing the alarm.
	Submit(ctx context.Context, actor guard.Identity, input *SubmitVitalInput) (*SubmitVitalOutput, error)

	// SubmitBatch stores up to MaxBatchSize readings atomically. One
	// implausible reading rejects the whole batch.
	SubmitBatch(ctx context.Context, actor guard.Identity, inputs []*SubmitVitalInput) (*SubmitBatchOutput, error)

	// Latest returns the most recent reading for the patient.
	Latest(ctx context.Context, actor guard.Identity, patientID uuid.UUID) (*entity.VitalSign, error)

	// History returns readings in a time range, newest first.
	History(ctx context.Context, actor guard.Identity, input *VitalsHistoryInput) (*VitalsHistoryOutput, error)

	// Summary aggregates readings over a time range for dashboards.
	Summary(ctx context.Context, actor guard.Identity, patientID uuid.UUID, from, to time.Time) (*entity.VitalsSummary, error)
}
