package usecase

import (
	"context"

	"adaptiv/internal/domain/entity"
	"adaptiv/internal/domain/guard"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// ListAlertsInput narrows an alert listing.
type ListAlertsInput struct {
	PatientID    uuid.UUID
	Acknowledged *bool
	Severity     *entity.Severity
	Offset       int
	Limit        int
}

// --- Output DTOs ---

// ListAlertsOutput returns a page of alerts plus the total for the filter.
type ListAlertsOutput struct {
	Alerts []*entity.Alert
	Total  int64
}

// AlertUsecase defines the interface for alert management operations.
// Alert reads follow the same access rules as the vitals they derive from.
type AlertUsecase interface {
	// List returns alerts for a patient, newest first.
	List(ctx context.Context, actor guard.Identity, input *ListAlertsInput) (*ListAlertsOutput, error)

	// Acknowledge marks an alert as seen. The patient themselves or a
	// clinician with access may acknowledge.
	Acknowledge(ctx context.Context, actor guard.Identity, alertID uuid.UUID) (*entity.Alert, error)

	// Resolve closes an alert. Clinician only.
	Resolve(ctx context.Context, actor guard.Identity, alertID uuid.UUID) (*entity.Alert, error)
}
