package repository

import (
	"context"
	"errors"
	"time"

	"adaptiv/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrAlertNotFound is returned when no alert matches the lookup.
var ErrAlertNotFound = errors.New("alert not found")

// AlertListFilter narrows ListByAccount results.
type AlertListFilter struct {
	Acknowledged *bool
	Severity     *entity.Severity
	Offset       int
	Limit        int
}

// AlertRepository defines operations for alert record persistence.
// Alert rows are created by the alert engine and the consent workflow only.
type AlertRepository interface {
	// Create persists a new alert record.
	Create(ctx context.Context, alert *entity.Alert) error

	// FindActiveSince returns the newest unresolved alert of the given
	// type for the account created at or after since, or ErrAlertNotFound.
	// Backs the deduplication window.
	FindActiveSince(ctx context.Context, accountID uuid.UUID, alertType entity.AlertType, since time.Time) (*entity.Alert, error)

	// Supersede replaces the trigger data of an existing active alert with
	// the values from the newer firing, keeping one active record per
	// dedup window instead of a growing backlog.
	Supersede(ctx context.Context, alertID uuid.UUID, trigger float64, message string, firedAt time.Time) error

	// FindByID retrieves a single alert.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Alert, error)

	// ListByAccount returns alerts for an account newest first along with
	// the total count for the filter.
	ListByAccount(ctx context.Context, accountID uuid.UUID, filter AlertListFilter) ([]*entity.Alert, int64, error)

	// Update persists acknowledgement/resolution changes.
	Update(ctx context.Context, alert *entity.Alert) error
}
