package postgres

import (
	"context"
	"time"

	"adaptiv/internal/domain/entity"
	domainerrors "adaptiv/internal/domain/errors"
	"adaptiv/internal/domain/repository"
	"adaptiv/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// alertRepository implements the domain.AlertRepository interface using GORM.
type alertRepository struct {
	db *gorm.DB
}

// NewAlertRepository is the constructor for alertRepository.
func NewAlertRepository(db *gorm.DB) repository.AlertRepository {
	return &alertRepository{db: db}
}

// Create persists a new alert record.
func (repo *alertRepository) Create(ctx context.Context, alert *entity.Alert) error {
	alertM := fromAlertDomain(alert)

	if err := repo.db.WithContext(ctx).Create(alertM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrNotFound.WrapMessage("alert references unknown account")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create alert")
	}

	alert.ID = alertM.ID
	alert.CreatedAt = alertM.CreatedAt

	return nil
}

// FindActiveSince returns the newest unresolved alert of the given type for
// the account created at or after since. Backs the deduplication window.
func (repo *alertRepository) FindActiveSince(ctx context.Context, accountID uuid.UUID, alertType entity.AlertType, since time.Time) (*entity.Alert, error) {
	var alertM model.AlertModel
	err := repo.db.WithContext(ctx).
		Where("account_id = ? AND type = ? AND resolved = ? AND created_at >= ?",
			accountID, string(alertType), false, since).
		Order("created_at DESC").
		First(&alertM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAlertNotFound
		}

		return nil, errors.Wrap(err, "failed to find active alert")
	}

	return toAlertDomain(&alertM), nil
}

// Supersede replaces the trigger data of an existing active alert with the
// values from a newer firing. The dedup policy keeps one active record per
// window; the newest observation wins.
func (repo *alertRepository) Supersede(ctx context.Context, alertID uuid.UUID, trigger float64, message string, firedAt time.Time) error {
	result := repo.db.WithContext(ctx).
		Model(&model.AlertModel{}).
		Where("id = ? AND resolved = ?", alertID, false).
		Updates(map[string]any{
			"trigger_value": trigger,
			"message":       message,
			"updated_at":    firedAt,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to supersede alert")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAlertNotFound
	}

	return nil
}

// FindByID retrieves a single alert.
func (repo *alertRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Alert, error) {
	var alertM model.AlertModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&alertM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAlertNotFound
		}

		return nil, errors.Wrap(err, "failed to find alert by id")
	}

	return toAlertDomain(&alertM), nil
}

// ListByAccount returns alerts for an account newest first along with the
// total count for the filter.
func (repo *alertRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, filter repository.AlertListFilter) ([]*entity.Alert, int64, error) {
	base := repo.db.WithContext(ctx).
		Model(&model.AlertModel{}).
		Where("account_id = ?", accountID)
	if filter.Acknowledged != nil {
		base = base.Where("acknowledged = ?", *filter.Acknowledged)
	}
	if filter.Severity != nil {
		base = base.Where("severity = ?", string(*filter.Severity))
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count alerts")
	}

	var alertMs []model.AlertModel
	err := base.
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&alertMs).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list alerts")
	}

	alerts := make([]*entity.Alert, 0, len(alertMs))
	for i := range alertMs {
		alerts = append(alerts, toAlertDomain(&alertMs[i]))
	}

	return alerts, total, nil
}

// Update persists acknowledgement/resolution changes.
func (repo *alertRepository) Update(ctx context.Context, alert *entity.Alert) error {
	result := repo.db.WithContext(ctx).
		Model(&model.AlertModel{}).
		Where("id = ?", alert.ID).
		Updates(map[string]any{
			"acknowledged":    alert.Acknowledged,
			"acknowledged_at": alert.AcknowledgedAt,
			"acknowledged_by": alert.AcknowledgedBy,
			"resolved":        alert.Resolved,
			"resolved_at":     alert.ResolvedAt,
			"updated_at":      time.Now(),
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update alert")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAlertNotFound
	}

	return nil
}

// toAlertDomain converts a GORM AlertModel to a domain Alert entity.
func toAlertDomain(data *model.AlertModel) *entity.Alert {
	if data == nil {
		return nil
	}

	return &entity.Alert{
		ID:             data.ID,
		AccountID:      data.AccountID,
		Type:           entity.AlertType(data.Type),
		Severity:       entity.Severity(data.Severity),
		Title:          data.Title,
		Message:        data.Message,
		ActionRequired: data.ActionRequired,
		TriggerValue:   data.TriggerValue,
		ThresholdValue: data.ThresholdValue,
		Acknowledged:   data.Acknowledged,
		AcknowledgedAt: data.AcknowledgedAt,
		AcknowledgedBy: data.AcknowledgedBy,
		Resolved:       data.Resolved,
		ResolvedAt:     data.ResolvedAt,
		CreatedAt:      data.CreatedAt,
	}
}

// fromAlertDomain converts a domain Alert entity to a GORM AlertModel.
func fromAlertDomain(data *entity.Alert) *model.AlertModel {
	if data == nil {
		return nil
	}

	return &model.AlertModel{
		ID:             data.ID,
		AccountID:      data.AccountID,
		Type:           string(data.Type),
		Severity:       string(data.Severity),
		Title:          data.Title,
		Message:        data.Message,
		ActionRequired: data.ActionRequired,
		TriggerValue:   data.TriggerValue,
		ThresholdValue: data.ThresholdValue,
		Acknowledged:   data.Acknowledged,
		AcknowledgedAt: data.AcknowledgedAt,
		AcknowledgedBy: data.AcknowledgedBy,
		Resolved:       data.Resolved,
		ResolvedAt:     data.ResolvedAt,
	}
}
