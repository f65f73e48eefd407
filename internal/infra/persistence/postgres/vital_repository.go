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

// vitalRepository implements the domain.VitalRepository interface using GORM.
type vitalRepository struct {
	db *gorm.DB
}

// NewVitalRepository is the constructor for vitalRepository.
func NewVitalRepository(db *gorm.DB) repository.VitalRepository {
	return &vitalRepository{db: db}
}

// Create persists one reading.
func (repo *vitalRepository) Create(ctx context.Context, vital *entity.VitalSign) error {
	vitalM := fromVitalDomain(vital)

	if err := repo.db.WithContext(ctx).Create(vitalM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrNotFound.WrapMessage("reading references unknown account")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create vital sign reading")
	}

	vital.ID = vitalM.ID
	vital.CreatedAt = vitalM.CreatedAt

	return nil
}

// FindLatest returns the most recent reading for an account.
func (repo *vitalRepository) FindLatest(ctx context.Context, accountID uuid.UUID) (*entity.VitalSign, error) {
	var vitalM model.VitalSignModel
	err := repo.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("recorded_at DESC").
		First(&vitalM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrVitalNotFound
		}

		return nil, errors.Wrap(err, "failed to find latest reading")
	}

	return toVitalDomain(&vitalM), nil
}

// FindRange returns readings within [from, to] newest first with pagination,
// plus the total count for the range.
func (repo *vitalRepository) FindRange(ctx context.Context, accountID uuid.UUID, from, to time.Time, offset, limit int) ([]*entity.VitalSign, int64, error) {
	base := repo.db.WithContext(ctx).
		Model(&model.VitalSignModel{}).
		Where("account_id = ? AND recorded_at >= ? AND recorded_at <= ?", accountID, from, to)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count readings in range")
	}

	query := base.Order("recorded_at DESC")
	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}

	var vitalMs []model.VitalSignModel
	if err := query.Find(&vitalMs).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list readings in range")
	}

	vitals := make([]*entity.VitalSign, 0, len(vitalMs))
	for i := range vitalMs {
		vitals = append(vitals, toVitalDomain(&vitalMs[i]))
	}

	return vitals, total, nil
}

// toVitalDomain converts a GORM VitalSignModel to a domain VitalSign entity.
func toVitalDomain(data *model.VitalSignModel) *entity.VitalSign {
	if data == nil {
		return nil
	}

	return &entity.VitalSign{
		ID:          data.ID,
		AccountID:   data.AccountID,
		HeartRate:   data.HeartRate,
		SpO2:        data.SpO2,
		SystolicBP:  data.SystolicBP,
		DiastolicBP: data.DiastolicBP,
		DeviceID:    data.DeviceID,
		RecordedAt:  data.RecordedAt,
		CreatedAt:   data.CreatedAt,
	}
}

// fromVitalDomain converts a domain VitalSign entity to a GORM VitalSignModel.
func fromVitalDomain(data *entity.VitalSign) *model.VitalSignModel {
	if data == nil {
		return nil
	}

	return &model.VitalSignModel{
		ID:          data.ID,
		AccountID:   data.AccountID,
		HeartRate:   data.HeartRate,
		SpO2:        data.SpO2,
		SystolicBP:  data.SystolicBP,
		DiastolicBP: data.DiastolicBP,
		DeviceID:    data.DeviceID,
		RecordedAt:  data.RecordedAt,
	}
}
