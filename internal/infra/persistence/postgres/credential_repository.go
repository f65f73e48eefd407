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

// credentialRepository implements the domain.CredentialRepository interface using GORM.
type credentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository is the constructor for credentialRepository.
func NewCredentialRepository(db *gorm.DB) repository.CredentialRepository {
	return &credentialRepository{db: db}
}

// FindByAccountID retrieves the credential for an account.
func (repo *credentialRepository) FindByAccountID(ctx context.Context, accountID uuid.UUID) (*entity.Credential, error) {
	var credentialM model.CredentialModel
	err := repo.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		First(&credentialM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCredentialNotFound
		}

		return nil, errors.Wrap(err, "failed to find credential by account id")
	}

	return toCredentialDomain(&credentialM), nil
}

// Create persists the credential for a freshly provisioned account.
func (repo *credentialRepository) Create(ctx context.Context, credential *entity.Credential) error {
	credentialM := fromCredentialDomain(credential)

	if err := repo.db.WithContext(ctx).Create(credentialM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrAccountExists.WrapMessage("credential already exists for account")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "credential references unknown account")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create credential")
	}

	credential.ID = credentialM.ID
	credential.CreatedAt = credentialM.CreatedAt
	credential.UpdatedAt = credentialM.UpdatedAt

	return nil
}

// RecordFailedAttempt increments the failed-attempt counter conditionally.
// The WHERE clause pins the counter value the caller read, so two concurrent
// failed logins cannot both land on the same slot: the loser gets
// ErrStaleFailureCount and must re-read. lockUntil is set in the same
// statement when the increment reaches the lockout limit, making
// count-and-lock a single atomic step.
func (repo *credentialRepository) RecordFailedAttempt(ctx context.Context, accountID uuid.UUID, expected int, lockUntil *time.Time) error {
	updates := map[string]any{
		"failed_attempts": expected + 1,
		"updated_at":      time.Now(),
	}
	if lockUntil != nil {
		updates["locked_until"] = *lockUntil
	}

	result := repo.db.WithContext(ctx).
		Model(&model.CredentialModel{}).
		Where("account_id = ? AND failed_attempts = ?", accountID, expected).
		Updates(updates)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to record failed login attempt")
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := repo.db.WithContext(ctx).
			Model(&model.CredentialModel{}).
			Where("account_id = ?", accountID).
			Count(&count).Error; err != nil {
			return domainerrors.NewDatabaseExecuteError(err, "failed to verify credential existence")
		}
		if count == 0 {
			return repository.ErrCredentialNotFound
		}

		return repository.ErrStaleFailureCount
	}

	return nil
}

// ResetFailures clears the failed-attempt counter and lockout expiry and
// stamps the successful login time.
func (repo *credentialRepository) ResetFailures(ctx context.Context, accountID uuid.UUID, loginAt time.Time) error {
	result := repo.db.WithContext(ctx).
		Model(&model.CredentialModel{}).
		Where("account_id = ?", accountID).
		Updates(map[string]any{
			"failed_attempts": 0,
			"locked_until":    nil,
			"last_login_at":   loginAt,
			"updated_at":      time.Now(),
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to reset login failures")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCredentialNotFound
	}

	return nil
}

// UpdatePassword replaces the password hash and clears counter and lockout.
// The change timestamp also invalidates reset tokens issued before it.
func (repo *credentialRepository) UpdatePassword(ctx context.Context, accountID uuid.UUID, passwordHash string, changedAt time.Time) error {
	result := repo.db.WithContext(ctx).
		Model(&model.CredentialModel{}).
		Where("account_id = ?", accountID).
		Updates(map[string]any{
			"password_hash":       passwordHash,
			"failed_attempts":     0,
			"locked_until":        nil,
			"password_changed_at": changedAt,
			"updated_at":          time.Now(),
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update password")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCredentialNotFound
	}

	return nil
}

// toCredentialDomain converts a GORM CredentialModel to a domain Credential entity.
func toCredentialDomain(data *model.CredentialModel) *entity.Credential {
	if data == nil {
		return nil
	}

	return &entity.Credential{
		ID:                data.ID,
		AccountID:         data.AccountID,
		PasswordHash:      data.PasswordHash,
		FailedAttempts:    data.FailedAttempts,
		LockedUntil:       data.LockedUntil,
		LastLoginAt:       data.LastLoginAt,
		PasswordChangedAt: data.PasswordChangedAt,
		CreatedAt:         data.CreatedAt,
		UpdatedAt:         data.UpdatedAt,
	}
}

// fromCredentialDomain converts a domain Credential entity to a GORM CredentialModel.
func fromCredentialDomain(data *entity.Credential) *model.CredentialModel {
	if data == nil {
		return nil
	}

	return &model.CredentialModel{
		ID:                data.ID,
		AccountID:         data.AccountID,
		PasswordHash:      data.PasswordHash,
		FailedAttempts:    data.FailedAttempts,
		LockedUntil:       data.LockedUntil,
		LastLoginAt:       data.LastLoginAt,
		PasswordChangedAt: data.PasswordChangedAt,
	}
}
