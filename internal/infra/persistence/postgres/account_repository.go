// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"adaptiv/internal/domain/entity"
	domainerrors "adaptiv/internal/domain/errors"
	"adaptiv/internal/domain/repository"
	"adaptiv/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// accountRepository implements the domain.AccountRepository interface using GORM.
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository is the constructor for accountRepository.
// It returns the repository as a domain interface, adhering to dependency inversion.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

// FindByID retrieves a single account by its unique ID.
func (repo *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	var accountM model.AccountModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&accountM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by id")
	}

	return toAccountDomain(&accountM), nil
}

// FindByEmail retrieves a single account by its email address.
func (repo *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	var accountM model.AccountModel
	err := repo.db.WithContext(ctx).
		Where("email = ?", email).
		First(&accountM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by email")
	}

	return toAccountDomain(&accountM), nil
}

// Create persists a new account.
func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	accountM := fromAccountDomain(account)

	if err := repo.db.WithContext(ctx).Create(accountM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrAccountExists.WrapMessage("email already exists")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required account information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create account")
	}

	// Propagate generated ID and timestamps back to the entity.
	account.ID = accountM.ID
	account.CreatedAt = accountM.CreatedAt
	account.UpdatedAt = accountM.UpdatedAt

	return nil
}

// Update modifies profile and status fields. Consent columns are excluded:
// consent transitions must go through the UpdateConsent compare-and-set.
func (repo *accountRepository) Update(ctx context.Context, account *entity.Account) error {
	result := repo.db.WithContext(ctx).
		Model(&model.AccountModel{}).
		Where("id = ?", account.ID).
		Updates(map[string]any{
			"email":       account.Email,
			"full_name":   account.FullName,
			"is_active":   account.IsActive,
			"is_verified": account.IsVerified,
		})
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return domainerrors.ErrAccountExists.WrapMessage("email already exists")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update account")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAccountNotFound
	}

	return nil
}

// UpdateConsent applies a consent transition as a single-row compare-and-set.
// The WHERE clause pins the expected current state, so two concurrent
// transitions cannot both win: the loser sees zero rows affected.
func (repo *accountRepository) UpdateConsent(ctx context.Context, accountID uuid.UUID, expected entity.ShareState, consent entity.ConsentRecord) error {
	var decision *string
	if consent.Decision != nil {
		d := string(*consent.Decision)
		decision = &d
	}

	result := repo.db.WithContext(ctx).
		Model(&model.AccountModel{}).
		Where("id = ? AND consent_state = ?", accountID, string(expected)).
		Updates(map[string]any{
			"consent_state":        string(consent.State),
			"consent_requested_at": consent.RequestedAt,
			"consent_requested_by": consent.RequestedBy,
			"consent_reviewed_at":  consent.ReviewedAt,
			"consent_reviewed_by":  consent.ReviewedBy,
			"consent_decision":     decision,
			"consent_reason":       consent.Reason,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update consent state")
	}
	if result.RowsAffected == 0 {
		// Either the account is gone or the state moved underneath us.
		// Distinguish the two so callers can report accurately.
		var count int64
		if err := repo.db.WithContext(ctx).
			Model(&model.AccountModel{}).
			Where("id = ?", accountID).
			Count(&count).Error; err != nil {
			return domainerrors.NewDatabaseExecuteError(err, "failed to verify account existence")
		}
		if count == 0 {
			return repository.ErrAccountNotFound
		}

		return repository.ErrStaleConsentState
	}

	return nil
}

// ListPendingConsent returns patient accounts awaiting disable-request review,
// oldest request first so the queue is worked in order.
func (repo *accountRepository) ListPendingConsent(ctx context.Context) ([]*entity.Account, error) {
	var accountMs []model.AccountModel
	err := repo.db.WithContext(ctx).
		Where("consent_state = ? AND is_active = ?", string(entity.ShareDisableRequested), true).
		Order("consent_requested_at ASC").
		Find(&accountMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list pending consent requests")
	}

	accounts := make([]*entity.Account, 0, len(accountMs))
	for i := range accountMs {
		accounts = append(accounts, toAccountDomain(&accountMs[i]))
	}

	return accounts, nil
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

// toAccountDomain converts a GORM AccountModel to a domain Account entity.
func toAccountDomain(data *model.AccountModel) *entity.Account {
	if data == nil {
		return nil
	}

	var decision *entity.ConsentDecision
	if data.ConsentDecision != nil {
		d := entity.ConsentDecision(*data.ConsentDecision)
		decision = &d
	}

	return &entity.Account{
		ID:         data.ID,
		Email:      data.Email,
		FullName:   data.FullName,
		Role:       entity.Role(data.Role),
		IsActive:   data.IsActive,
		IsVerified: data.IsVerified,
		Consent: &entity.ConsentRecord{
			State:       entity.ShareState(data.ConsentState),
			RequestedAt: data.ConsentRequestedAt,
			RequestedBy: data.ConsentRequestedBy,
			ReviewedAt:  data.ConsentReviewedAt,
			ReviewedBy:  data.ConsentReviewedBy,
			Decision:    decision,
			Reason:      data.ConsentReason,
		},
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

// fromAccountDomain converts a domain Account entity to a GORM AccountModel for persistence.
func fromAccountDomain(data *entity.Account) *model.AccountModel {
	if data == nil {
		return nil
	}

	accountM := &model.AccountModel{
		ID:           data.ID,
		Email:        data.Email,
		FullName:     data.FullName,
		Role:         string(data.Role),
		IsActive:     data.IsActive,
		IsVerified:   data.IsVerified,
		ConsentState: string(data.ConsentState()),
	}

	if data.Consent != nil {
		accountM.ConsentRequestedAt = data.Consent.RequestedAt
		accountM.ConsentRequestedBy = data.Consent.RequestedBy
		accountM.ConsentReviewedAt = data.Consent.ReviewedAt
		accountM.ConsentReviewedBy = data.Consent.ReviewedBy
		accountM.ConsentReason = data.Consent.Reason
		if data.Consent.Decision != nil {
			d := string(*data.Consent.Decision)
			accountM.ConsentDecision = &d
		}
	}

	return accountM
}
