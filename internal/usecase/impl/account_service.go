package impl

import (
	"context"
	"log/slog"

	deliverycontext "adaptiv/internal/delivery/context"
	"adaptiv/internal/domain/entity"
	domainerrors "adaptiv/internal/domain/errors"
	"adaptiv/internal/domain/guard"
	"adaptiv/internal/domain/repository"
	"adaptiv/internal/domain/service"
	"adaptiv/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager   repository.TransactionManager
	accountRepo repository.AccountRepository
	hasher      service.PasswordHasher
	logger      *slog.Logger
}

// AccountServiceParams holds dependencies for accountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	AccountRepo repository.AccountRepository
	Hasher      service.PasswordHasher
	Logger      *slog.Logger
}

// NewAccountService is the constructor for accountService.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		txManager:   params.TxManager,
		accountRepo: params.AccountRepo,
		hasher:      params.Hasher,
		logger:      params.Logger,
	}
}

func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ProvisionAccount creates an account of any role. Admin only; there is no
// public self-registration, so every account traces back to an admin.
// Account and credential rows commit in one transaction so a
// half-provisioned account can never exist.
func (srv *accountService) ProvisionAccount(ctx context.Context, actor guard.Identity, input *usecase.ProvisionAccountInput) (*usecase.AccountOutput, error) {
	if err := guard.RequireAdmin(actor); err != nil {
		return nil, err
	}

	if !input.Role.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("provisioned role must be patient, clinician or admin")
	}

	return srv.createAccount(ctx, input.Email, input.FullName, input.Password, input.Role)
}

func (srv *accountService) createAccount(ctx context.Context, email, fullName, password string, role entity.Role) (*usecase.AccountOutput, error) {
	srv.log(ctx).Info("Starting account creation", slog.String("role", role.String()))

	if err := srv.hasher.ValidatePasswordStrength(password); err != nil {
		return nil, err
	}

	hash, err := srv.hasher.Hash(password)
	if err != nil {
		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash password during account creation")
	}

	account := &entity.Account{
		Email:    email,
		FullName: fullName,
		Role:     role,
		IsActive: true,
	}
	if role == entity.RolePatient {
		// Only patients carry a consent record; it starts with sharing on.
		account.Consent = &entity.ConsentRecord{State: entity.ShareOn}
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.AccountRepo().Create(ctx, account); err != nil {
			return errors.Wrap(err, "failed to create account")
		}

		credential := &entity.Credential{
			AccountID:    account.ID,
			PasswordHash: hash,
		}
		if err := repoFactory.CredentialRepo().Create(ctx, credential); err != nil {
			return errors.Wrap(err, "failed to create credential")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Account creation transaction failed", slog.String("role", role.String()), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Info("Account created", slog.Any("accountID", account.ID), slog.String("role", role.String()))

	return &usecase.AccountOutput{Account: account}, nil
}

// DeactivateAccount soft-deactivates an account. The record is kept for
// audit; only the active flag changes. An admin cannot deactivate their own
// account, which would otherwise allow locking every admin out.
func (srv *accountService) DeactivateAccount(ctx context.Context, actor guard.Identity, accountID uuid.UUID) error {
	if err := guard.RequireAdmin(actor); err != nil {
		return err
	}

	if actor.IsSelf(accountID) {
		return domainerrors.ErrForbidden.WithDetails("an admin cannot deactivate their own account")
	}

	account, err := srv.accountRepo.FindByID(ctx, accountID)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return domainerrors.ErrNotFound
	}
	if err != nil {
		return errors.Wrap(err, "failed to load account for deactivation")
	}

	if !account.IsActive {
		return nil
	}

	account.IsActive = false
	if err := srv.accountRepo.Update(ctx, account); err != nil {
		return errors.Wrap(err, "failed to deactivate account")
	}

	srv.log(ctx).Info("Account deactivated", slog.Any("accountID", accountID), slog.Any("actorID", actor.AccountID))

	return nil
}

// GetProfile returns the caller's own account.
func (srv *accountService) GetProfile(ctx context.Context, actor guard.Identity) (*usecase.AccountOutput, error) {
	account, err := srv.accountRepo.FindByID(ctx, actor.AccountID)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return nil, domainerrors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load account profile")
	}

	return &usecase.AccountOutput{Account: account}, nil
}
