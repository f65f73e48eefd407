// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	deliverycontext "adaptiv/internal/delivery/context"
	"adaptiv/internal/domain/entity"
	domainerrors "adaptiv/internal/domain/errors"
	"adaptiv/internal/domain/repository"
	"adaptiv/internal/domain/service"
	"adaptiv/internal/obs"
	"adaptiv/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface.
type authService struct {
	accountRepo    repository.AccountRepository
	credentialRepo repository.CredentialRepository
	hasher         service.PasswordHasher
	tokenService   service.TokenService
	resetMailer    service.ResetMailer
	logger         *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	AccountRepo    repository.AccountRepository
	CredentialRepo repository.CredentialRepository
	Hasher         service.PasswordHasher
	TokenService   service.TokenService
	ResetMailer    service.ResetMailer
	Logger         *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		accountRepo:    params.AccountRepo,
		credentialRepo: params.CredentialRepo,
		hasher:         params.Hasher,
		tokenService:   params.TokenService,
		resetMailer:    params.ResetMailer,
		logger:         params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Login verifies credentials with brute-force lockout.
//
// The order of checks is load-bearing:
//  1. Unknown email burns a dummy hash comparison and returns the same
//     error as a wrong password, so response content and timing do not
//     reveal which addresses are registered.
//  2. A deactivated account is rejected next, before the counter can
//     move. Failed guesses against a dead account must not advance the
//     lockout state.
//  3. The lockout check runs before password verification. A locked
//     account rejects even the correct password; otherwise an attacker
//     could keep guessing through the lockout window.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	now := time.Now()

	account, err := srv.accountRepo.FindByEmail(ctx, input.Email)
	if errors.Is(err, repository.ErrAccountNotFound) {
		srv.hasher.DummyCheck(input.Password)
		srv.log(ctx).Warn("Login attempt for unknown email")
		obs.RecordLogin("failure")

		return nil, domainerrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load account for login")
	}

	if !account.IsActive {
		srv.log(ctx).Warn("Login attempt on deactivated account", slog.Any("accountID", account.ID))
		obs.RecordLogin("failure")

		return nil, domainerrors.ErrAccountInactive
	}

	credential, err := srv.credentialRepo.FindByAccountID(ctx, account.ID)
	if errors.Is(err, repository.ErrCredentialNotFound) {
		// Account without a credential row behaves like an unknown email.
		srv.hasher.DummyCheck(input.Password)
		obs.RecordLogin("failure")

		return nil, domainerrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load credential for login")
	}

	if credential.IsLocked(now) {
		srv.log(ctx).Warn("Login attempt on locked account", slog.Any("accountID", account.ID))
		obs.RecordLogin("locked")

		return nil, lockedError(credential, now)
	}

	if !srv.hasher.Check(input.Password, credential.PasswordHash) {
		srv.recordFailure(ctx, account, credential, now)
		obs.RecordLogin("failure")

		return nil, domainerrors.ErrInvalidCredentials
	}

	if err := srv.credentialRepo.ResetFailures(ctx, account.ID, now); err != nil {
		return nil, errors.Wrap(err, "failed to reset login failures")
	}

	tokens, err := srv.tokenService.GeneratePair(account.ID, account.Role)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate token pair")
	}

	srv.log(ctx).Info("Login succeeded", slog.Any("accountID", account.ID), slog.String("role", account.Role.String()))
	obs.RecordLogin("success")

	return &usecase.LoginOutput{Tokens: tokens, Account: account}, nil
}

// recordFailure advances the failed-attempt counter and arms the lockout on
// the final allowed failure. The conditional update means a concurrent
// failure may win the slot first; losing that race is fine because the
// winner already counted an attempt, so the response stays the same.
func (srv *authService) recordFailure(ctx context.Context, account *entity.Account, credential *entity.Credential, now time.Time) {
	var lockUntil *time.Time
	if credential.FailedAttempts+1 >= entity.MaxFailedLogins {
		until := now.Add(entity.LockoutDuration)
		lockUntil = &until
	}

	err := srv.credentialRepo.RecordFailedAttempt(ctx, account.ID, credential.FailedAttempts, lockUntil)
	switch {
	case errors.Is(err, repository.ErrStaleFailureCount):
		srv.log(ctx).Debug("Failed-attempt counter advanced concurrently", slog.Any("accountID", account.ID))
	case err != nil:
		srv.log(ctx).Error("Failed to record login failure", slog.Any("accountID", account.ID), slog.Any("error", err))
	case lockUntil != nil:
		srv.log(ctx).Warn("Account locked after repeated failures", slog.Any("accountID", account.ID))
		obs.RecordLockout()
	}
}

// Refresh mints a new token pair from a valid refresh token. Lockout is not
// consulted: possession of an unexpired refresh token proves a successful
// login, and locking out token refreshes would let an attacker knock
// legitimate sessions offline by spamming wrong passwords.
func (srv *authService) Refresh(ctx context.Context, input *usecase.RefreshInput) (*usecase.RefreshOutput, error) {
	claims, err := srv.tokenService.Validate(input.RefreshToken, service.TokenTypeRefresh)
	if err != nil {
		return nil, domainerrors.ErrTokenInvalid
	}

	account, err := srv.accountRepo.FindByID(ctx, claims.AccountID)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return nil, domainerrors.ErrTokenInvalid
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load account for refresh")
	}

	if !account.IsActive {
		return nil, domainerrors.ErrAccountInactive
	}

	tokens, err := srv.tokenService.GeneratePair(account.ID, account.Role)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate token pair")
	}

	srv.log(ctx).Debug("Token pair refreshed", slog.Any("accountID", account.ID))

	return &usecase.RefreshOutput{Tokens: tokens}, nil
}

// RequestPasswordReset issues and mails a reset token. The response is
// identical whether or not the email is registered.
func (srv *authService) RequestPasswordReset(ctx context.Context, input *usecase.RequestPasswordResetInput) error {
	account, err := srv.accountRepo.FindByEmail(ctx, input.Email)
	if errors.Is(err, repository.ErrAccountNotFound) {
		srv.log(ctx).Info("Password reset requested for unknown email")

		return nil
	}
	if err != nil {
		return errors.Wrap(err, "failed to load account for password reset")
	}

	if !account.IsActive {
		srv.log(ctx).Info("Password reset requested for deactivated account", slog.Any("accountID", account.ID))

		return nil
	}

	token, err := srv.tokenService.GenerateResetToken(account.ID)
	if err != nil {
		return errors.Wrap(err, "failed to generate reset token")
	}

	if err := srv.resetMailer.SendResetToken(ctx, account.Email, token); err != nil {
		return errors.Wrap(err, "failed to send reset token")
	}

	srv.log(ctx).Info("Password reset token issued", slog.Any("accountID", account.ID))

	return nil
}

// ConfirmPasswordReset sets a new password from a valid reset token. The
// token is single-use despite being stateless: tokens issued before the last
// password change are rejected, and the change itself moves that bar.
// Completing a reset also clears any active lockout, since proving control
// of the mailbox supersedes the failed-guess history.
func (srv *authService) ConfirmPasswordReset(ctx context.Context, input *usecase.ConfirmPasswordResetInput) error {
	claims, err := srv.tokenService.Validate(input.Token, service.TokenTypePasswordReset)
	if err != nil {
		return domainerrors.ErrTokenInvalid
	}

	credential, err := srv.credentialRepo.FindByAccountID(ctx, claims.AccountID)
	if errors.Is(err, repository.ErrCredentialNotFound) {
		return domainerrors.ErrTokenInvalid
	}
	if err != nil {
		return errors.Wrap(err, "failed to load credential for password reset")
	}

	if claims.IssuedAt != nil && credential.PasswordChangedAt != nil &&
		claims.IssuedAt.Time.Before(*credential.PasswordChangedAt) {
		srv.log(ctx).Warn("Reset token predates last password change", slog.Any("accountID", claims.AccountID))

		return domainerrors.ErrTokenInvalid
	}

	if err := srv.hasher.ValidatePasswordStrength(input.NewPassword); err != nil {
		return err
	}

	hash, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash new password")
	}

	if err := srv.credentialRepo.UpdatePassword(ctx, claims.AccountID, hash, time.Now()); err != nil {
		return errors.Wrap(err, "failed to update password")
	}

	srv.log(ctx).Info("Password reset completed", slog.Any("accountID", claims.AccountID))

	return nil
}

// lockedError builds the lockout denial with the remaining wait attached.
func lockedError(credential *entity.Credential, now time.Time) error {
	remaining := credential.LockRemaining(now)

	return domainerrors.ErrAccountLocked.WithDetails(
		fmt.Sprintf("try again in %d seconds", int(remaining.Seconds())),
	)
}
