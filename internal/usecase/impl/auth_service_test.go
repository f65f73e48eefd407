package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"adaptiv/internal/domain/entity"
	domainerrors "adaptiv/internal/domain/errors"
	"adaptiv/internal/domain/repository"
	"adaptiv/internal/domain/service"
	mockrepo "adaptiv/internal/mocks/repository"
	mocksvc "adaptiv/internal/mocks/service"
	"adaptiv/internal/usecase"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	accountRepo    *mockrepo.AccountRepository
	credentialRepo *mockrepo.CredentialRepository
	hasher         *mocksvc.PasswordHasher
	tokenService   *mocksvc.TokenService
	resetMailer    *mocksvc.ResetMailer
	svc            usecase.AuthUsecase
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		accountRepo:    new(mockrepo.AccountRepository),
		credentialRepo: new(mockrepo.CredentialRepository),
		hasher:         new(mocksvc.PasswordHasher),
		tokenService:   new(mocksvc.TokenService),
		resetMailer:    new(mocksvc.ResetMailer),
	}
	f.svc = NewAuthService(AuthServiceParams{
		AccountRepo:    f.accountRepo,
		CredentialRepo: f.credentialRepo,
		Hasher:         f.hasher,
		TokenService:   f.tokenService,
		ResetMailer:    f.resetMailer,
		Logger:         testLogger(),
	})

	return f
}

func patientAccount() *entity.Account {
	return &entity.Account{
		ID:       uuid.New(),
		Email:    "pat@example.com",
		FullName: "Pat Example",
		Role:     entity.RolePatient,
		IsActive: true,
		Consent:  &entity.ConsentRecord{State: entity.ShareOn},
	}
}

func tokenPair() *service.TokenPair {
	return &service.TokenPair{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 1800}
}

func TestLogin_Success(t *testing.T) {
	f := newAuthFixture()
	account := patientAccount()
	credential := &entity.Credential{AccountID: account.ID, PasswordHash: "hash"}

	f.accountRepo.On("FindByEmail", mock.Anything, account.Email).Return(account, nil)
	f.credentialRepo.On("FindByAccountID", mock.Anything, account.ID).Return(credential, nil)
	f.hasher.On("Check", "correct horse", "hash").Return(true)
	f.credentialRepo.On("ResetFailures", mock.Anything, account.ID, mock.Anything).Return(nil)
	f.tokenService.On("GeneratePair", account.ID, entity.RolePatient).Return(tokenPair(), nil)

	out, err := f.svc.Login(context.Background(), &usecase.LoginInput{Email: account.Email, Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "access", out.Tokens.AccessToken)
	assert.Equal(t, account.ID, out.Account.ID)
	f.credentialRepo.AssertCalled(t, "ResetFailures", mock.Anything, account.ID, mock.Anything)
}

func TestLogin_UnknownEmailMatchesWrongPassword(t *testing.T) {
	f := newAuthFixture()
	account := patientAccount()
	credential := &entity.Credential{AccountID: account.ID, PasswordHash: "hash"}

	f.accountRepo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, repository.ErrAccountNotFound)
	f.hasher.On("DummyCheck", "whatever").Return()

	_, unknownErr := f.svc.Login(context.Background(), &usecase.LoginInput{Email: "ghost@example.com", Password: "whatever"})

	f.accountRepo.On("FindByEmail", mock.Anything, account.Email).Return(account, nil)
	f.credentialRepo.On("FindByAccountID", mock.Anything, account.ID).Return(credential, nil)
	f.hasher.On("Check", "wrong", "hash").Return(false)
	f.credentialRepo.On("RecordFailedAttempt", mock.Anything, account.ID, 0, (*time.Time)(nil)).Return(nil)

	_, wrongErr := f.svc.Login(context.Background(), &usecase.LoginInput{Email: account.Email, Password: "wrong"})

	// The two failure modes are indistinguishable to the caller, and the
	// unknown-email path still burned a hash comparison.
	assert.ErrorIs(t, unknownErr, domainerrors.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, domainerrors.ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
	f.hasher.AssertCalled(t, "DummyCheck", "whatever")
}

func TestLogin_ThirdFailureArmsLockout(t *testing.T) {
	f := newAuthFixture()
	account := patientAccount()
	credential := &entity.Credential{AccountID: account.ID, PasswordHash: "hash", FailedAttempts: 2}

	f.accountRepo.On("FindByEmail", mock.Anything, account.Email).Return(account, nil)
	f.credentialRepo.On("FindByAccountID", mock.Anything, account.ID).Return(credential, nil)
	f.hasher.On("Check", "wrong", "hash").Return(false)
	f.credentialRepo.On("RecordFailedAttempt", mock.Anything, account.ID, 2,
		mock.MatchedBy(func(lockUntil *time.Time) bool {
			if lockUntil == nil {
				return false
			}
			remaining := time.Until(*lockUntil)

			return remaining > 14*time.Minute && remaining <= 15*time.Minute
		})).Return(nil)

	_, err := f.svc.Login(context.Background(), &usecase.LoginInput{Email: account.Email, Password: "wrong"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	f.credentialRepo.AssertExpectations(t)
}

func TestLogin_EarlierFailuresDoNotLock(t *testing.T) {
	f := newAuthFixture()
	account := patientAccount()
	credential := &entity.Credential{AccountID: account.ID, PasswordHash: "hash", FailedAttempts: 1}

	f.accountRepo.On("FindByEmail", mock.Anything, account.Email).Return(account, nil)
	f.credentialRepo.On("FindByAccountID", mock.Anything, account.ID).Return(credential, nil)
	f.hasher.On("Check", "wrong", "hash").Return(false)
	f.credentialRepo.On("RecordFailedAttempt", mock.Anything, account.ID, 1, (*time.Time)(nil)).Return(nil)

	_, err := f.svc.Login(context.Background(), &usecase.LoginInput{Email: account.Email, Password: "wrong"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	f.credentialRepo.AssertExpectations(t)
}

func TestLogin_LockedRejectsEvenCorrectPassword(t *testing.T) {
	f := newAuthFixture()
	account := patientAccount()
	lockedUntil := time.Now().Add(10 * time.Minute)
	credential := &entity.Credential{
		AccountID:      account.ID,
		PasswordHash:   "hash",
		FailedAttempts: 3,
		LockedUntil:    &lockedUntil,
	}

	f.accountRepo.On("FindByEmail", mock.Anything, account.Email).Return(account, nil)
	f.credentialRepo.On("FindByAccountID", mock.Anything, account.ID).Return(credential, nil)

	_, err := f.svc.Login(context.Background(), &usecase.LoginInput{Email: account.Email, Password: "correct horse"})

	assert.ErrorIs(t, err, domainerrors.ErrAccountLocked)
	// The password is never even checked while the lock holds.
	f.hasher.AssertNotCalled(t, "Check", mock.Anything, mock.Anything)
}

func TestLogin_ExpiredLockoutAllowsLogin(t *testing.T) {
	f := newAuthFixture()
	account := patientAccount()
	expired := time.Now().Add(-time.Minute)
	credential := &entity.Credential{
		AccountID:      account.ID,
		PasswordHash:   "hash",
		FailedAttempts: 3,
		LockedUntil:    &expired,
	}

	f.accountRepo.On("FindByEmail", mock.Anything, account.Email).Return(account, nil)
	f.credentialRepo.On("FindByAccountID", mock.Anything, account.ID).Return(credential, nil)
	f.hasher.On("Check", "correct horse", "hash").Return(true)
	f.credentialRepo.On("ResetFailures", mock.Anything, account.ID, mock.Anything).Return(nil)
	f.tokenService.On("GeneratePair", account.ID, entity.RolePatient).Return(tokenPair(), nil)

	out, err := f.svc.Login(context.Background(), &usecase.LoginInput{Email: account.Email, Password: "correct horse"})
	require.NoError(t, err)
	assert.NotNil(t, out.Tokens)
}

func TestLogin_InactiveRejectedBeforePasswordCheck(t *testing.T) {
	f := newAuthFixture()
	account := patientAccount()
	account.IsActive = false

	f.accountRepo.On("FindByEmail", mock.Anything, account.Email).Return(account, nil)

	_, err := f.svc.Login(context.Background(), &usecase.LoginInput{Email: account.Email, Password: "wrong"})
	assert.ErrorIs(t, err, domainerrors.ErrAccountInactive)

	_, err = f.svc.Login(context.Background(), &usecase.LoginInput{Email: account.Email, Password: "correct horse"})
	assert.ErrorIs(t, err, domainerrors.ErrAccountInactive)

	// A deactivated account is rejected before the credential is touched,
	// so wrong guesses never advance the failure counter.
	f.credentialRepo.AssertNotCalled(t, "FindByAccountID", mock.Anything, mock.Anything)
	f.credentialRepo.AssertNotCalled(t, "RecordFailedAttempt", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.hasher.AssertNotCalled(t, "Check", mock.Anything, mock.Anything)
}

func TestRefresh_SkipsLockoutCheck(t *testing.T) {
	f := newAuthFixture()
	account := patientAccount()

	f.tokenService.On("Validate", "refresh-token", service.TokenTypeRefresh).
		Return(&service.Claims{AccountID: account.ID, Role: account.Role, Type: service.TokenTypeRefresh}, nil)
	f.accountRepo.On("FindByID", mock.Anything, account.ID).Return(account, nil)
	f.tokenService.On("GeneratePair", account.ID, entity.RolePatient).Return(tokenPair(), nil)

	out, err := f.svc.Refresh(context.Background(), &usecase.RefreshInput{RefreshToken: "refresh-token"})
	require.NoError(t, err)
	assert.NotNil(t, out.Tokens)

	// Lockout state lives on the credential; refresh never loads it.
	f.credentialRepo.AssertNotCalled(t, "FindByAccountID", mock.Anything, mock.Anything)
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	f := newAuthFixture()

	f.tokenService.On("Validate", "access-token", service.TokenTypeRefresh).
		Return(nil, jwt.ErrTokenInvalidClaims)

	_, err := f.svc.Refresh(context.Background(), &usecase.RefreshInput{RefreshToken: "access-token"})
	assert.ErrorIs(t, err, domainerrors.ErrTokenInvalid)
}

func TestRefresh_DeactivatedAccount(t *testing.T) {
	f := newAuthFixture()
	account := patientAccount()
	account.IsActive = false

	f.tokenService.On("Validate", "refresh-token", service.TokenTypeRefresh).
		Return(&service.Claims{AccountID: account.ID, Role: account.Role, Type: service.TokenTypeRefresh}, nil)
	f.accountRepo.On("FindByID", mock.Anything, account.ID).Return(account, nil)

	_, err := f.svc.Refresh(context.Background(), &usecase.RefreshInput{RefreshToken: "refresh-token"})
	assert.ErrorIs(t, err, domainerrors.ErrAccountInactive)
}

func TestRequestPasswordReset_UnknownEmailIsSilent(t *testing.T) {
	f := newAuthFixture()

	f.accountRepo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, repository.ErrAccountNotFound)

	err := f.svc.RequestPasswordReset(context.Background(), &usecase.RequestPasswordResetInput{Email: "ghost@example.com"})
	assert.NoError(t, err)
	f.resetMailer.AssertNotCalled(t, "SendResetToken", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestPasswordReset_MailsToken(t *testing.T) {
	f := newAuthFixture()
	account := patientAccount()

	f.accountRepo.On("FindByEmail", mock.Anything, account.Email).Return(account, nil)
	f.tokenService.On("GenerateResetToken", account.ID).Return("reset-token", nil)
	f.resetMailer.On("SendResetToken", mock.Anything, account.Email, "reset-token").Return(nil)

	err := f.svc.RequestPasswordReset(context.Background(), &usecase.RequestPasswordResetInput{Email: account.Email})
	assert.NoError(t, err)
	f.resetMailer.AssertExpectations(t)
}

func TestConfirmPasswordReset_Succeeds(t *testing.T) {
	f := newAuthFixture()
	accountID := uuid.New()
	issued := time.Now()
	credential := &entity.Credential{AccountID: accountID, PasswordHash: "old"}

	f.tokenService.On("Validate", "reset-token", service.TokenTypePasswordReset).
		Return(&service.Claims{
			AccountID: accountID,
			Type:      service.TokenTypePasswordReset,
			RegisteredClaims: jwt.RegisteredClaims{
				IssuedAt: jwt.NewNumericDate(issued),
			},
		}, nil)
	f.credentialRepo.On("FindByAccountID", mock.Anything, accountID).Return(credential, nil)
	f.hasher.On("ValidatePasswordStrength", "NewStrongPass1!").Return(nil)
	f.hasher.On("Hash", "NewStrongPass1!").Return("newhash", nil)
	f.credentialRepo.On("UpdatePassword", mock.Anything, accountID, "newhash", mock.Anything).Return(nil)

	err := f.svc.ConfirmPasswordReset(context.Background(), &usecase.ConfirmPasswordResetInput{
		Token:       "reset-token",
		NewPassword: "NewStrongPass1!",
	})
	assert.NoError(t, err)
	f.credentialRepo.AssertExpectations(t)
}

func TestConfirmPasswordReset_TokenPredatingPasswordChangeRejected(t *testing.T) {
	f := newAuthFixture()
	accountID := uuid.New()
	issued := time.Now().Add(-2 * time.Hour)
	changed := time.Now().Add(-time.Hour)
	credential := &entity.Credential{AccountID: accountID, PasswordHash: "old", PasswordChangedAt: &changed}

	f.tokenService.On("Validate", "stale-token", service.TokenTypePasswordReset).
		Return(&service.Claims{
			AccountID: accountID,
			Type:      service.TokenTypePasswordReset,
			RegisteredClaims: jwt.RegisteredClaims{
				IssuedAt: jwt.NewNumericDate(issued),
			},
		}, nil)
	f.credentialRepo.On("FindByAccountID", mock.Anything, accountID).Return(credential, nil)

	err := f.svc.ConfirmPasswordReset(context.Background(), &usecase.ConfirmPasswordResetInput{
		Token:       "stale-token",
		NewPassword: "NewStrongPass1!",
	})
	assert.ErrorIs(t, err, domainerrors.ErrTokenInvalid)
	f.credentialRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
