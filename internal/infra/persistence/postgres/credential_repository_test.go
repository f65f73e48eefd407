package postgres

import (
	"context"
	"testing"
	"time"

	"adaptiv/internal/domain/entity"
	"adaptiv/internal/domain/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(gormpg.New(gormpg.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestCredentialRepository_RecordFailedAttempt_Succeeds(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCredentialRepository(db)
	accountID := uuid.New()

	mock.ExpectExec(`UPDATE "account_credentials" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.RecordFailedAttempt(context.Background(), accountID, 1, nil)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialRepository_RecordFailedAttempt_StaleCounter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCredentialRepository(db)
	accountID := uuid.New()

	// The conditional update matches zero rows because a concurrent failure
	// already advanced the counter. The repository re-checks existence and
	// reports staleness, not absence.
	mock.ExpectExec(`UPDATE "account_credentials" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "account_credentials"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := repo.RecordFailedAttempt(context.Background(), accountID, 1, nil)
	assert.ErrorIs(t, err, repository.ErrStaleFailureCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialRepository_RecordFailedAttempt_MissingCredential(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCredentialRepository(db)
	accountID := uuid.New()

	mock.ExpectExec(`UPDATE "account_credentials" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "account_credentials"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	err := repo.RecordFailedAttempt(context.Background(), accountID, 0, nil)
	assert.ErrorIs(t, err, repository.ErrCredentialNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialRepository_RecordFailedAttempt_ArmsLockout(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCredentialRepository(db)
	accountID := uuid.New()
	lockUntil := time.Now().Add(15 * time.Minute)

	// Third failure: counter increment and lockout expiry land in one
	// statement, so there is no window where the count is 3 but the lock
	// is not yet armed.
	mock.ExpectExec(`UPDATE "account_credentials" SET .*"locked_until"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.RecordFailedAttempt(context.Background(), accountID, 2, &lockUntil)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialRepository_ResetFailures(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCredentialRepository(db)
	accountID := uuid.New()

	mock.ExpectExec(`UPDATE "account_credentials" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.ResetFailures(context.Background(), accountID, time.Now())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_UpdateConsent_Stale(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)
	accountID := uuid.New()

	mock.ExpectExec(`UPDATE "accounts" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "accounts"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := repo.UpdateConsent(context.Background(), accountID, entity.ShareOn, consentRecordForTest(accountID))
	assert.ErrorIs(t, err, repository.ErrStaleConsentState)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func consentRecordForTest(accountID uuid.UUID) entity.ConsentRecord {
	now := time.Now()

	return entity.ConsentRecord{
		State:       entity.ShareDisableRequested,
		RequestedAt: &now,
		RequestedBy: &accountID,
		Reason:      "moving to a new provider",
	}
}
