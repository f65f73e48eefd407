package impl

import (
	"context"
	"testing"

	"adaptiv/internal/domain/entity"
	domainerrors "adaptiv/internal/domain/errors"
	"adaptiv/internal/domain/repository"
	mockrepo "adaptiv/internal/mocks/repository"
	"adaptiv/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type alertFixture struct {
	accountRepo *mockrepo.AccountRepository
	alertRepo   *mockrepo.AlertRepository
	svc         usecase.AlertUsecase
}

func newAlertFixture() *alertFixture {
	f := &alertFixture{
		accountRepo: new(mockrepo.AccountRepository),
		alertRepo:   new(mockrepo.AlertRepository),
	}
	f.svc = NewAlertService(AlertServiceParams{
		AccountRepo: f.accountRepo,
		AlertRepo:   f.alertRepo,
		Logger:      testLogger(),
	})

	return f
}

func activeAlert(accountID uuid.UUID) *entity.Alert {
	return &entity.Alert{
		ID:        uuid.New(),
		AccountID: accountID,
		Type:      entity.AlertHighHeartRate,
		Severity:  entity.SeverityCritical,
	}
}

func TestAcknowledge_ByPatient(t *testing.T) {
	f := newAlertFixture()
	patient := patientWithConsent(entity.ShareOff)
	alert := activeAlert(patient.ID)

	f.alertRepo.On("FindByID", mock.Anything, alert.ID).Return(alert, nil)
	f.alertRepo.On("Update", mock.Anything, mock.MatchedBy(func(a *entity.Alert) bool {
		return a.Acknowledged && a.AcknowledgedBy != nil && *a.AcknowledgedBy == patient.ID
	})).Return(nil)

	got, err := f.svc.Acknowledge(context.Background(), patientIdentity(patient), alert.ID)
	require.NoError(t, err)
	assert.True(t, got.Acknowledged)
}

func TestAcknowledge_Idempotent(t *testing.T) {
	f := newAlertFixture()
	patient := patientWithConsent(entity.ShareOn)
	alert := activeAlert(patient.ID)
	alert.Acknowledged = true

	f.alertRepo.On("FindByID", mock.Anything, alert.ID).Return(alert, nil)

	got, err := f.svc.Acknowledge(context.Background(), patientIdentity(patient), alert.ID)
	require.NoError(t, err)
	assert.True(t, got.Acknowledged)
	f.alertRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAcknowledge_AdminExcluded(t *testing.T) {
	f := newAlertFixture()
	alert := activeAlert(uuid.New())

	f.alertRepo.On("FindByID", mock.Anything, alert.ID).Return(alert, nil)

	_, err := f.svc.Acknowledge(context.Background(), adminIdentity(), alert.ID)
	assert.ErrorIs(t, err, domainerrors.ErrAdminExcluded)
}

func TestResolve_ClinicianOnly(t *testing.T) {
	f := newAlertFixture()
	patient := patientWithConsent(entity.ShareOn)
	alert := activeAlert(patient.ID)
	clinician := clinicianIdentity()

	f.alertRepo.On("FindByID", mock.Anything, alert.ID).Return(alert, nil)
	f.accountRepo.On("FindByID", mock.Anything, patient.ID).Return(patient, nil)
	f.alertRepo.On("Update", mock.Anything, mock.MatchedBy(func(a *entity.Alert) bool {
		return a.Resolved && a.Acknowledged
	})).Return(nil)

	got, err := f.svc.Resolve(context.Background(), clinician, alert.ID)
	require.NoError(t, err)
	assert.True(t, got.Resolved)

	// Patients cannot self-certify resolution.
	_, err = f.svc.Resolve(context.Background(), patientIdentity(patient), alert.ID)
	assert.ErrorIs(t, err, domainerrors.ErrRoleForbidden)
}

func TestList_ClinicianBlockedByConsent(t *testing.T) {
	f := newAlertFixture()
	patient := patientWithConsent(entity.ShareOff)

	f.accountRepo.On("FindByID", mock.Anything, patient.ID).Return(patient, nil)

	_, err := f.svc.List(context.Background(), clinicianIdentity(), &usecase.ListAlertsInput{PatientID: patient.ID})
	assert.ErrorIs(t, err, domainerrors.ErrConsentDenied)
}

func TestList_SelfWithFilter(t *testing.T) {
	f := newAlertFixture()
	patient := patientWithConsent(entity.ShareOff)
	unacked := false

	f.alertRepo.On("ListByAccount", mock.Anything, patient.ID, mock.MatchedBy(func(filter repository.AlertListFilter) bool {
		return filter.Acknowledged == &unacked && filter.Limit == 50
	})).Return([]*entity.Alert{activeAlert(patient.ID)}, int64(1), nil)

	out, err := f.svc.List(context.Background(), patientIdentity(patient), &usecase.ListAlertsInput{
		PatientID:    patient.ID,
		Acknowledged: &unacked,
	})
	require.NoError(t, err)
	assert.Len(t, out.Alerts, 1)
	assert.Equal(t, int64(1), out.Total)
}
