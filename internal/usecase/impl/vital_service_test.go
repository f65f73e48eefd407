package impl

import (
	"context"
	"testing"
	"time"

	"adaptiv/internal/domain/entity"
	domainerrors "adaptiv/internal/domain/errors"
	"adaptiv/internal/domain/repository"
	mockrepo "adaptiv/internal/mocks/repository"
	"adaptiv/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type vitalFixture struct {
	accountRepo *mockrepo.AccountRepository
	vitalRepo   *mockrepo.VitalRepository
	alertRepo   *mockrepo.AlertRepository
	svc         usecase.VitalUsecase
}

func newVitalFixture() *vitalFixture {
	f := &vitalFixture{
		accountRepo: new(mockrepo.AccountRepository),
		vitalRepo:   new(mockrepo.VitalRepository),
		alertRepo:   new(mockrepo.AlertRepository),
	}
	txManager := &mockrepo.TransactionManager{
		Factory: &mockrepo.RepositoryFactory{
			AccountRepository: f.accountRepo,
			VitalRepository:   f.vitalRepo,
			AlertRepository:   f.alertRepo,
		},
	}
	f.svc = NewVitalService(VitalServiceParams{
		TxManager:   txManager,
		AccountRepo: f.accountRepo,
		VitalRepo:   f.vitalRepo,
		Logger:      testLogger(),
	})

	return f
}

func TestSubmit_NormalReadingStoresWithoutAlerts(t *testing.T) {
	f := newVitalFixture()
	patient := patientIdentity(patientWithConsent(entity.ShareOn))

	f.vitalRepo.On("Create", mock.Anything, mock.MatchedBy(func(v *entity.VitalSign) bool {
		return v.AccountID == patient.AccountID && v.HeartRate == 72
	})).Return(nil)

	out, err := f.svc.Submit(context.Background(), patient, &usecase.SubmitVitalInput{HeartRate: 72})
	require.NoError(t, err)
	assert.Empty(t, out.Alerts)
	f.alertRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmit_HighHeartRateFiresCriticalAlert(t *testing.T) {
	f := newVitalFixture()
	patient := patientIdentity(patientWithConsent(entity.ShareOn))

	f.vitalRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.alertRepo.On("FindActiveSince", mock.Anything, patient.AccountID, entity.AlertHighHeartRate, mock.Anything).
		Return(nil, repository.ErrAlertNotFound)
	f.alertRepo.On("Create", mock.Anything, mock.MatchedBy(func(a *entity.Alert) bool {
		return a.Type == entity.AlertHighHeartRate &&
			a.Severity == entity.SeverityCritical &&
			a.TriggerValue == 190.0 &&
			a.ThresholdValue == 180.0
	})).Return(nil)

	out, err := f.svc.Submit(context.Background(), patient, &usecase.SubmitVitalInput{HeartRate: 190})
	require.NoError(t, err)
	require.Len(t, out.Alerts, 1)
	assert.Equal(t, entity.AlertHighHeartRate, out.Alerts[0].Type)
}

func TestSubmit_DedupSupersedesWithNewestTrigger(t *testing.T) {
	f := newVitalFixture()
	patient := patientIdentity(patientWithConsent(entity.ShareOn))
	existing := &entity.Alert{
		ID:           uuid.New(),
		AccountID:    patient.AccountID,
		Type:         entity.AlertHighHeartRate,
		Severity:     entity.SeverityCritical,
		TriggerValue: 185,
		CreatedAt:    time.Now().Add(-2 * time.Minute),
	}

	f.vitalRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.alertRepo.On("FindActiveSince", mock.Anything, patient.AccountID, entity.AlertHighHeartRate, mock.Anything).
		Return(existing, nil)
	f.alertRepo.On("Supersede", mock.Anything, existing.ID, 195.0, mock.Anything, mock.Anything).Return(nil)

	out, err := f.svc.Submit(context.Background(), patient, &usecase.SubmitVitalInput{HeartRate: 195})
	require.NoError(t, err)
	require.Len(t, out.Alerts, 1)
	// The second firing within the window wins the trigger value instead
	// of creating a second record.
	assert.Equal(t, 195.0, out.Alerts[0].TriggerValue)
	f.alertRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmit_AlertPersistFailureRollsBackReading(t *testing.T) {
	f := newVitalFixture()
	patient := patientIdentity(patientWithConsent(entity.ShareOn))

	f.vitalRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.alertRepo.On("FindActiveSince", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, repository.ErrAlertNotFound)
	f.alertRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	_, err := f.svc.Submit(context.Background(), patient, &usecase.SubmitVitalInput{HeartRate: 190})
	// The transaction callback fails, so the reading never commits.
	assert.Error(t, err)
}

func TestSubmit_ImplausibleHeartRateRejected(t *testing.T) {
	f := newVitalFixture()
	patient := patientIdentity(patientWithConsent(entity.ShareOn))

	for _, hr := range []int{29, 251, 0, -5} {
		_, err := f.svc.Submit(context.Background(), patient, &usecase.SubmitVitalInput{HeartRate: hr})
		assert.ErrorIs(t, err, domainerrors.ErrValidationFailed, "heart rate %d", hr)
	}

	f.vitalRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmitBatch_OneBadReadingRejectsAll(t *testing.T) {
	f := newVitalFixture()
	patient := patientIdentity(patientWithConsent(entity.ShareOn))

	inputs := []*usecase.SubmitVitalInput{
		{HeartRate: 72},
		{HeartRate: 80},
		{HeartRate: 300}, // implausible
	}

	_, err := f.svc.SubmitBatch(context.Background(), patient, inputs)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	f.vitalRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmitBatch_SizeCap(t *testing.T) {
	f := newVitalFixture()
	patient := patientIdentity(patientWithConsent(entity.ShareOn))

	inputs := make([]*usecase.SubmitVitalInput, usecase.MaxBatchSize+1)
	for i := range inputs {
		inputs[i] = &usecase.SubmitVitalInput{HeartRate: 72}
	}

	_, err := f.svc.SubmitBatch(context.Background(), patient, inputs)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestSubmitBatch_ClinicianCannotSubmit(t *testing.T) {
	f := newVitalFixture()

	_, err := f.svc.Submit(context.Background(), clinicianIdentity(), &usecase.SubmitVitalInput{HeartRate: 72})
	assert.ErrorIs(t, err, domainerrors.ErrRoleForbidden)
}

func TestLatest_SelfAccessIgnoresConsent(t *testing.T) {
	f := newVitalFixture()
	patient := patientWithConsent(entity.ShareOff)
	reading := &entity.VitalSign{ID: uuid.New(), AccountID: patient.ID, HeartRate: 70}

	f.vitalRepo.On("FindLatest", mock.Anything, patient.ID).Return(reading, nil)

	// Sharing is off, but the patient still reads their own data. The
	// account is never even loaded for a self read.
	got, err := f.svc.Latest(context.Background(), patientIdentity(patient), patient.ID)
	require.NoError(t, err)
	assert.Equal(t, reading.ID, got.ID)
	f.accountRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestLatest_ClinicianBlockedByConsent(t *testing.T) {
	f := newVitalFixture()
	patient := patientWithConsent(entity.ShareOff)

	f.accountRepo.On("FindByID", mock.Anything, patient.ID).Return(patient, nil)

	_, err := f.svc.Latest(context.Background(), clinicianIdentity(), patient.ID)
	assert.ErrorIs(t, err, domainerrors.ErrConsentDenied)
	f.vitalRepo.AssertNotCalled(t, "FindLatest", mock.Anything, mock.Anything)
}

func TestLatest_ClinicianAllowedDuringPendingReview(t *testing.T) {
	f := newVitalFixture()
	patient := patientWithConsent(entity.ShareDisableRequested)
	reading := &entity.VitalSign{ID: uuid.New(), AccountID: patient.ID, HeartRate: 70}

	f.accountRepo.On("FindByID", mock.Anything, patient.ID).Return(patient, nil)
	f.vitalRepo.On("FindLatest", mock.Anything, patient.ID).Return(reading, nil)

	got, err := f.svc.Latest(context.Background(), clinicianIdentity(), patient.ID)
	require.NoError(t, err)
	assert.Equal(t, reading.ID, got.ID)
}

func TestLatest_AdminExcluded(t *testing.T) {
	f := newVitalFixture()
	patient := patientWithConsent(entity.ShareOn)

	_, err := f.svc.Latest(context.Background(), adminIdentity(), patient.ID)
	assert.ErrorIs(t, err, domainerrors.ErrAdminExcluded)
}

func TestHistory_ClampsLimit(t *testing.T) {
	f := newVitalFixture()
	patient := patientWithConsent(entity.ShareOn)

	f.vitalRepo.On("FindRange", mock.Anything, patient.ID, mock.Anything, mock.Anything, 0, defaultHistoryLimit).
		Return([]*entity.VitalSign{}, int64(0), nil).Once()
	f.vitalRepo.On("FindRange", mock.Anything, patient.ID, mock.Anything, mock.Anything, 0, maxHistoryLimit).
		Return([]*entity.VitalSign{}, int64(0), nil).Once()

	_, err := f.svc.History(context.Background(), patientIdentity(patient), &usecase.VitalsHistoryInput{PatientID: patient.ID})
	require.NoError(t, err)

	_, err = f.svc.History(context.Background(), patientIdentity(patient), &usecase.VitalsHistoryInput{
		PatientID: patient.ID,
		Limit:     10000,
	})
	require.NoError(t, err)
	f.vitalRepo.AssertExpectations(t)
}

func TestSummary_Aggregates(t *testing.T) {
	f := newVitalFixture()
	patient := patientWithConsent(entity.ShareOn)

	spo2a, spo2b := 97.0, 91.0
	readings := []*entity.VitalSign{
		{HeartRate: 60, SpO2: &spo2a},
		{HeartRate: 80, SpO2: &spo2b},
		{HeartRate: 100},
	}
	f.vitalRepo.On("FindRange", mock.Anything, patient.ID, mock.Anything, mock.Anything, 0, 0).
		Return(readings, int64(3), nil)

	summary, err := f.svc.Summary(context.Background(), patientIdentity(patient), patient.ID, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalReadings)
	assert.Equal(t, 80.0, *summary.AvgHeartRate)
	assert.Equal(t, 60, *summary.MinHeartRate)
	assert.Equal(t, 100, *summary.MaxHeartRate)
	assert.Equal(t, 94.0, *summary.AvgSpO2)
	assert.Equal(t, 91.0, *summary.MinSpO2)
}

func TestSummary_EmptyRange(t *testing.T) {
	f := newVitalFixture()
	patient := patientWithConsent(entity.ShareOn)

	f.vitalRepo.On("FindRange", mock.Anything, patient.ID, mock.Anything, mock.Anything, 0, 0).
		Return([]*entity.VitalSign{}, int64(0), nil)

	summary, err := f.svc.Summary(context.Background(), patientIdentity(patient), patient.ID, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalReadings)
	assert.Nil(t, summary.AvgHeartRate)
}

func TestHistory_ClinicianOfNonPatientIsNotFound(t *testing.T) {
	f := newVitalFixture()
	other := &entity.Account{ID: uuid.New(), Role: entity.RoleClinician, IsActive: true}

	f.accountRepo.On("FindByID", mock.Anything, other.ID).Return(other, nil)

	_, err := f.svc.Latest(context.Background(), clinicianIdentity(), other.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
