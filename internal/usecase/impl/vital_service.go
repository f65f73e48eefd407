package impl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	deliverycontext "adaptiv/internal/delivery/context"
	"adaptiv/internal/domain/alerting"
	"adaptiv/internal/domain/entity"
	domainerrors "adaptiv/internal/domain/errors"
	"adaptiv/internal/domain/guard"
	"adaptiv/internal/domain/repository"
	"adaptiv/internal/obs"
	"adaptiv/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// vitalService implements the VitalUsecase interface.
type vitalService struct {
	txManager   repository.TransactionManager
	accountRepo repository.AccountRepository
	vitalRepo   repository.VitalRepository
	logger      *slog.Logger
}

// VitalServiceParams holds dependencies for vitalService, injected by Fx.
type VitalServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	AccountRepo repository.AccountRepository
	VitalRepo   repository.VitalRepository
	Logger      *slog.Logger
}

// NewVitalService is the constructor for vitalService.
func NewVitalService(params VitalServiceParams) usecase.VitalUsecase {
	return &vitalService{
		txManager:   params.TxManager,
		accountRepo: params.AccountRepo,
		vitalRepo:   params.VitalRepo,
		logger:      params.Logger,
	}
}

func (srv *vitalService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Submit stores one reading and evaluates the alert thresholds. The reading
// and any alerts it fires commit in a single transaction: if an alert
// cannot be persisted, the reading rolls back too, because a stored
// abnormal reading with a lost alarm is the worst possible outcome.
func (srv *vitalService) Submit(ctx context.Context, actor guard.Identity, input *usecase.SubmitVitalInput) (*usecase.SubmitVitalOutput, error) {
	out, err := srv.SubmitBatch(ctx, actor, []*usecase.SubmitVitalInput{input})
	if err != nil {
		return nil, err
	}

	return &usecase.SubmitVitalOutput{
		Reading: out.Readings[0],
		Alerts:  out.Alerts,
	}, nil
}

// SubmitBatch stores up to MaxBatchSize readings atomically. Validation is
// all-or-nothing: one implausible reading rejects the whole batch before
// anything touches the database.
func (srv *vitalService) SubmitBatch(ctx context.Context, actor guard.Identity, inputs []*usecase.SubmitVitalInput) (*usecase.SubmitBatchOutput, error) {
	if err := guard.RequirePatient(actor); err != nil {
		obs.RecordDenial(denialReason(err))

		return nil, err
	}

	if len(inputs) == 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("batch is empty")
	}
	if len(inputs) > usecase.MaxBatchSize {
		return nil, domainerrors.ErrValidationFailed.WithDetails(
			fmt.Sprintf("batch exceeds the maximum of %d readings", usecase.MaxBatchSize),
		)
	}

	now := time.Now()
	readings := make([]*entity.VitalSign, 0, len(inputs))
	for i, input := range inputs {
		reading := &entity.VitalSign{
			AccountID:   actor.AccountID,
			HeartRate:   input.HeartRate,
			SpO2:        input.SpO2,
			SystolicBP:  input.SystolicBP,
			DiastolicBP: input.DiastolicBP,
			DeviceID:    input.DeviceID,
			RecordedAt:  input.RecordedAt,
		}
		if reading.RecordedAt.IsZero() {
			reading.RecordedAt = now
		}
		if !reading.Plausible() {
			return nil, domainerrors.ErrValidationFailed.WithDetails(
				fmt.Sprintf("reading %d: heart rate %d is outside the plausible range %d-%d",
					i, reading.HeartRate, entity.MinPlausibleHeartRate, entity.MaxPlausibleHeartRate),
			)
		}
		readings = append(readings, reading)
	}

	var firedAlerts []*entity.Alert
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		vitalRepo := repoFactory.VitalRepo()
		alertRepo := repoFactory.AlertRepo()

		for _, reading := range readings {
			if err := vitalRepo.Create(ctx, reading); err != nil {
				return errors.Wrap(err, "failed to store reading")
			}

			for _, alert := range alerting.Evaluate(actor.AccountID, reading, now) {
				stored, err := srv.storeDeduped(ctx, alertRepo, alert, now)
				if err != nil {
					return err
				}
				firedAlerts = append(firedAlerts, stored)
			}
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Batch submit transaction failed",
			slog.Any("patientID", actor.AccountID),
			slog.Int("readings", len(readings)),
			slog.Any("error", err),
		)

		return nil, err
	}

	if len(firedAlerts) > 0 {
		srv.log(ctx).Warn("Readings fired alerts",
			slog.Any("patientID", actor.AccountID),
			slog.Int("alerts", len(firedAlerts)),
		)
	}

	return &usecase.SubmitBatchOutput{Readings: readings, Alerts: firedAlerts}, nil
}

// storeDeduped persists an alert, collapsing it into an existing active
// alert of the same type within the dedup window. The newest trigger value
// wins so the record reflects the latest observation, not the first.
func (srv *vitalService) storeDeduped(ctx context.Context, alertRepo repository.AlertRepository, alert *entity.Alert, now time.Time) (*entity.Alert, error) {
	since := now.Add(-entity.DedupWindow)

	existing, err := alertRepo.FindActiveSince(ctx, alert.AccountID, alert.Type, since)
	if err == nil {
		if err := alertRepo.Supersede(ctx, existing.ID, alert.TriggerValue, alert.Message, now); err != nil {
			return nil, errors.Wrap(err, "failed to supersede alert")
		}
		existing.TriggerValue = alert.TriggerValue
		existing.Message = alert.Message
		obs.RecordAlertSuperseded()

		return existing, nil
	}
	if !errors.Is(err, repository.ErrAlertNotFound) {
		return nil, errors.Wrap(err, "failed to check for active alert")
	}

	if err := alertRepo.Create(ctx, alert); err != nil {
		return nil, errors.Wrap(err, "failed to create alert")
	}
	obs.RecordAlertCreated(string(alert.Type), string(alert.Severity))

	return alert, nil
}

// Latest returns the most recent reading for the patient.
func (srv *vitalService) Latest(ctx context.Context, actor guard.Identity, patientID uuid.UUID) (*entity.VitalSign, error) {
	if err := srv.authorizeRead(ctx, actor, patientID); err != nil {
		return nil, err
	}

	reading, err := srv.vitalRepo.FindLatest(ctx, patientID)
	if errors.Is(err, repository.ErrVitalNotFound) {
		return nil, domainerrors.ErrNotFound.WithDetails("no readings recorded")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load latest reading")
	}

	return reading, nil
}

// History returns readings in a time range, newest first.
func (srv *vitalService) History(ctx context.Context, actor guard.Identity, input *usecase.VitalsHistoryInput) (*usecase.VitalsHistoryOutput, error) {
	if err := srv.authorizeRead(ctx, actor, input.PatientID); err != nil {
		return nil, err
	}

	from, to := normalizeRange(input.From, input.To)
	limit := input.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	readings, total, err := srv.vitalRepo.FindRange(ctx, input.PatientID, from, to, input.Offset, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load reading history")
	}

	return &usecase.VitalsHistoryOutput{Readings: readings, Total: total}, nil
}

// Summary aggregates readings over a time range for dashboards.
func (srv *vitalService) Summary(ctx context.Context, actor guard.Identity, patientID uuid.UUID, from, to time.Time) (*entity.VitalsSummary, error) {
	if err := srv.authorizeRead(ctx, actor, patientID); err != nil {
		return nil, err
	}

	from, to = normalizeRange(from, to)

	readings, _, err := srv.vitalRepo.FindRange(ctx, patientID, from, to, 0, 0)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load readings for summary")
	}

	return summarize(readings, from, to), nil
}

// authorizeRead enforces the read-access policy for clinical data:
// self-access always wins, clinicians pass the role guard and then the
// consent gate, and admins never get through.
func (srv *vitalService) authorizeRead(ctx context.Context, actor guard.Identity, patientID uuid.UUID) error {
	if actor.IsSelf(patientID) {
		return nil
	}

	if err := guard.RequireClinician(actor); err != nil {
		obs.RecordDenial(denialReason(err))

		return err
	}

	patient, err := srv.accountRepo.FindByID(ctx, patientID)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return domainerrors.ErrNotFound
	}
	if err != nil {
		return errors.Wrap(err, "failed to load patient for access check")
	}

	if !patient.IsPatient() {
		return domainerrors.ErrNotFound.WithDetails("no such patient")
	}

	if !patient.ConsentState().AllowsClinicianAccess() {
		srv.log(ctx).Warn("Clinician access blocked by consent",
			slog.Any("clinicianID", actor.AccountID),
			slog.Any("patientID", patientID),
		)
		obs.RecordDenial(domainerrors.ErrConsentDenied.ErrorCode())

		return domainerrors.ErrConsentDenied
	}

	return nil
}

// normalizeRange substitutes sane defaults for open-ended range bounds.
func normalizeRange(from, to time.Time) (time.Time, time.Time) {
	if to.IsZero() {
		to = time.Now()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -7)
	}

	return from, to
}

// summarize computes the aggregate view of a set of readings.
func summarize(readings []*entity.VitalSign, from, to time.Time) *entity.VitalsSummary {
	summary := &entity.VitalsSummary{
		From:          from,
		To:            to,
		TotalReadings: len(readings),
	}
	if len(readings) == 0 {
		return summary
	}

	var hrSum int
	minHR, maxHR := readings[0].HeartRate, readings[0].HeartRate

	var spo2Sum float64
	var spo2Count int
	var minSpO2 *float64

	for _, r := range readings {
		hrSum += r.HeartRate
		if r.HeartRate < minHR {
			minHR = r.HeartRate
		}
		if r.HeartRate > maxHR {
			maxHR = r.HeartRate
		}

		if r.SpO2 != nil {
			spo2Sum += *r.SpO2
			spo2Count++
			if minSpO2 == nil || *r.SpO2 < *minSpO2 {
				v := *r.SpO2
				minSpO2 = &v
			}
		}
	}

	avgHR := float64(hrSum) / float64(len(readings))
	summary.AvgHeartRate = &avgHR
	summary.MinHeartRate = &minHR
	summary.MaxHeartRate = &maxHR

	if spo2Count > 0 {
		avgSpO2 := spo2Sum / float64(spo2Count)
		summary.AvgSpO2 = &avgSpO2
		summary.MinSpO2 = minSpO2
	}

	return summary
}
