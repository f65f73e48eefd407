package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "adaptiv/internal/delivery/context"
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

// alertService implements the AlertUsecase interface.
type alertService struct {
	accountRepo repository.AccountRepository
	alertRepo   repository.AlertRepository
	logger      *slog.Logger
}

// AlertServiceParams holds dependencies for alertService, injected by Fx.
type AlertServiceParams struct {
	fx.In

	AccountRepo repository.AccountRepository
	AlertRepo   repository.AlertRepository
	Logger      *slog.Logger
}

// NewAlertService is the constructor for alertService.
func NewAlertService(params AlertServiceParams) usecase.AlertUsecase {
	return &alertService{
		accountRepo: params.AccountRepo,
		alertRepo:   params.AlertRepo,
		logger:      params.Logger,
	}
}

func (srv *alertService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// List returns alerts for a patient, newest first. Access follows the same
// policy as the underlying vitals.
func (srv *alertService) List(ctx context.Context, actor guard.Identity, input *usecase.ListAlertsInput) (*usecase.ListAlertsOutput, error) {
	if err := srv.authorizeRead(ctx, actor, input.PatientID); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	alerts, total, err := srv.alertRepo.ListByAccount(ctx, input.PatientID, repository.AlertListFilter{
		Acknowledged: input.Acknowledged,
		Severity:     input.Severity,
		Offset:       input.Offset,
		Limit:        limit,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list alerts")
	}

	return &usecase.ListAlertsOutput{Alerts: alerts, Total: total}, nil
}

// Acknowledge marks an alert as seen by the patient themselves or by a
// clinician with access. Acknowledging is idempotent.
func (srv *alertService) Acknowledge(ctx context.Context, actor guard.Identity, alertID uuid.UUID) (*entity.Alert, error) {
	alert, err := srv.loadAuthorized(ctx, actor, alertID)
	if err != nil {
		return nil, err
	}

	if alert.Acknowledged {
		return alert, nil
	}

	now := time.Now()
	alert.Acknowledged = true
	alert.AcknowledgedAt = &now
	alert.AcknowledgedBy = &actor.AccountID

	if err := srv.alertRepo.Update(ctx, alert); err != nil {
		return nil, errors.Wrap(err, "failed to acknowledge alert")
	}

	srv.log(ctx).Info("Alert acknowledged", slog.Any("alertID", alertID), slog.Any("byID", actor.AccountID))

	return alert, nil
}

// Resolve closes an alert. Clinician only: resolution asserts the clinical
// condition was handled, which a patient cannot self-certify.
func (srv *alertService) Resolve(ctx context.Context, actor guard.Identity, alertID uuid.UUID) (*entity.Alert, error) {
	if err := guard.RequireClinician(actor); err != nil {
		obs.RecordDenial(denialReason(err))

		return nil, err
	}

	alert, err := srv.loadAuthorized(ctx, actor, alertID)
	if err != nil {
		return nil, err
	}

	if alert.Resolved {
		return alert, nil
	}

	now := time.Now()
	alert.Resolved = true
	alert.ResolvedAt = &now
	if !alert.Acknowledged {
		alert.Acknowledged = true
		alert.AcknowledgedAt = &now
		alert.AcknowledgedBy = &actor.AccountID
	}

	if err := srv.alertRepo.Update(ctx, alert); err != nil {
		return nil, errors.Wrap(err, "failed to resolve alert")
	}

	srv.log(ctx).Info("Alert resolved", slog.Any("alertID", alertID), slog.Any("clinicianID", actor.AccountID))

	return alert, nil
}

// loadAuthorized fetches an alert and applies the read-access policy to the
// patient it belongs to.
func (srv *alertService) loadAuthorized(ctx context.Context, actor guard.Identity, alertID uuid.UUID) (*entity.Alert, error) {
	alert, err := srv.alertRepo.FindByID(ctx, alertID)
	if errors.Is(err, repository.ErrAlertNotFound) {
		return nil, domainerrors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load alert")
	}

	if err := srv.authorizeRead(ctx, actor, alert.AccountID); err != nil {
		return nil, err
	}

	return alert, nil
}

// authorizeRead mirrors the vitals read policy: self always, clinicians
// through the consent gate, admins never.
func (srv *alertService) authorizeRead(ctx context.Context, actor guard.Identity, patientID uuid.UUID) error {
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

	if !patient.ConsentState().AllowsClinicianAccess() {
		obs.RecordDenial(domainerrors.ErrConsentDenied.ErrorCode())

		return domainerrors.ErrConsentDenied
	}

	return nil
}
