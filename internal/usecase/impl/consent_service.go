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

// consentService implements the ConsentUsecase interface.
type consentService struct {
	txManager   repository.TransactionManager
	accountRepo repository.AccountRepository
	logger      *slog.Logger
}

// ConsentServiceParams holds dependencies for consentService, injected by Fx.
type ConsentServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	AccountRepo repository.AccountRepository
	Logger      *slog.Logger
}

// NewConsentService is the constructor for consentService.
func NewConsentService(params ConsentServiceParams) usecase.ConsentUsecase {
	return &consentService{
		txManager:   params.TxManager,
		accountRepo: params.AccountRepo,
		logger:      params.Logger,
	}
}

func (srv *consentService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Status returns a patient's consent state. Patients read their own
// regardless of anything else; clinicians read any patient's; admins are
// excluded entirely.
func (srv *consentService) Status(ctx context.Context, actor guard.Identity, patientID uuid.UUID) (*usecase.ConsentStatusOutput, error) {
	if !actor.IsSelf(patientID) {
		if err := guard.RequireClinician(actor); err != nil {
			obs.RecordDenial(denialReason(err))

			return nil, err
		}
	}

	patient, err := srv.loadPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	return consentOutput(patient), nil
}

// RequestDisable moves the caller's consent from sharing-on to
// disable-requested and raises a review alert for clinicians. The state
// write and the alert commit together: a pending request without its review
// alert would sit invisible in the queue.
func (srv *consentService) RequestDisable(ctx context.Context, actor guard.Identity, input *usecase.RequestDisableInput) (*usecase.ConsentStatusOutput, error) {
	if err := guard.RequirePatient(actor); err != nil {
		obs.RecordDenial(denialReason(err))

		return nil, err
	}

	patient, err := srv.loadPatient(ctx, actor.AccountID)
	if err != nil {
		return nil, err
	}

	switch patient.ConsentState() {
	case entity.ShareDisableRequested:
		return nil, domainerrors.ErrConsentAlreadyPending
	case entity.ShareOff:
		return nil, domainerrors.ErrConsentInvalidTransition.WithDetails("sharing is already disabled")
	}

	now := time.Now()
	consent := entity.ConsentRecord{
		State:       entity.ShareDisableRequested,
		RequestedAt: &now,
		RequestedBy: &actor.AccountID,
		Reason:      input.Reason,
	}

	reviewAlert := &entity.Alert{
		AccountID:      actor.AccountID,
		Type:           entity.AlertConsentDisableRequested,
		Severity:       entity.SeverityWarning,
		Title:          "Data Sharing Disable Requested",
		Message:        "The patient has requested to stop sharing health data. Review the request before access is revoked.",
		ActionRequired: "Approve or reject the pending disable request.",
		CreatedAt:      now,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.AccountRepo().UpdateConsent(ctx, actor.AccountID, entity.ShareOn, consent); err != nil {
			return err
		}

		return repoFactory.AlertRepo().Create(ctx, reviewAlert)
	})
	if errors.Is(err, repository.ErrStaleConsentState) {
		return nil, domainerrors.ErrConsentAlreadyPending
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to request sharing disable")
	}

	srv.log(ctx).Info("Sharing disable requested", slog.Any("patientID", actor.AccountID))
	obs.RecordAlertCreated(string(reviewAlert.Type), string(reviewAlert.Severity))

	patient.Consent = &consent

	return consentOutput(patient), nil
}

// EnableSharing moves the caller's consent from sharing-off back to
// sharing-on. Re-enabling is patient-only and needs no review: turning
// sharing on can only widen the patient's own disclosure.
func (srv *consentService) EnableSharing(ctx context.Context, actor guard.Identity) (*usecase.ConsentStatusOutput, error) {
	if err := guard.RequirePatient(actor); err != nil {
		obs.RecordDenial(denialReason(err))

		return nil, err
	}

	patient, err := srv.loadPatient(ctx, actor.AccountID)
	if err != nil {
		return nil, err
	}

	switch patient.ConsentState() {
	case entity.ShareOn:
		return nil, domainerrors.ErrConsentInvalidTransition.WithDetails("sharing is already enabled")
	case entity.ShareDisableRequested:
		// The pending request must be reviewed first; skipping the review
		// would let the queue accumulate dangling requests.
		return nil, domainerrors.ErrConsentInvalidTransition.WithDetails("a disable request is pending review")
	}

	cleared := patient.Consent.Cleared()
	err = srv.accountRepo.UpdateConsent(ctx, actor.AccountID, entity.ShareOff, cleared)
	if errors.Is(err, repository.ErrStaleConsentState) {
		return nil, domainerrors.ErrConsentInvalidTransition
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to re-enable sharing")
	}

	srv.log(ctx).Info("Sharing re-enabled", slog.Any("patientID", actor.AccountID))

	patient.Consent = &cleared

	return consentOutput(patient), nil
}

// ListPending returns patients whose disable request awaits review, oldest
// first. Clinician only.
func (srv *consentService) ListPending(ctx context.Context, actor guard.Identity) (*usecase.PendingConsentOutput, error) {
	if err := guard.RequireClinician(actor); err != nil {
		obs.RecordDenial(denialReason(err))

		return nil, err
	}

	patients, err := srv.accountRepo.ListPendingConsent(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list pending consent requests")
	}

	return &usecase.PendingConsentOutput{Patients: patients}, nil
}

// Review applies a clinician's verdict to a pending disable request.
// Approve completes the shutoff; reject restores sharing. Either way the
// request leaves the queue and the audit trail records who decided.
func (srv *consentService) Review(ctx context.Context, actor guard.Identity, input *usecase.ReviewConsentInput) (*usecase.ConsentStatusOutput, error) {
	if err := guard.RequireClinician(actor); err != nil {
		obs.RecordDenial(denialReason(err))

		return nil, err
	}

	if !input.Decision.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("decision must be approve or reject")
	}

	patient, err := srv.loadPatient(ctx, input.PatientID)
	if err != nil {
		return nil, err
	}

	if patient.ConsentState() != entity.ShareDisableRequested {
		return nil, domainerrors.ErrConsentInvalidTransition.WithDetails("no disable request is pending for this patient")
	}

	now := time.Now()
	decision := input.Decision
	newState := entity.ShareOn
	if decision == entity.ConsentApprove {
		newState = entity.ShareOff
	}

	consent := entity.ConsentRecord{
		State:      newState,
		ReviewedAt: &now,
		ReviewedBy: &actor.AccountID,
		Decision:   &decision,
		Reason:     input.Reason,
	}
	if decision == entity.ConsentApprove {
		// The approved shutoff keeps the request stamps as its audit trail.
		// A rejected request is void, so its metadata is cleared.
		consent.RequestedAt = patient.Consent.RequestedAt
		consent.RequestedBy = patient.Consent.RequestedBy
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.AccountRepo().UpdateConsent(ctx, input.PatientID, entity.ShareDisableRequested, consent); err != nil {
			return err
		}

		return srv.resolveReviewAlert(ctx, repoFactory.AlertRepo(), patient, now)
	})
	if errors.Is(err, repository.ErrStaleConsentState) {
		return nil, domainerrors.ErrConsentInvalidTransition.WithDetails("the request was already reviewed")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to review consent request")
	}

	srv.log(ctx).Info("Consent request reviewed",
		slog.Any("patientID", input.PatientID),
		slog.Any("reviewerID", actor.AccountID),
		slog.String("decision", string(decision)),
	)

	patient.Consent = &consent

	return consentOutput(patient), nil
}

// resolveReviewAlert closes the review alert raised by the disable request,
// if one is still open.
func (srv *consentService) resolveReviewAlert(ctx context.Context, alertRepo repository.AlertRepository, patient *entity.Account, now time.Time) error {
	since := time.Time{}
	if patient.Consent != nil && patient.Consent.RequestedAt != nil {
		since = *patient.Consent.RequestedAt
	}

	alert, err := alertRepo.FindActiveSince(ctx, patient.ID, entity.AlertConsentDisableRequested, since)
	if errors.Is(err, repository.ErrAlertNotFound) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "failed to find review alert")
	}

	alert.Resolved = true
	alert.ResolvedAt = &now

	return alertRepo.Update(ctx, alert)
}

// loadPatient fetches an account and confirms it is an active patient.
func (srv *consentService) loadPatient(ctx context.Context, patientID uuid.UUID) (*entity.Account, error) {
	account, err := srv.accountRepo.FindByID(ctx, patientID)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return nil, domainerrors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load patient account")
	}

	if !account.IsPatient() {
		return nil, domainerrors.ErrNotFound.WithDetails("no such patient")
	}

	return account, nil
}

func consentOutput(patient *entity.Account) *usecase.ConsentStatusOutput {
	return &usecase.ConsentStatusOutput{
		PatientID: patient.ID,
		Consent:   patient.Consent,
		CanAccess: patient.ConsentState().AllowsClinicianAccess(),
	}
}

// denialReason maps an authorization error to its metric label.
func denialReason(err error) string {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr.ErrorCode()
	}

	return "UNKNOWN"
}
