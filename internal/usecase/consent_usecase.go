package usecase

import (
	"context"

	"adaptiv/internal/domain/entity"
	"adaptiv/internal/domain/guard"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RequestDisableInput is a patient's request to stop sharing data.
type RequestDisableInput struct {
	Reason string
}

// ReviewConsentInput is a clinician's verdict on a pending disable request.
type ReviewConsentInput struct {
	PatientID uuid.UUID
	Decision  entity.ConsentDecision
	Reason    string
}

// --- Output DTOs ---

// ConsentStatusOutput reports a patient's current consent state and whether
// clinicians can currently access the data.
type ConsentStatusOutput struct {
	PatientID uuid.UUID
	Consent   *entity.ConsentRecord
	CanAccess bool
}

// PendingConsentOutput lists accounts awaiting disable-request review.
type PendingConsentOutput struct {
	Patients []*entity.Account
}

// ConsentUsecase defines the interface for the data-sharing consent workflow.
//
// The state machine is patient-driven on entry (request disable, re-enable)
// and clinician-driven on review (approve, reject). Every transition is a
// compare-and-set against the state the caller observed, so concurrent
// transitions cannot silently overwrite each other.
type ConsentUsecase interface {
	// Status returns the consent state of a patient. Patients may read
	// their own; clinicians may read any patient's; admins are excluded.
	Status(ctx context.Context, actor guard.Identity, patientID uuid.UUID) (*ConsentStatusOutput, error)

	// RequestDisable moves the caller's own consent from sharing-on to
	// disable-requested and raises a review alert for clinicians.
	RequestDisable(ctx context.Context, actor guard.Identity, input *RequestDisableInput) (*ConsentStatusOutput, error)

	// EnableSharing moves the caller's own consent from sharing-off back
	// to sharing-on, clearing the request audit trail.
	EnableSharing(ctx context.Context, actor guard.Identity) (*ConsentStatusOutput, error)

	// ListPending returns patients whose disable request awaits review.
	// Clinician only.
	ListPending(ctx context.Context, actor guard.Identity) (*PendingConsentOutput, error)

	// Review applies a clinician's approve/reject verdict to a pending
	// disable request.
	Review(ctx context.Context, actor guard.Identity, input *ReviewConsentInput) (*ConsentStatusOutput, error)
}
