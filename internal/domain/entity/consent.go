// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// ShareState is the patient-controlled consent state gating clinician access
// to that patient's protected health information.
//
// The state machine is strictly monotonic:
//
//	ShareOn  → patient requests disable → ShareDisableRequested
//	ShareDisableRequested → clinician approves → ShareOff
//	ShareDisableRequested → clinician rejects  → ShareOn
//	ShareOff → patient re-enables → ShareOn
//
// No transition may skip a state.
type ShareState string

const (
	// ShareOn is the initial state for every patient account: clinicians
	// may view the patient's data.
	ShareOn ShareState = "SHARING_ON"
	// ShareDisableRequested means the patient has asked to stop sharing and
	// a clinician has not yet reviewed the request. Access persists through
	// the review window so care is not interrupted.
	ShareDisableRequested ShareState = "SHARING_DISABLE_REQUESTED"
	// ShareOff means a clinician approved the disable request; clinician
	// access is blocked until the patient re-enables sharing.
	ShareOff ShareState = "SHARING_OFF"
)

// IsValid checks if the ShareState is a valid value.
func (s ShareState) IsValid() bool {
	switch s {
	case ShareOn, ShareDisableRequested, ShareOff:
		return true
	default:
		return false
	}
}

// AllowsClinicianAccess reports whether a clinician may view data in this
// state. A pending disable request does not itself block access; only a
// completed approval (ShareOff) does.
func (s ShareState) AllowsClinicianAccess() bool {
	return s == ShareOn || s == ShareDisableRequested
}

// ConsentDecision is a clinician's verdict on a pending disable request.
type ConsentDecision string

const (
	ConsentApprove ConsentDecision = "approve"
	ConsentReject  ConsentDecision = "reject"
)

// IsValid checks if the ConsentDecision is a valid value.
func (d ConsentDecision) IsValid() bool {
	return d == ConsentApprove || d == ConsentReject
}

// ConsentRecord captures a patient account's share state together with the
// audit trail of the most recent disable request and its review.
// RequestedBy is always the patient themselves; ReviewedBy is always a
// clinician.
type ConsentRecord struct {
	State       ShareState
	RequestedAt *time.Time
	RequestedBy *uuid.UUID
	ReviewedAt  *time.Time
	ReviewedBy  *uuid.UUID
	Decision    *ConsentDecision
	Reason      string // Bounded free text supplied by the patient or reviewer.
}

// Cleared returns a fresh sharing-on record with all request/review metadata
// removed, used when a patient re-enables sharing.
func (c ConsentRecord) Cleared() ConsentRecord {
	return ConsentRecord{State: ShareOn}
}
