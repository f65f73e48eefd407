// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// AlertType enumerates the clinical conditions the system can flag.
type AlertType string

const (
	// AlertHighHeartRate fires when heart rate exceeds the tachycardia threshold.
	AlertHighHeartRate AlertType = "high_heart_rate"
	// AlertLowSpO2 fires when blood oxygen saturation falls below the safe floor.
	AlertLowSpO2 AlertType = "low_spo2"
	// AlertHighBloodPressure fires when systolic pressure exceeds the hypertension threshold.
	AlertHighBloodPressure AlertType = "high_blood_pressure"
	// AlertConsentDisableRequested notifies clinicians that a patient asked
	// to stop sharing data and the request awaits review.
	AlertConsentDisableRequested AlertType = "consent_disable_request"
)

// Severity classifies how urgent an alert is. Maps to UI colours and
// notification priority downstream.
type Severity string

const (
	SeverityInfo      Severity = "info"
	SeverityWarning   Severity = "warning"
	SeverityCritical  Severity = "critical"
	SeverityEmergency Severity = "emergency"
)

// IsValid checks if the Severity is a valid value.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityCritical, SeverityEmergency:
		return true
	default:
		return false
	}
}

// DedupWindow is the span within which repeated alerts of the same
// (account, type) are collapsed into one active record. The newest trigger
// supersedes the older one instead of growing a backlog during a sustained
// abnormal reading stream.
const DedupWindow = 5 * time.Minute

// Alert records a safety notification created when a reading breaches a
// clinical threshold or when a consent event needs clinician attention.
// Alerts are immutable once created except for the acknowledgement and
// resolution fields, which only a clinician or the patient may set.
type Alert struct {
	ID             uuid.UUID
	AccountID      uuid.UUID // The patient the alert concerns.
	Type           AlertType
	Severity       Severity
	Title          string  // Short title for notification surfaces.
	Message        string  // User-facing description.
	ActionRequired string  // What the reader should do about it.
	TriggerValue   float64 // The observed value that fired the rule.
	ThresholdValue float64 // The policy constant that was breached.
	Acknowledged   bool
	AcknowledgedAt *time.Time
	AcknowledgedBy *uuid.UUID
	Resolved       bool
	ResolvedAt     *time.Time
	CreatedAt      time.Time
}
