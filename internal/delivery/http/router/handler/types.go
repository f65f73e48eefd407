package handler

import (
	"time"

	deliverycontext "adaptiv/internal/delivery/context"
	domainerrors "adaptiv/internal/domain/errors"
	"adaptiv/internal/domain/entity"
	"adaptiv/internal/domain/guard"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// accountJSON is the public view of an account. Credential material never
// appears here.
type accountJSON struct {
	ID        uuid.UUID    `json:"id"`
	Email     string       `json:"email"`
	FullName  string       `json:"fullName"`
	Role      string       `json:"role"`
	IsActive  bool         `json:"isActive"`
	Consent   *consentJSON `json:"consent,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}

type consentJSON struct {
	State       string     `json:"state"`
	RequestedAt *time.Time `json:"requestedAt,omitempty"`
	ReviewedAt  *time.Time `json:"reviewedAt,omitempty"`
	Decision    *string    `json:"decision,omitempty"`
	Reason      string     `json:"reason,omitempty"`
}

type vitalJSON struct {
	ID          uuid.UUID `json:"id"`
	PatientID   uuid.UUID `json:"patientId"`
	HeartRate   int       `json:"heartRate"`
	SpO2        *float64  `json:"spo2,omitempty"`
	SystolicBP  *int      `json:"systolicBp,omitempty"`
	DiastolicBP *int      `json:"diastolicBp,omitempty"`
	DeviceID    string    `json:"deviceId"`
	RecordedAt  time.Time `json:"recordedAt"`
}

type alertJSON struct {
	ID             uuid.UUID  `json:"id"`
	PatientID      uuid.UUID  `json:"patientId"`
	Type           string     `json:"type"`
	Severity       string     `json:"severity"`
	Title          string     `json:"title"`
	Message        string     `json:"message"`
	ActionRequired string     `json:"actionRequired,omitempty"`
	TriggerValue   float64    `json:"triggerValue"`
	ThresholdValue float64    `json:"thresholdValue"`
	Acknowledged   bool       `json:"acknowledged"`
	AcknowledgedAt *time.Time `json:"acknowledgedAt,omitempty"`
	Resolved       bool       `json:"resolved"`
	ResolvedAt     *time.Time `json:"resolvedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

func toAccountJSON(account *entity.Account) *accountJSON {
	out := &accountJSON{
		ID:        account.ID,
		Email:     account.Email,
		FullName:  account.FullName,
		Role:      account.Role.String(),
		IsActive:  account.IsActive,
		CreatedAt: account.CreatedAt,
	}
	if account.IsPatient() {
		out.Consent = toConsentJSON(account.Consent)
	}

	return out
}

func toConsentJSON(consent *entity.ConsentRecord) *consentJSON {
	if consent == nil {
		return &consentJSON{State: string(entity.ShareOn)}
	}

	out := &consentJSON{
		State:       string(consent.State),
		RequestedAt: consent.RequestedAt,
		ReviewedAt:  consent.ReviewedAt,
		Reason:      consent.Reason,
	}
	if consent.Decision != nil {
		decision := string(*consent.Decision)
		out.Decision = &decision
	}

	return out
}

func toVitalJSON(reading *entity.VitalSign) *vitalJSON {
	return &vitalJSON{
		ID:          reading.ID,
		PatientID:   reading.AccountID,
		HeartRate:   reading.HeartRate,
		SpO2:        reading.SpO2,
		SystolicBP:  reading.SystolicBP,
		DiastolicBP: reading.DiastolicBP,
		DeviceID:    reading.DeviceID,
		RecordedAt:  reading.RecordedAt,
	}
}

func toVitalListJSON(readings []*entity.VitalSign) []*vitalJSON {
	out := make([]*vitalJSON, 0, len(readings))
	for _, reading := range readings {
		out = append(out, toVitalJSON(reading))
	}

	return out
}

func toAlertJSON(alert *entity.Alert) *alertJSON {
	return &alertJSON{
		ID:             alert.ID,
		PatientID:      alert.AccountID,
		Type:           string(alert.Type),
		Severity:       string(alert.Severity),
		Title:          alert.Title,
		Message:        alert.Message,
		ActionRequired: alert.ActionRequired,
		TriggerValue:   alert.TriggerValue,
		ThresholdValue: alert.ThresholdValue,
		Acknowledged:   alert.Acknowledged,
		AcknowledgedAt: alert.AcknowledgedAt,
		Resolved:       alert.Resolved,
		ResolvedAt:     alert.ResolvedAt,
		CreatedAt:      alert.CreatedAt,
	}
}

func toAlertListJSON(alerts []*entity.Alert) []*alertJSON {
	out := make([]*alertJSON, 0, len(alerts))
	for _, alert := range alerts {
		out = append(out, toAlertJSON(alert))
	}

	return out
}

// identity pulls the authenticated caller set by the auth middleware.
func identity(c echo.Context) (guard.Identity, error) {
	ident, ok := deliverycontext.GetIdentity(c)
	if !ok {
		return guard.Identity{}, domainerrors.ErrTokenInvalid
	}

	return ident, nil
}

// pathUUID parses a UUID path parameter.
func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domainerrors.ErrValidationFailed.WithDetails("invalid " + name + " path parameter")
	}

	return id, nil
}
