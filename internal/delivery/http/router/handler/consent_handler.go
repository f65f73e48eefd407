package handler

import (
	"log/slog"
	"net/http"
	"time"

	"adaptiv/internal/delivery/http/response"
	"adaptiv/internal/domain/entity"
	"adaptiv/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ConsentHandler holds dependencies for the consent workflow handlers.
type ConsentHandler struct {
	uc     usecase.ConsentUsecase
	logger *slog.Logger
}

// NewConsentHandler is the constructor for ConsentHandler, injected by Fx.
func NewConsentHandler(uc usecase.ConsentUsecase, logger *slog.Logger) *ConsentHandler {
	return &ConsentHandler{uc: uc, logger: logger}
}

type consentStatusJSON struct {
	PatientID uuid.UUID    `json:"patientId"`
	Consent   *consentJSON `json:"consent"`
	CanAccess bool         `json:"canAccess"`
}

func toConsentStatusJSON(output *usecase.ConsentStatusOutput) *consentStatusJSON {
	return &consentStatusJSON{
		PatientID: output.PatientID,
		Consent:   toConsentJSON(output.Consent),
		CanAccess: output.CanAccess,
	}
}

// Status returns the consent state of a patient.
func (h *ConsentHandler) Status(c echo.Context) error {
	ident, err := identity(c)
	if err != nil {
		return err
	}

	patientID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	output, err := h.uc.Status(c.Request().Context(), ident, patientID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toConsentStatusJSON(output), "Consent status retrieved")
}

type requestDisableRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// RequestDisable moves the caller's consent to pending-review.
func (h *ConsentHandler) RequestDisable(c echo.Context) error {
	ident, err := identity(c)
	if err != nil {
		return err
	}

	var req requestDisableRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid disable request input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.uc.RequestDisable(c.Request().Context(), ident, &usecase.RequestDisableInput{
		Reason: req.Reason,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusAccepted, toConsentStatusJSON(output), "Disable request submitted for review")
}

// EnableSharing re-enables sharing for the caller.
func (h *ConsentHandler) EnableSharing(c echo.Context) error {
	ident, err := identity(c)
	if err != nil {
		return err
	}

	output, err := h.uc.EnableSharing(c.Request().Context(), ident)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toConsentStatusJSON(output), "Sharing enabled")
}

type pendingConsentJSON struct {
	PatientID   uuid.UUID  `json:"patientId"`
	FullName    string     `json:"fullName"`
	RequestedAt *time.Time `json:"requestedAt,omitempty"`
	Reason      string     `json:"reason,omitempty"`
}

// ListPending returns patients whose disable request awaits review.
func (h *ConsentHandler) ListPending(c echo.Context) error {
	ident, err := identity(c)
	if err != nil {
		return err
	}

	output, err := h.uc.ListPending(c.Request().Context(), ident)
	if err != nil {
		return errors.WithStack(err)
	}

	pending := make([]*pendingConsentJSON, 0, len(output.Patients))
	for _, patient := range output.Patients {
		item := &pendingConsentJSON{
			PatientID: patient.ID,
			FullName:  patient.FullName,
		}
		if patient.Consent != nil {
			item.RequestedAt = patient.Consent.RequestedAt
			item.Reason = patient.Consent.Reason
		}
		pending = append(pending, item)
	}

	return response.Success(c, http.StatusOK, pending, "Pending consent requests retrieved")
}

type reviewConsentRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
	Reason   string `json:"reason" validate:"max=500"`
}

// Review applies a clinician's verdict to a pending disable request.
func (h *ConsentHandler) Review(c echo.Context) error {
	ident, err := identity(c)
	if err != nil {
		return err
	}

	patientID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req reviewConsentRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid review input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.uc.Review(c.Request().Context(), ident, &usecase.ReviewConsentInput{
		PatientID: patientID,
		Decision:  entity.ConsentDecision(req.Decision),
		Reason:    req.Reason,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toConsentStatusJSON(output), "Consent request reviewed")
}
