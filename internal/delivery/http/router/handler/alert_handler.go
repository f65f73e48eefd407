package handler

import (
	"log/slog"
	"net/http"

	"adaptiv/internal/delivery/http/response"
	"adaptiv/internal/domain/entity"
	domainerrors "adaptiv/internal/domain/errors"
	"adaptiv/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AlertHandler holds dependencies for alert management handlers.
type AlertHandler struct {
	uc     usecase.AlertUsecase
	logger *slog.Logger
}

// NewAlertHandler is the constructor for AlertHandler, injected by Fx.
func NewAlertHandler(uc usecase.AlertUsecase, logger *slog.Logger) *AlertHandler {
	return &AlertHandler{uc: uc, logger: logger}
}

// List returns alerts for a patient, newest first.
func (h *AlertHandler) List(c echo.Context) error {
	ident, err := identity(c)
	if err != nil {
		return err
	}

	patientID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	input := &usecase.ListAlertsInput{PatientID: patientID}
	if err := echo.QueryParamsBinder(c).
		Int("offset", &input.Offset).
		Int("limit", &input.Limit).
		BindError(); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid pagination parameters")
	}

	if raw := c.QueryParam("acknowledged"); raw != "" {
		acknowledged := raw == "true"
		input.Acknowledged = &acknowledged
	}
	if raw := c.QueryParam("severity"); raw != "" {
		severity := entity.Severity(raw)
		if !severity.IsValid() {
			return domainerrors.ErrValidationFailed.WithDetails("invalid severity filter")
		}
		input.Severity = &severity
	}

	output, err := h.uc.List(c.Request().Context(), ident, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"alerts": toAlertListJSON(output.Alerts),
		"total":  output.Total,
	}, "Alerts retrieved")
}

// Acknowledge marks an alert as seen.
func (h *AlertHandler) Acknowledge(c echo.Context) error {
	ident, err := identity(c)
	if err != nil {
		return err
	}

	alertID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	alert, err := h.uc.Acknowledge(c.Request().Context(), ident, alertID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toAlertJSON(alert), "Alert acknowledged")
}

// Resolve closes an alert.
func (h *AlertHandler) Resolve(c echo.Context) error {
	ident, err := identity(c)
	if err != nil {
		return err
	}

	alertID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	alert, err := h.uc.Resolve(c.Request().Context(), ident, alertID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toAlertJSON(alert), "Alert resolved")
}
