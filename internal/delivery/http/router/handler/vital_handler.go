package handler

import (
	"log/slog"
	"net/http"
	"time"

	"adaptiv/internal/delivery/http/response"
	domainerrors "adaptiv/internal/domain/errors"
	"adaptiv/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// VitalHandler holds dependencies for vital-sign telemetry handlers.
type VitalHandler struct {
	uc     usecase.VitalUsecase
	logger *slog.Logger
}

// NewVitalHandler is the constructor for VitalHandler, injected by Fx.
func NewVitalHandler(uc usecase.VitalUsecase, logger *slog.Logger) *VitalHandler {
	return &VitalHandler{uc: uc, logger: logger}
}

type submitVitalRequest struct {
	HeartRate   int       `json:"heartRate" validate:"required"`
	SpO2        *float64  `json:"spo2"`
	SystolicBP  *int      `json:"systolicBp"`
	DiastolicBP *int      `json:"diastolicBp"`
	DeviceID    string    `json:"deviceId" validate:"required"`
	RecordedAt  time.Time `json:"recordedAt"`
}

func (r *submitVitalRequest) toInput() *usecase.SubmitVitalInput {
	return &usecase.SubmitVitalInput{
		HeartRate:   r.HeartRate,
		SpO2:        r.SpO2,
		SystolicBP:  r.SystolicBP,
		DiastolicBP: r.DiastolicBP,
		DeviceID:    r.DeviceID,
		RecordedAt:  r.RecordedAt,
	}
}

// Submit stores one reading and reports how many alerts it fired.
func (h *VitalHandler) Submit(c echo.Context) error {
	ident, err := identity(c)
	if err != nil {
		return err
	}

	var req submitVitalRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid vital sign input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.uc.Submit(c.Request().Context(), ident, req.toInput())
	if err != nil {
		return errors.WithStack(err)
	}

	// Alert payloads are a clinical concern and stay behind the alert
	// endpoints; the device only learns how many fired.
	return response.Success(c, http.StatusCreated, map[string]any{
		"reading":       toVitalJSON(output.Reading),
		"alertsCreated": len(output.Alerts),
	}, "Reading stored")
}

type submitBatchRequest struct {
	Readings []*submitVitalRequest `json:"readings" validate:"required,min=1,dive"`
}

// SubmitBatch stores a batch of readings atomically.
func (h *VitalHandler) SubmitBatch(c echo.Context) error {
	ident, err := identity(c)
	if err != nil {
		return err
	}

	var req submitBatchRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid batch input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	inputs := make([]*usecase.SubmitVitalInput, 0, len(req.Readings))
	for _, reading := range req.Readings {
		inputs = append(inputs, reading.toInput())
	}

	output, err := h.uc.SubmitBatch(c.Request().Context(), ident, inputs)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, map[string]any{
		"readings":      toVitalListJSON(output.Readings),
		"alertsCreated": len(output.Alerts),
	}, "Batch stored")
}

// Latest returns the most recent reading for a patient.
func (h *VitalHandler) Latest(c echo.Context) error {
	ident, err := identity(c)
	if err != nil {
		return err
	}

	patientID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	reading, err := h.uc.Latest(c.Request().Context(), ident, patientID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toVitalJSON(reading), "Latest reading retrieved")
}

// History returns readings in a time range, newest first.
func (h *VitalHandler) History(c echo.Context) error {
	ident, err := identity(c)
	if err != nil {
		return err
	}

	patientID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	input := &usecase.VitalsHistoryInput{PatientID: patientID}
	if err := bindTimeRange(c, &input.From, &input.To); err != nil {
		return err
	}
	if err := echo.QueryParamsBinder(c).
		Int("offset", &input.Offset).
		Int("limit", &input.Limit).
		BindError(); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid pagination parameters")
	}

	output, err := h.uc.History(c.Request().Context(), ident, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"readings": toVitalListJSON(output.Readings),
		"total":    output.Total,
	}, "History retrieved")
}

// Summary aggregates readings over a time range.
func (h *VitalHandler) Summary(c echo.Context) error {
	ident, err := identity(c)
	if err != nil {
		return err
	}

	patientID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var from, to time.Time
	if err := bindTimeRange(c, &from, &to); err != nil {
		return err
	}

	summary, err := h.uc.Summary(c.Request().Context(), ident, patientID, from, to)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, &summaryJSON{
		From:          summary.From,
		To:            summary.To,
		TotalReadings: summary.TotalReadings,
		AvgHeartRate:  summary.AvgHeartRate,
		MinHeartRate:  summary.MinHeartRate,
		MaxHeartRate:  summary.MaxHeartRate,
		AvgSpO2:       summary.AvgSpO2,
		MinSpO2:       summary.MinSpO2,
	}, "Summary retrieved")
}

type summaryJSON struct {
	From          time.Time `json:"from"`
	To            time.Time `json:"to"`
	TotalReadings int       `json:"totalReadings"`
	AvgHeartRate  *float64  `json:"avgHeartRate,omitempty"`
	MinHeartRate  *int      `json:"minHeartRate,omitempty"`
	MaxHeartRate  *int      `json:"maxHeartRate,omitempty"`
	AvgSpO2       *float64  `json:"avgSpo2,omitempty"`
	MinSpO2       *float64  `json:"minSpo2,omitempty"`
}

// bindTimeRange parses optional RFC 3339 from/to query parameters.
func bindTimeRange(c echo.Context, from, to *time.Time) error {
	if err := echo.QueryParamsBinder(c).
		Time("from", from, time.RFC3339).
		Time("to", to, time.RFC3339).
		BindError(); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("from/to must be RFC 3339 timestamps")
	}

	return nil
}
