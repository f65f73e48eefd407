package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	deliverycontext "adaptiv/internal/delivery/context"
	"adaptiv/internal/delivery/http/validator"
	"adaptiv/internal/domain/entity"
	"adaptiv/internal/domain/guard"
	mockuc "adaptiv/internal/mocks/usecase"
	"adaptiv/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func submitRequest(t *testing.T, body string, ident guard.Identity) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = validator.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/vitals", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	deliverycontext.SetIdentity(c, ident)

	return c, rec
}

func recordedData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body.Data
}

func TestSubmit_ReportsAlertCountNotPayloads(t *testing.T) {
	uc := new(mockuc.VitalUsecase)
	h := NewVitalHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ident := guard.Identity{AccountID: uuid.New(), Role: entity.RolePatient}

	reading := &entity.VitalSign{ID: uuid.New(), AccountID: ident.AccountID, HeartRate: 190, DeviceID: "dev-1"}
	fired := []*entity.Alert{{ID: uuid.New(), AccountID: ident.AccountID, Type: entity.AlertHighHeartRate, Severity: entity.SeverityCritical}}
	uc.On("Submit", mock.Anything, ident, mock.Anything).
		Return(&usecase.SubmitVitalOutput{Reading: reading, Alerts: fired}, nil)

	c, rec := submitRequest(t, `{"heartRate":190,"deviceId":"dev-1"}`, ident)
	require.NoError(t, h.Submit(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	data := recordedData(t, rec)
	// The device learns how many alerts fired, never their content.
	assert.Equal(t, float64(1), data["alertsCreated"])
	assert.NotContains(t, data, "alerts")
	assert.NotContains(t, rec.Body.String(), string(entity.AlertHighHeartRate))
}

func TestSubmitBatch_ReportsAlertCount(t *testing.T) {
	uc := new(mockuc.VitalUsecase)
	h := NewVitalHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ident := guard.Identity{AccountID: uuid.New(), Role: entity.RolePatient}

	readings := []*entity.VitalSign{
		{ID: uuid.New(), AccountID: ident.AccountID, HeartRate: 72, DeviceID: "dev-1"},
		{ID: uuid.New(), AccountID: ident.AccountID, HeartRate: 190, DeviceID: "dev-1"},
	}
	fired := []*entity.Alert{{ID: uuid.New(), AccountID: ident.AccountID, Type: entity.AlertHighHeartRate, Severity: entity.SeverityCritical}}
	uc.On("SubmitBatch", mock.Anything, ident, mock.Anything).
		Return(&usecase.SubmitBatchOutput{Readings: readings, Alerts: fired}, nil)

	body := `{"readings":[{"heartRate":72,"deviceId":"dev-1"},{"heartRate":190,"deviceId":"dev-1"}]}`
	e := echo.New()
	e.Validator = validator.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/vitals/batch", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	deliverycontext.SetIdentity(c, ident)

	require.NoError(t, h.SubmitBatch(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	data := recordedData(t, rec)
	assert.Equal(t, float64(1), data["alertsCreated"])
	assert.Len(t, data["readings"], 2)
	assert.NotContains(t, data, "alerts")
}
