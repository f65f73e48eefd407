package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"adaptiv/internal/delivery/http/response"
	domainerrors "adaptiv/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handleError(t *testing.T, err error) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	m := NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)))
	m.HandleHTTPError(err, c)

	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return rec, body
}

func TestHandleHTTPError_AppError(t *testing.T) {
	rec, body := handleError(t, domainerrors.ErrAccountLocked.WithDetails("try again in 900 seconds"))

	assert.Equal(t, http.StatusLocked, rec.Code)
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, "ACCOUNT_LOCKED", body.Error.Code)
	assert.Equal(t, "try again in 900 seconds", body.Error.Details)
}

func TestHandleHTTPError_WrappedAppError(t *testing.T) {
	wrapped := errors.Wrap(domainerrors.ErrConsentDenied, "loading vitals")

	rec, body := handleError(t, wrapped)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "FORBIDDEN_CONSENT", body.Error.Code)
}

func TestHandleHTTPError_UnknownErrorIsOpaque(t *testing.T) {
	rec, body := handleError(t, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	assert.NotContains(t, body.Error.Details, "connection refused")
}
