package echoapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmsedu/curriculum/core"
)

type mappingRow struct {
	PLOID string `json:"plo_id" validate:"required,uuid"`
}

type mappingRequest struct {
	Mappings []mappingRow `json:"mappings" validate:"required,dive"`
}

func TestErrorResponse(t *testing.T) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)

	vErr := validate.Struct(mappingRequest{Mappings: []mappingRow{{PLOID: "x"}}})
	require.Error(t, vErr)

	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantMsg    string
		wantFields []string
	}{
		{name: "http error", err: echo.NewHTTPError(http.StatusForbidden, "nope"), wantCode: http.StatusForbidden, wantMsg: "nope"},
		{name: "jwt missing", err: middleware.ErrJWTMissing, wantCode: http.StatusUnauthorized, wantMsg: "missing or malformed jwt"},
		{name: "validation errors", err: errors.Wrap(vErr, "validating"), wantCode: http.StatusBadRequest, wantMsg: invalidDataMsg, wantFields: []string{"mappings[0].plo_id"}},
		{
			name:       "core validation error",
			err:        core.NewValidationError(errors.New("bad file"), core.FieldError{Field: "file", Error: "too big"}),
			wantCode:   http.StatusBadRequest,
			wantMsg:    "bad file",
			wantFields: []string{"file"},
		},
		{name: "not found", err: errors.Wrap(core.NewNotFoundError("program"), "getting"), wantCode: http.StatusNotFound, wantMsg: "program not found"},
		{name: "conflict", err: core.NewConflictError(errors.New("program is in use"), "fk"), wantCode: http.StatusConflict, wantMsg: "program is in use"},
		{name: "throttled", err: &core.ThrottledError{RetryAfter: time.Minute}, wantCode: http.StatusTooManyRequests},
		{name: "anything else", err: errors.New("boom"), wantCode: http.StatusInternalServerError, wantMsg: "Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := errorResponse(tt.err, translator)
			assert.Equal(t, tt.wantCode, code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, resp.Message)
			}
			assert.Len(t, resp.Fields, len(tt.wantFields))
			for _, fld := range tt.wantFields {
				assert.Contains(t, resp.Fields, fld)
			}
		})
	}
}

func TestAppHTTPErrorHandler(t *testing.T) {
	translator := core.NewTranslator()

	t.Run("retry after is rounded up", func(t *testing.T) {
		handler := newAppHTTPErrorHandler(nopLogger{}, translator, func() {})
		ctx, rec := newContext(http.MethodPost)

		handler(&core.ThrottledError{RetryAfter: 1500 * time.Millisecond}, ctx)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("Retry-After"))
	})

	t.Run("shutdown error signals", func(t *testing.T) {
		signaled := false
		handler := newAppHTTPErrorHandler(nopLogger{}, translator, func() { signaled = true })
		ctx, rec := newContext(http.MethodGet)

		handler(core.NewShutdownError("integrity issue"), ctx)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.True(t, signaled)
	})

	t.Run("head has no body", func(t *testing.T) {
		handler := newAppHTTPErrorHandler(nopLogger{}, translator, func() {})
		ctx, rec := newContext(http.MethodHead)

		handler(core.NewNotFoundError("survey"), ctx)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}

func newContext(method string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, "/api/things", nil)
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}
