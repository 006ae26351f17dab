package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gopalbasak1/wind-house-management-server/internal/service"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"unauthenticated", service.ErrUnauthenticated, http.StatusUnauthorized, "unauthorized access"},
		{"unauthorized", service.ErrUnauthorized, http.StatusUnauthorized, "unauthorized access"},
		{"duplicate", service.ErrDuplicateApplication, http.StatusBadRequest, "You have already applied for this apartment."},
		{"validation", fmt.Errorf("%w: email is required", service.ErrValidation), http.StatusBadRequest, "validation failed: email is required"},
		{"not found", fmt.Errorf("User %w", service.ErrNotFound), http.StatusNotFound, "User not found"},
		{"storage", errors.New("insert agreement: connection refused"), http.StatusInternalServerError, "insert agreement: connection refused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, zap.NewNop(), tt.err)
			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"message":%q}`, tt.message), rec.Body.String())
		})
	}
}

func TestParseHelpers(t *testing.T) {
	assert.Equal(t, 3, parseInt("3", 1))
	assert.Equal(t, 1, parseInt("", 1))
	assert.Equal(t, 1, parseInt("x", 1))
	assert.Equal(t, 12.5, parseFloat("12.5", 0))
	assert.Equal(t, 0.0, parseFloat("abc", 0))
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := AccessLog(zap.New(core), http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/coupons", nil))

	entries := logs.FilterMessage("http request").All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "GET", fields["method"])
		assert.Equal(t, "/coupons", fields["path"])
		assert.EqualValues(t, http.StatusTeapot, fields["status"])
	}
}
