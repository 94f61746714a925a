package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/onlinehub/workforce-backend-go/internal/domain/access"
	"github.com/onlinehub/workforce-backend-go/internal/domain/attendance"
	"github.com/onlinehub/workforce-backend-go/internal/domain/auth"
	"github.com/onlinehub/workforce-backend-go/internal/domain/commission"
	"github.com/onlinehub/workforce-backend-go/internal/domain/employee"
	"github.com/onlinehub/workforce-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", validator.ValidationErrors{{Field: "month", Message: "month must be in YYYY-MM format"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"wrapped not found", fmt.Errorf("load: %w", employee.ErrEmployeeNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"bad credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"locked account", auth.ErrAccountLocked, http.StatusForbidden, "FORBIDDEN"},
		{"invalidated session", attendance.ErrSessionInvalidated, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"no open session", attendance.ErrNoOpenSession, http.StatusConflict, "CONFLICT"},
		{"approved worksheet", commission.ErrWorksheetApproved, http.StatusConflict, "CONFLICT"},
		{"foreign worksheet", commission.ErrWorksheetNotOwned, http.StatusForbidden, "FORBIDDEN"},
		{"duplicate mobile", employee.ErrMobileNumberExists, http.StatusConflict, "CONFLICT"},
		{"network denied", access.ErrAccessDenied, http.StatusForbidden, "FORBIDDEN"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)

			var body Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestHandleError_ValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, validator.ValidationErrors{{Field: "mobile_number", Message: "mobile_number is required"}})

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "mobile_number is required", body.Error.Details["mobile_number"])
}
