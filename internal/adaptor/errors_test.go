package adaptor

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"yamdb/pkg/errs"
	"yamdb/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", errs.Field("score", "Maximum is 10"), http.StatusBadRequest, "validation failed"},
		{"duplicate review", errs.ErrDuplicateReview, http.StatusConflict, "you have already reviewed this title"},
		{"wrapped conflict", fmt.Errorf("signup: %w", errs.ErrEmailTaken), http.StatusConflict, "email already registered"},
		{"bad code", errs.ErrInvalidCode, http.StatusUnauthorized, "invalid or expired confirmation code"},
		{"forbidden", errs.ErrPermissionDenied, http.StatusForbidden, "you do not have permission to perform this action"},
		{"not found", errs.ErrTitleNotFound, http.StatusNotFound, "title not found"},
		{"internal kind", errs.Internal("boom", errors.New("secret detail")), http.StatusInternalServerError, "Internal server error"},
		{"plain error", errors.New("connection refused"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleServiceError(zap.NewNop(), rec, tt.err, "test")

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body utils.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Status)
			assert.Equal(t, tt.wantMsg, body.Message)
		})
	}
}

func TestHandleServiceError_FieldErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	handleServiceError(zap.NewNop(), rec, errs.ErrUsernameTaken, "signup")

	var body struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Errors, "username")
}
