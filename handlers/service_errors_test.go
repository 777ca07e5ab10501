package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/upb/secure-access-gateway/services"
	"github.com/upb/secure-access-gateway/utils"
)

func TestHandleServiceError(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedError   string
		expectedMessage string
	}{
		{
			name:            "not found error",
			err:             services.ErrUnknownPrincipal,
			expectedStatus:  http.StatusNotFound,
			expectedError:   "not_found",
			expectedMessage: "unknown principal",
		},
		{
			name:            "validation error",
			err:             services.ErrInvalidInput,
			expectedStatus:  http.StatusBadRequest,
			expectedError:   "bad_request",
			expectedMessage: "invalid input",
		},
		{
			name:            "authentication failed",
			err:             services.ErrAuthenticationFailed,
			expectedStatus:  http.StatusUnauthorized,
			expectedError:   "unauthorized",
			expectedMessage: "authentication failed",
		},
		{
			name:            "forbidden error",
			err:             services.ErrForbidden,
			expectedStatus:  http.StatusForbidden,
			expectedError:   "forbidden",
			expectedMessage: "access forbidden",
		},
		{
			name:            "internal error hides the cause",
			err:             services.WrapInternal("principal lookup failed", errors.New("dial tcp 10.0.0.5:5432")),
			expectedStatus:  http.StatusInternalServerError,
			expectedError:   "internal_error",
			expectedMessage: "An internal error occurred",
		},
		{
			name:            "unknown error",
			err:             errors.New("unknown error"),
			expectedStatus:  http.StatusInternalServerError,
			expectedError:   "internal_error",
			expectedMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleServiceError(w, tt.err, logger)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response utils.ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&response))

			assert.Equal(t, tt.expectedError, response.Error)
			assert.Equal(t, tt.expectedMessage, response.Message)
		})
	}
}

func TestHandleServiceErrorWithDetails(t *testing.T) {
	err := services.NewDomainError(services.ErrorTypeValidation, "invalid input", nil).
		WithDetail("field", "username")

	w := httptest.NewRecorder()
	HandleServiceError(w, err, zap.NewNop())

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response utils.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "username", response.Details["field"])
}

func TestHandleServiceErrorNil(t *testing.T) {
	w := httptest.NewRecorder()

	HandleServiceError(w, nil, zap.NewNop())

	// Should not write anything
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestHandleValidationError(t *testing.T) {
	logger := zap.NewNop()

	t.Run("validation error carries fields", func(t *testing.T) {
		err := &utils.ValidationError{
			Message: "Validation failed",
			Fields: map[string]string{
				"username": "username is required",
				"password": "password is required",
			},
		}

		w := httptest.NewRecorder()
		HandleValidationError(w, err, logger)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var response utils.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))

		assert.Equal(t, "bad_request", response.Error)
		assert.Equal(t, "Validation failed", response.Message)
		assert.Equal(t, "username is required", response.Details["username"])
		assert.Equal(t, "password is required", response.Details["password"])
	})

	t.Run("generic error", func(t *testing.T) {
		w := httptest.NewRecorder()
		HandleValidationError(w, errors.New("invalid JSON body"), logger)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var response utils.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))

		assert.Equal(t, "bad_request", response.Error)
		assert.Equal(t, "invalid JSON body", response.Message)
	})
}
