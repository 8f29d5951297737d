package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/banishment/internal/errors"
)

func TestAppError_Status(t *testing.T) {
	tests := []struct {
		name   string
		err    *errors.AppError
		code   string
		status int
	}{
		{"not found", errors.NewNotFoundError("session", "abc"), errors.ErrCodeNotFound, http.StatusNotFound},
		{"validation", errors.NewValidationError("answer", "cannot be empty"), errors.ErrCodeValidation, http.StatusBadRequest},
		{"authorization", errors.NewAuthorizationError("not yours"), errors.ErrCodeAuthorization, http.StatusForbidden},
		{"session over", errors.NewSessionOverError("abc"), errors.ErrCodeSessionOver, http.StatusConflict},
		{"conflict", errors.NewConflictError("busy"), errors.ErrCodeConflict, http.StatusConflict},
		{"external", errors.NewExternalServiceError("judge", stderrors.New("boom")), errors.ErrCodeExternalService, http.StatusBadGateway},
		{"internal", errors.NewInternalError(stderrors.New("boom")), errors.ErrCodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.Status)
		})
	}
}

func TestHasCode_Wrapped(t *testing.T) {
	err := fmt.Errorf("submit: %w", errors.NewSessionOverError("abc"))

	assert.True(t, errors.HasCode(err, errors.ErrCodeSessionOver))
	assert.False(t, errors.HasCode(err, errors.ErrCodeNotFound))
	assert.False(t, errors.HasCode(stderrors.New("plain"), errors.ErrCodeSessionOver))

	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Message, "abc")
}

func TestInternalError_Unwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := errors.NewInternalError(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk full")
}
