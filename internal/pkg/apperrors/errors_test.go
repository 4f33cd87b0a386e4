package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", NewValidationError("priority", "priority out of range"), KindValidation},
		{"auth", NewAuthError(ReasonInvalidOrExpired, "session expired"), KindAuth},
		{"permission", NewForbiddenError("staff only"), KindPermission},
		{"not found", NewNotFoundError(ReasonAspirationNotFound, "missing"), KindNotFound},
		{"conflict", NewConflictError(ReasonSlotTaken, "taken"), KindConflict},
		{"internal", NewInternalError("boom", errors.New("db down")), KindInternal},
		{"plain error", errors.New("unexpected"), KindInternal},
		{"wrapped conflict", fmt.Errorf("register: %w", NewConflictError(ReasonSlotTaken, "taken")), KindConflict},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestReasonOf(t *testing.T) {
	err := fmt.Errorf("verify: %w", NewConflictError(ReasonAlreadyPaid, "paid"))
	assert.Equal(t, ReasonAlreadyPaid, ReasonOf(err))
	assert.Empty(t, ReasonOf(errors.New("plain")))
}

func TestNewInternalError_KeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewInternalError("failed to verify payment", cause)

	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to verify payment", err.Error())
}

func TestValidationErrorCarriesField(t *testing.T) {
	err := NewValidationError("method", "unsupported payment method")
	assert.Equal(t, "method", err.Field)
	assert.True(t, Is(err, ErrConflict, ErrValidationFailed))
}
