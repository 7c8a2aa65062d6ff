package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			appErr:   &AppError{Code: CodeNotFound, Message: "reservation not found"},
			expected: "NOT_FOUND: reservation not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeStorage,
				Message: "storage temporarily unavailable",
				Err:     errors.New("connection reset"),
			},
			expected: "STORAGE_ERROR: storage temporarily unavailable (caused by: connection reset)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestConstructors_CodeAndStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"not found", NotFound("slot"), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("bad", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("bad json"), CodeInvalidInput, http.StatusBadRequest},
		{"unauthorized", Unauthorized("missing user"), CodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", Forbidden("not yours"), CodeForbidden, http.StatusForbidden},
		{"conflict", Conflict("duplicate"), CodeConflict, http.StatusConflict},
		{"invalid transition", InvalidTransition("slot", "book", "booked"), CodeInvalidTransition, http.StatusConflict},
		{"too early", TooEarly("2024-06-01T09:00:00Z"), CodeTooEarly, http.StatusUnprocessableEntity},
		{"too late", TooLate("2024-06-01T10:00:00Z"), CodeTooLate, http.StatusUnprocessableEntity},
		{"malformed token", MalformedToken("bad prefix"), CodeMalformedToken, http.StatusBadRequest},
		{"bad schedule", BadSchedule("bad date"), CodeBadSchedule, http.StatusUnprocessableEntity},
		{"wrong status", WrongStatus("pending"), CodeWrongStatus, http.StatusConflict},
		{"storage", Storage("book", errors.New("down")), CodeStorage, http.StatusServiceUnavailable},
		{"internal", Internal("boom", nil), CodeInternal, http.StatusInternalServerError},
		{"timeout", Timeout("slow"), CodeTimeout, http.StatusGatewayTimeout},
		{"rate limited", RateLimited(3), CodeRateLimited, http.StatusTooManyRequests},
		{"payload too large", PayloadTooLarge(10), CodePayloadTooLarge, http.StatusRequestEntityTooLarge},
		{"unsupported media", UnsupportedMediaType("text/plain"), CodeUnsupportedMedia, http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.StatusCode())
		})
	}
}

func TestInvalidTransition_Details(t *testing.T) {
	err := InvalidTransition("reservation", "confirm", "rejected")
	assert.Equal(t, "cannot confirm reservation in its current state", err.Message)
	assert.Equal(t, "rejected", err.Details["current_status"])

	err = InvalidTransition("slot", "book", "")
	_, ok := err.Details["current_status"]
	assert.False(t, ok)
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("reservation", "abc123")

	assert.Equal(t, "reservation not found", err.Message)
	assert.Equal(t, "abc123", err.Details["id"])
	assert.Equal(t, "reservation", err.Details["resource"])
}

func TestWithDetails_Merges(t *testing.T) {
	err := WrongStatus("pending").WithDetails(map[string]any{"reservation_id": "r1"})

	assert.Equal(t, "pending", err.Details["current_status"])
	assert.Equal(t, "r1", err.Details["reservation_id"])

	plain := New(CodeConflict, "x", http.StatusConflict).WithDetails(map[string]any{"k": 1})
	assert.Equal(t, 1, plain.Details["k"])
}

func TestStorage_UnwrapsCause(t *testing.T) {
	cause := errors.New("server selection timeout")
	err := Storage("generate slots", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "generate slots", err.Details["operation"])
}

func TestIsAppError_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", Forbidden("not owner"))

	assert.True(t, IsAppError(wrapped))
	assert.True(t, HasCode(wrapped, CodeForbidden))
	assert.False(t, HasCode(wrapped, CodeNotFound))
	assert.False(t, IsAppError(errors.New("plain")))
}

func TestAsAppError(t *testing.T) {
	appErr := NotFound("trainer profile")
	require.Same(t, appErr, AsAppError(appErr))
	require.Same(t, appErr, AsAppError(fmt.Errorf("ctx: %w", appErr)))

	plain := errors.New("regular error")
	result := AsAppError(plain)
	assert.Equal(t, CodeInternal, result.Code)
	assert.Same(t, plain, result.Err)
}
