package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"insufficient credits", ErrInsufficientCredits, http.StatusPaymentRequired},
		{"upgrade required", ErrUpgradeRequired, http.StatusPaymentRequired},
		{"busy", ErrGenerationBusy, http.StatusConflict},
		{"not found", ErrNotFound, http.StatusNotFound},
		{"forbidden", ErrForbidden, http.StatusForbidden},
		{"generation failed", GenerationFailed("safety block"), http.StatusUnprocessableEntity},
		{"wrapped sentinel", fmt.Errorf("pipeline: %w", ErrInsufficientCredits), http.StatusPaymentRequired},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
		{"storage", &StorageError{Op: "stage", Err: errors.New("boom")}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestGenerationErrorMessage(t *testing.T) {
	err := GenerationFailed("blocked: SAFETY")
	assert.Equal(t, "API call failed: blocked: SAFETY", err.Error())
}

func TestErrorUnwrapping(t *testing.T) {
	inner := errors.New("disk full")

	var storageErr error = &StorageError{Op: "stage", Err: inner}
	assert.ErrorIs(t, storageErr, inner)

	var persistErr error = &PersistenceError{Step: "hq upload", Err: inner}
	assert.ErrorIs(t, persistErr, inner)
}
