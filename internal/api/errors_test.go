package api_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lingualabs/lingua-api/internal/api"
	"github.com/lingualabs/lingua-api/internal/domain"
	"github.com/lingualabs/lingua-api/internal/service"
	"github.com/lingualabs/lingua-api/internal/service/auth"
	"github.com/lingualabs/lingua-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"expired refresh token", auth.ErrExpiredRefreshToken, http.StatusUnauthorized},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized},
		{"not owned", service.ErrNotOwned, http.StatusNotFound},
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"conversation not found", service.ErrConversationNotFound, http.StatusNotFound},
		{"evaluation not found", service.ErrEvaluationNotFound, http.StatusNotFound},
		{"email exists", store.ErrEmailExists, http.StatusConflict},
		{"evaluation exists", store.ErrEvaluationExists, http.StatusConflict},
		{"validation", domain.ErrValidation, http.StatusBadRequest},
		{"invalid ID", domain.ErrInvalidID, http.StatusBadRequest},
		{"transcript required", service.ErrTranscriptRequired, http.StatusBadRequest},
		{"unsupported audio", service.ErrUnsupportedAudioType, http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped sentinel", fmt.Errorf("loading: %w", store.ErrConversationNotFound), http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, api.MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	assert.Equal(t, "Conversation not found", api.GetSafeErrorMessage(service.ErrConversationNotFound))
	assert.Equal(t, "Conversation not found", api.GetSafeErrorMessage(service.ErrNotOwned))
	assert.Equal(t, "Email already exists", api.GetSafeErrorMessage(store.ErrEmailExists))
	assert.Equal(t, "Invalid token", api.GetSafeErrorMessage(auth.ErrExpiredToken))

	// Internal detail never leaks for unmapped errors.
	msg := api.GetSafeErrorMessage(errors.New("pq: connection refused host=10.0.0.5"))
	assert.Equal(t, "An unexpected error occurred", msg)
	assert.NotContains(t, msg, "10.0.0.5")
}

func TestSanitizeValidationError(t *testing.T) {
	handlerErr := api.SanitizeValidationError(errors.New("opaque"))
	assert.NotEmpty(t, handlerErr)
}
