package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lingualabs/lingua-api/internal/api/middleware"
	"github.com/lingualabs/lingua-api/internal/mocks"
	"github.com/lingualabs/lingua-api/internal/service/auth"
)

// protectedHandler records the user ID it saw in the request context.
func protectedHandler(seen *uuid.UUID) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID, ok := middleware.GetUserID(r); ok {
			*seen = userID
		}
		w.WriteHeader(http.StatusOK)
	})
}

func doAuthed(t *testing.T, m *middleware.AuthMiddleware, header string, seen *uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rr := httptest.NewRecorder()
	m.Authenticate(protectedHandler(seen)).ServeHTTP(rr, req)
	return rr
}

func TestAuthenticate_ValidToken(t *testing.T) {
	userID := uuid.New()
	jwtService := &mocks.MockJWTService{
		Claims: &auth.Claims{UserID: userID, TokenType: "access"},
	}
	m := middleware.NewAuthMiddleware(jwtService)

	var seen uuid.UUID
	rr := doAuthed(t, m, "Bearer valid-token", &seen)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, userID, seen, "user ID is placed in the request context")
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	m := middleware.NewAuthMiddleware(&mocks.MockJWTService{})

	var seen uuid.UUID
	rr := doAuthed(t, m, "", &seen)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, uuid.Nil, seen)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "Authorization header required", body["error"])
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	m := middleware.NewAuthMiddleware(&mocks.MockJWTService{})

	tests := []string{
		"Basic dXNlcjpwYXNz",
		"Bearer",
		"Bearer too many parts",
	}

	for _, header := range tests {
		t.Run(header, func(t *testing.T) {
			var seen uuid.UUID
			rr := doAuthed(t, m, header, &seen)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	m := middleware.NewAuthMiddleware(&mocks.MockJWTService{Err: auth.ErrExpiredToken})

	var seen uuid.UUID
	rr := doAuthed(t, m, "Bearer stale-token", &seen)

	require.Equal(t, http.StatusUnauthorized, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "Token expired", body["error"])
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	m := middleware.NewAuthMiddleware(&mocks.MockJWTService{Err: auth.ErrInvalidToken})

	var seen uuid.UUID
	rr := doAuthed(t, m, "Bearer garbage", &seen)

	require.Equal(t, http.StatusUnauthorized, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "Invalid token", body["error"])
}

func TestAuthenticate_UnexpectedValidationError(t *testing.T) {
	m := middleware.NewAuthMiddleware(&mocks.MockJWTService{Err: errors.New("keystore offline")})

	var seen uuid.UUID
	rr := doAuthed(t, m, "Bearer some-token", &seen)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
