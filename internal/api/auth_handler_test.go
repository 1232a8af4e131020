package api_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lingualabs/lingua-api/internal/api"
	"github.com/lingualabs/lingua-api/internal/domain"
	"github.com/lingualabs/lingua-api/internal/mocks"
	"github.com/lingualabs/lingua-api/internal/service/auth"
	"github.com/lingualabs/lingua-api/internal/store"
)

func TestRegister(t *testing.T) {
	userStore := &mocks.MockUserStore{}
	jwtService := &mocks.MockJWTService{Token: "signed-token"}
	handler := api.NewAuthHandler(userStore, jwtService, &mocks.MockPasswordVerifier{})

	var created *domain.User
	userStore.CreateFn = func(_ context.Context, u *domain.User) error {
		created = u
		return nil
	}

	rr := doJSON(t, http.HandlerFunc(handler.Register), http.MethodPost, "/api/auth/register", map[string]any{
		"email":           "learner@example.com",
		"password":        "password123",
		"display_name":    "Sam",
		"native_language": "es",
	})

	require.Equal(t, http.StatusCreated, rr.Code)
	require.NotNil(t, created)
	assert.Equal(t, "learner@example.com", created.Email)
	assert.Equal(t, "Sam", created.DisplayName)
	assert.Equal(t, "es", created.NativeLanguage)

	var resp api.AuthResponse
	decodeBody(t, rr, &resp)
	assert.Equal(t, created.ID, resp.UserID)
	assert.Equal(t, "signed-token", resp.AccessToken)
	assert.Equal(t, "signed-token", resp.RefreshToken)
}

func TestRegister_InvalidJSON(t *testing.T) {
	handler := api.NewAuthHandler(&mocks.MockUserStore{}, &mocks.MockJWTService{}, &mocks.MockPasswordVerifier{})

	req := doJSON(t, http.HandlerFunc(handler.Register), http.MethodPost, "/api/auth/register", nil)
	assert.Equal(t, http.StatusBadRequest, req.Code)
}

func TestRegister_ValidationFailures(t *testing.T) {
	handler := api.NewAuthHandler(&mocks.MockUserStore{}, &mocks.MockJWTService{}, &mocks.MockPasswordVerifier{})

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing email", map[string]any{"password": "password123"}},
		{"bad email", map[string]any{"email": "nope", "password": "password123"}},
		{"short password", map[string]any{"email": "a@b.com", "password": "short"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := doJSON(t, http.HandlerFunc(handler.Register), http.MethodPost, "/api/auth/register", tc.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	userStore := &mocks.MockUserStore{Err: store.ErrEmailExists}
	handler := api.NewAuthHandler(userStore, &mocks.MockJWTService{}, &mocks.MockPasswordVerifier{})

	rr := doJSON(t, http.HandlerFunc(handler.Register), http.MethodPost, "/api/auth/register", map[string]any{
		"email":    "taken@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestLogin(t *testing.T) {
	userID := uuid.New()
	user := &domain.User{
		ID:             userID,
		Email:          "learner@example.com",
		HashedPassword: "$2a$10$hash",
	}

	userStore := &mocks.MockUserStore{User: user}
	var updated *domain.User
	userStore.UpdateFn = func(_ context.Context, u *domain.User) error {
		updated = u
		return nil
	}

	handler := api.NewAuthHandler(userStore, &mocks.MockJWTService{Token: "signed-token"}, &mocks.MockPasswordVerifier{})

	rr := doJSON(t, http.HandlerFunc(handler.Login), http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "learner@example.com",
		"password": "password123",
	})

	require.Equal(t, http.StatusOK, rr.Code)

	var resp api.AuthResponse
	decodeBody(t, rr, &resp)
	assert.Equal(t, userID, resp.UserID)
	assert.Equal(t, "signed-token", resp.AccessToken)

	require.NotNil(t, updated, "login records last_login_at")
	assert.NotNil(t, updated.LastLoginAt)
}

func TestLogin_UnknownEmail(t *testing.T) {
	userStore := &mocks.MockUserStore{Err: store.ErrUserNotFound}
	handler := api.NewAuthHandler(userStore, &mocks.MockJWTService{}, &mocks.MockPasswordVerifier{})

	rr := doJSON(t, http.HandlerFunc(handler.Login), http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "nobody@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Email: "learner@example.com", HashedPassword: "$2a$10$hash"}
	userStore := &mocks.MockUserStore{User: user}
	verifier := &mocks.MockPasswordVerifier{Err: errors.New("hash mismatch")}

	handler := api.NewAuthHandler(userStore, &mocks.MockJWTService{}, verifier)

	rr := doJSON(t, http.HandlerFunc(handler.Login), http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "learner@example.com",
		"password": "wrongpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRefreshToken(t *testing.T) {
	userID := uuid.New()
	jwtService := &mocks.MockJWTService{
		Token:  "new-token",
		Claims: &auth.Claims{UserID: userID, TokenType: "refresh"},
	}
	handler := api.NewAuthHandler(&mocks.MockUserStore{}, jwtService, &mocks.MockPasswordVerifier{})

	rr := doJSON(t, http.HandlerFunc(handler.RefreshToken), http.MethodPost, "/api/auth/refresh", map[string]any{
		"refresh_token": "current-refresh-token",
	})

	require.Equal(t, http.StatusOK, rr.Code)

	var resp api.RefreshTokenResponse
	decodeBody(t, rr, &resp)
	assert.Equal(t, "new-token", resp.AccessToken)
	assert.Equal(t, "new-token", resp.RefreshToken)
}

func TestRefreshToken_Invalid(t *testing.T) {
	jwtService := &mocks.MockJWTService{Err: auth.ErrExpiredRefreshToken}
	handler := api.NewAuthHandler(&mocks.MockUserStore{}, jwtService, &mocks.MockPasswordVerifier{})

	rr := doJSON(t, http.HandlerFunc(handler.RefreshToken), http.MethodPost, "/api/auth/refresh", map[string]any{
		"refresh_token": "stale-token",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRefreshToken_MissingToken(t *testing.T) {
	handler := api.NewAuthHandler(&mocks.MockUserStore{}, &mocks.MockJWTService{}, &mocks.MockPasswordVerifier{})

	rr := doJSON(t, http.HandlerFunc(handler.RefreshToken), http.MethodPost, "/api/auth/refresh", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
