package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequiredEnv sets the minimum environment for a valid Load call.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LINGUA_DATABASE_URL", "postgres://localhost:5432/lingua_test")
	t.Setenv("LINGUA_AUTH_JWT_SECRET", "test-secret-that-is-at-least-32-characters-long")
	t.Setenv("LINGUA_LLM_ENABLED", "false")
}

func TestLoad_AppliesDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 15, cfg.Server.ShutdownTimeoutSeconds)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 30, cfg.Auth.TokenLifetimeMinutes)
	assert.Equal(t, 7*24*60, cfg.Auth.RefreshTokenLifetimeMinutes)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.ModelName)
	assert.Equal(t, "uploads", cfg.Upload.Dir)
	assert.Equal(t, int64(25*1024*1024), cfg.Upload.MaxBytes)
	assert.Equal(t, 2, cfg.Task.WorkerCount)
	assert.Equal(t, 100, cfg.Task.QueueSize)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LINGUA_SERVER_PORT", "9090")
	t.Setenv("LINGUA_SERVER_LOG_LEVEL", "debug")
	t.Setenv("LINGUA_AUTH_TOKEN_LIFETIME_MINUTES", "15")
	t.Setenv("LINGUA_UPLOAD_DIR", "/tmp/audio")
	t.Setenv("LINGUA_TASK_WORKER_COUNT", "4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 15, cfg.Auth.TokenLifetimeMinutes)
	assert.Equal(t, "/tmp/audio", cfg.Upload.Dir)
	assert.Equal(t, 4, cfg.Task.WorkerCount)
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LINGUA_DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestLoad_ShortJWTSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LINGUA_AUTH_JWT_SECRET", "too-short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LINGUA_SERVER_LOG_LEVEL", "verbose")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestLoad_LLMEnabledRequiresAPIKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LINGUA_LLM_ENABLED", "true")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini_api_key")
}

func TestLoad_LLMEnabledWithAPIKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LINGUA_LLM_ENABLED", "true")
	t.Setenv("LINGUA_LLM_GEMINI_API_KEY", "fake-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.LLM.Enabled)
	assert.Equal(t, "fake-key", cfg.LLM.GeminiAPIKey)
}
