package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"USERS_API_BASE_URL", "USERS_API_TIMEOUT", "PORT", "CORS_ALLOWED_ORIGINS",
		"ENVIRONMENT", "LOG_LEVEL", "SESSION_IDLE_TTL", "ALERT_WEBHOOK_URL", "SERVER_LOGS_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:5000", cfg.UsersAPIBaseURL)
	assert.Equal(t, time.Duration(0), cfg.UsersAPITimeout)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "*", cfg.CORSAllowedOrigins)
	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTTL)
	assert.False(t, cfg.AlertConfig.IsConfigured())
}

func TestLoadConfig_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("USERS_API_BASE_URL", "https://users.internal:8443/v1")
	t.Setenv("USERS_API_TIMEOUT", "5s")
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.test, https://b.test")
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("SESSION_IDLE_TTL", "1h")
	t.Setenv("ALERT_WEBHOOK_URL", "https://hooks.test/x")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "https://users.internal:8443/v1", cfg.UsersAPIBaseURL)
	assert.Equal(t, 5*time.Second, cfg.UsersAPITimeout)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.AllowedOrigins())
	assert.Equal(t, "prod", cfg.Environment)
	assert.Equal(t, time.Hour, cfg.SessionIdleTTL)
	assert.True(t, cfg.AlertConfig.IsConfigured())
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name          string
		key, value    string
		expectedError string
	}{
		{name: "relative api url", key: "USERS_API_BASE_URL", value: "/users", expectedError: "must be an absolute http(s) URL"},
		{name: "unsupported scheme", key: "USERS_API_BASE_URL", value: "ftp://host", expectedError: "must be an absolute http(s) URL"},
		{name: "bad timeout", key: "USERS_API_TIMEOUT", value: "soon", expectedError: "USERS_API_TIMEOUT is not a valid duration"},
		{name: "negative timeout", key: "USERS_API_TIMEOUT", value: "-1s", expectedError: "must not be negative"},
		{name: "zero session ttl", key: "SESSION_IDLE_TTL", value: "0s", expectedError: "SESSION_IDLE_TTL must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			cfg, err := LoadConfig()

			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

func TestAllowedOrigins_Wildcard(t *testing.T) {
	cfg := &AppConfig{CORSAllowedOrigins: "*"}
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins())
}
