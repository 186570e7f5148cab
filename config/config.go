package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"userconsole/core/log"
)

type AlertConfig struct {
	WebhookURL string
	LogsURL    string
}

// IsConfigured returns true if error alerts can be delivered
func (c AlertConfig) IsConfigured() bool {
	return c.WebhookURL != ""
	// Note: LogsURL is optional
}

type AppConfig struct {
	UsersAPIBaseURL    string
	UsersAPITimeout    time.Duration // zero means no timeout
	Port               string        // Optional with default "8080"
	CORSAllowedOrigins string        // Optional with default "*"
	Environment        string
	LogLevel           string
	SessionIdleTTL     time.Duration

	AlertConfig AlertConfig
}

func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Info("⚠️ Could not load .env file, continuing with system env vars")
	}

	apiTimeout, err := getDurationWithDefault("USERS_API_TIMEOUT", 0)
	if err != nil {
		return nil, err
	}

	sessionIdleTTL, err := getDurationWithDefault("SESSION_IDLE_TTL", 30*time.Minute)
	if err != nil {
		return nil, err
	}

	config := &AppConfig{
		UsersAPIBaseURL:    getEnvWithDefault("USERS_API_BASE_URL", "http://127.0.0.1:5000"),
		UsersAPITimeout:    apiTimeout,
		Port:               getEnvWithDefault("PORT", "8080"),
		CORSAllowedOrigins: getEnvWithDefault("CORS_ALLOWED_ORIGINS", "*"),
		Environment:        getEnvWithDefault("ENVIRONMENT", "dev"),
		LogLevel:           getEnvWithDefault("LOG_LEVEL", "info"),
		SessionIdleTTL:     sessionIdleTTL,

		AlertConfig: AlertConfig{
			WebhookURL: os.Getenv("ALERT_WEBHOOK_URL"),
			LogsURL:    os.Getenv("SERVER_LOGS_URL"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	if config.AlertConfig.IsConfigured() {
		log.Info("✅ Error alerts configured")
	} else {
		log.Info("⚠️ Error alerts not configured - failures will only be logged")
	}

	return config, nil
}

// Validate checks values that may also come from command-line overrides
func (c *AppConfig) Validate() error {
	parsed, err := url.Parse(c.UsersAPIBaseURL)
	if err != nil {
		return fmt.Errorf("USERS_API_BASE_URL is invalid: %w", err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("USERS_API_BASE_URL must be an absolute http(s) URL, got %q", c.UsersAPIBaseURL)
	}
	if c.Port == "" {
		return fmt.Errorf("PORT is not set")
	}
	if c.SessionIdleTTL <= 0 {
		return fmt.Errorf("SESSION_IDLE_TTL must be positive, got %s", c.SessionIdleTTL)
	}
	return nil
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas
func (c *AppConfig) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.CORSAllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationWithDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s is not a valid duration: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}
