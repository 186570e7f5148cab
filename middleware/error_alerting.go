package middleware

import (
	"bytes"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"userconsole/core/log"
)

type AlertConfig struct {
	WebhookURL  string
	Environment string
	AppName     string
	LogsURL     string
}

type ErrorAlertMiddleware struct {
	config        AlertConfig
	httpClient    *http.Client
	alertedErrors map[string]time.Time // hash -> last alert time
	mutex         sync.Mutex
	alertCooldown time.Duration
}

func NewErrorAlertMiddleware(config AlertConfig) *ErrorAlertMiddleware {
	return &ErrorAlertMiddleware{
		config:        config,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		alertedErrors: make(map[string]time.Time),
		alertCooldown: 10 * time.Minute, // same error alerts at most once per 10min
	}
}

// HTTPMiddleware recovers panics from the wrapped handler
func (m *ErrorAlertMiddleware) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer m.recoverAndAlert(fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Path), w)
		next.ServeHTTP(w, r)
	})
}

// WrapMessageHandler wraps a websocket message handler of one console session
func (m *ErrorAlertMiddleware) WrapMessageHandler(
	handler func(sessionID string, payload []byte) error,
) func(string, []byte) {
	return func(sessionID string, payload []byte) {
		defer m.recoverAndAlert(fmt.Sprintf("WebSocket message from session %s", sessionID), nil)

		if err := handler(sessionID, payload); err != nil {
			m.alertOnError(err, fmt.Sprintf("WebSocket message handler (session: %s)", sessionID))
		}
	}
}

// WrapBackgroundTask wraps a periodic task
func (m *ErrorAlertMiddleware) WrapBackgroundTask(taskName string, task func() error) func() error {
	return func() error {
		defer m.recoverAndAlert(fmt.Sprintf("Background task: %s", taskName), nil)

		if err := task(); err != nil {
			m.alertOnError(err, fmt.Sprintf("Background task: %s", taskName))
			return err
		}
		return nil
	}
}

func (m *ErrorAlertMiddleware) alertOnError(err error, context string) {
	errorMsg := fmt.Sprintf("%s: %v", context, err)
	log.Error("❌ "+context, "error", err)

	hash := fmt.Sprintf("%x", md5.Sum([]byte(errorMsg)))

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if lastAlert, exists := m.alertedErrors[hash]; exists {
		if time.Since(lastAlert) < m.alertCooldown {
			return
		}
	}

	go m.sendAlert(errorMsg, context)
	m.alertedErrors[hash] = time.Now()
}

func (m *ErrorAlertMiddleware) recoverAndAlert(context string, w http.ResponseWriter) {
	if r := recover(); r != nil {
		errorMsg := fmt.Sprintf("%s: PANIC - %v", context, r)
		log.Error("❌ " + errorMsg)
		if w != nil {
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		go m.sendAlert(errorMsg, context+" (PANIC)")
	}
}

func (m *ErrorAlertMiddleware) sendAlert(errorMsg, context string) {
	if m.config.WebhookURL == "" {
		return // alerts disabled
	}

	envPrefix := ""
	if m.config.Environment == "dev" {
		envPrefix = "[dev] "
	}

	blocks := []map[string]any{
		{
			"type": "header",
			"text": map[string]any{
				"type":  "plain_text",
				"text":  fmt.Sprintf("🚨 %s[%s] Error Alert", envPrefix, m.config.AppName),
				"emoji": true,
			},
		},
		{
			"type": "section",
			"fields": []map[string]any{
				{"type": "mrkdwn", "text": fmt.Sprintf("*Service:* %s", m.config.AppName)},
				{"type": "mrkdwn", "text": fmt.Sprintf("*Environment:* %s", m.config.Environment)},
				{"type": "mrkdwn", "text": fmt.Sprintf("*Context:* %s", context)},
			},
		},
		{
			"type": "section",
			"text": map[string]any{
				"type": "mrkdwn",
				"text": fmt.Sprintf("*Error:*\n```%s```", errorMsg),
			},
		},
	}
	if m.config.LogsURL != "" {
		blocks = append(blocks, map[string]any{
			"type": "section",
			"text": map[string]any{
				"type": "mrkdwn",
				"text": fmt.Sprintf("🔗 <%s|View Logs>", m.config.LogsURL),
			},
		})
	}

	payloadBytes, err := json.Marshal(map[string]any{"text": errorMsg, "blocks": blocks})
	if err != nil {
		log.Error("❌ Failed to marshal alert payload", "error", err)
		return
	}

	resp, err := m.httpClient.Post(m.config.WebhookURL, "application/json", bytes.NewReader(payloadBytes))
	if err != nil {
		log.Error("❌ Failed to send error alert", "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Error("❌ Error alert failed", "status", resp.StatusCode)
	}
}
