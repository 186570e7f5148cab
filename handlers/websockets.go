package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"userconsole/core/log"
	"userconsole/middleware"
	"userconsole/store"
	"userconsole/usecases/console"
)

const (
	MessageTypeState       = "state"
	MessageTypeField       = "field"
	MessageTypeSearchQuery = "search_query"

	writeWait = 10 * time.Second
)

// StreamMessage is sent to the page on every state change
type StreamMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// InputMessage is an input event sent by the page
type InputMessage struct {
	Type  string `json:"type"`
	Field string `json:"field,omitempty"`
	Value string `json:"value"`
}

// ConsoleStreamHandler pushes a session's state to its page and applies the
// page's keystrokes to the session's draft and search query
type ConsoleStreamHandler struct {
	sessions      *console.Sessions
	upgrader      websocket.Upgrader
	handleMessage func(sessionID string, payload []byte)
}

func NewConsoleStreamHandler(
	sessions *console.Sessions,
	alertMiddleware *middleware.ErrorAlertMiddleware,
	allowedOrigins []string,
) *ConsoleStreamHandler {
	h := &ConsoleStreamHandler{
		sessions: sessions,
		upgrader: websocket.Upgrader{
			CheckOrigin: originChecker(allowedOrigins),
		},
	}
	h.handleMessage = alertMiddleware.WrapMessageHandler(h.processMessage)
	return h
}

func originChecker(allowedOrigins []string) func(*http.Request) bool {
	for _, origin := range allowedOrigins {
		if origin == "*" {
			return func(_ *http.Request) bool { return true }
		}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || origin == "http://"+r.Host || origin == "https://"+r.Host {
			return true
		}
		for _, allowed := range allowedOrigins {
			if origin == allowed {
				return true
			}
		}
		return false
	}
}

func (h *ConsoleStreamHandler) RegisterWithRouter(router *mux.Router) {
	log.Info("🚀 Registering console stream on /ws endpoint")
	router.HandleFunc("/ws", h.HandleStream)
	log.Info("✅ Console stream registered on /ws")
}

func (h *ConsoleStreamHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	log.Info("🔗 New console stream connection attempt", "remote_addr", r.RemoteAddr)

	sessionID := middleware.SessionIDFromRequest(r)
	c, release, ok := h.sessions.Attach(sessionID)
	if !ok {
		log.Warn("❌ Rejecting console stream: unknown session", "remote_addr", r.RemoteAddr)
		http.Error(w, "unknown session", http.StatusUnauthorized)
		return
	}
	defer release()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("❌ WebSocket upgrade failed", "remote_addr", r.RemoteAddr, "error", err)
		return
	}
	defer func() {
		log.Info("🔌 Closing console stream", "session_id", sessionID)
		conn.Close()
	}()

	// holds only the latest state not yet written
	updates := make(chan store.State, 1)
	updates <- c.Snapshot()
	unsubscribe := c.Subscribe(func(s store.State) {
		select {
		case <-updates:
		default:
		}
		updates <- s
	})
	defer unsubscribe()

	done := make(chan struct{})
	defer close(done)
	go h.writeStates(conn, sessionID, updates, done)

	log.Info("✅ Console stream connected", "session_id", sessionID)
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("❌ Console stream unexpected error", "session_id", sessionID, "error", err)
			} else {
				log.Info("🔌 Console stream closed", "session_id", sessionID)
			}
			return
		}
		h.handleMessage(sessionID, payload)
	}
}

func (h *ConsoleStreamHandler) writeStates(
	conn *websocket.Conn,
	sessionID string,
	updates <-chan store.State,
	done <-chan struct{},
) {
	for {
		select {
		case <-done:
			return
		case s := <-updates:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(StreamMessage{Type: MessageTypeState, Payload: s.View()}); err != nil {
				log.Warn("⚠️ Failed to push state", "session_id", sessionID, "error", err)
				return
			}
		}
	}
}

func (h *ConsoleStreamHandler) processMessage(sessionID string, payload []byte) error {
	c, ok := h.sessions.Get(sessionID).Get()
	if !ok {
		return fmt.Errorf("session %s is gone", sessionID)
	}

	var msg InputMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("failed to decode stream message: %w", err)
	}

	switch msg.Type {
	case MessageTypeField:
		return c.EditField(msg.Field, msg.Value)
	case MessageTypeSearchQuery:
		return c.SetSearchQuery(msg.Value)
	default:
		return fmt.Errorf("unknown stream message type %q", msg.Type)
	}
}
