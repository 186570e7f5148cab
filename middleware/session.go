package middleware

import (
	"context"
	"net/http"

	"userconsole/appctx"
	"userconsole/core"
	"userconsole/core/log"
	"userconsole/usecases/console"
)

// SessionMiddleware binds every request to its browser session's console
type SessionMiddleware struct {
	sessions *console.Sessions
	secure   bool
}

func NewSessionMiddleware(sessions *console.Sessions, secureCookies bool) *SessionMiddleware {
	return &SessionMiddleware{
		sessions: sessions,
		secure:   secureCookies,
	}
}

// WithSession wraps the page handler. A request without a live session starts
// one, which mounts by loading the list.
func (m *SessionMiddleware) WithSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, c, created := m.sessions.Acquire(SessionIDFromRequest(r))
		if created {
			http.SetCookie(w, &http.Cookie{
				Name:     console.SessionCookieName,
				Value:    sessionID,
				Path:     "/",
				HttpOnly: true,
				Secure:   m.secure,
				SameSite: http.SameSiteLaxMode,
			})
			if err := c.Load(context.WithoutCancel(r.Context())); err != nil {
				log.Warn("⚠️ Initial users load failed", "session_id", sessionID, "error", err)
			}
		}

		ctx := appctx.SetConsole(r.Context(), sessionID, c)
		next(w, r.WithContext(ctx))
	}
}

// RequireSession wraps handlers that act on a session started by the page.
// Requests without one are rejected and never start a session.
func (m *SessionMiddleware) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := SessionIDFromRequest(r)
		c, ok := m.sessions.Get(sessionID).Get()
		if !ok {
			log.Warn("❌ Rejecting request without a console session", "path", r.URL.Path, "remote_addr", r.RemoteAddr)
			http.Error(w, "session required, load the console page first", http.StatusUnauthorized)
			return
		}

		ctx := appctx.SetConsole(r.Context(), sessionID, c)
		next(w, r.WithContext(ctx))
	}
}

// SessionIDFromRequest returns the session cookie value, or "" when the
// cookie is missing or not a session id
func SessionIDFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(console.SessionCookieName)
	if err != nil {
		return ""
	}
	if !core.IsValidULID(cookie.Value) {
		log.Debug("📋 Ignoring malformed session cookie", "remote_addr", r.RemoteAddr)
		return ""
	}
	return cookie.Value
}
