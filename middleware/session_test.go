package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userconsole/appctx"
	usersclient "userconsole/clients/users"
	"userconsole/core"
	"userconsole/models"
	usersservice "userconsole/services/users"
	"userconsole/testutils"
	"userconsole/usecases/console"
)

func TestSessionMiddleware_WithSession(t *testing.T) {
	api := testutils.NewFakeUsersAPI(t, models.User{ID: 1, Email: "a@x.com", Name: "Alice", Age: 30})
	service := usersservice.NewUsersService(usersclient.NewUsersAPIClient(api.URL(), time.Second))
	sessions := console.NewSessions(service, time.Hour)
	t.Cleanup(sessions.CloseAll)
	m := NewSessionMiddleware(sessions, false)

	var seen *console.Console
	var seenID string
	handler := m.WithSession(func(w http.ResponseWriter, r *http.Request) {
		c, ok := appctx.GetConsole(r.Context())
		require.True(t, ok)
		id, ok := appctx.GetSessionID(r.Context())
		require.True(t, ok)
		seen, seenID = c, id
		w.WriteHeader(http.StatusNoContent)
	})

	// first request starts and mounts a session
	rr := httptest.NewRecorder()
	handler(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, console.SessionCookieName, cookies[0].Name)
	assert.Equal(t, seenID, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, []string{"GET /users"}, api.RequestLines())
	assert.Len(t, seen.Snapshot().Users, 1)
	first := seen

	// a request carrying the cookie reuses the console without reloading
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rr = httptest.NewRecorder()
	handler(rr, req)

	assert.Empty(t, rr.Result().Cookies())
	assert.Same(t, first, seen)
	assert.Equal(t, []string{"GET /users"}, api.RequestLines())
	assert.Equal(t, 1, sessions.Count())
}

func TestSessionMiddleware_MountFailureStillServes(t *testing.T) {
	api := testutils.NewFakeUsersAPI(t)
	api.FailNext(http.MethodGet, "/users", http.StatusServiceUnavailable)
	service := usersservice.NewUsersService(usersclient.NewUsersAPIClient(api.URL(), time.Second))
	sessions := console.NewSessions(service, time.Hour)
	t.Cleanup(sessions.CloseAll)

	called := false
	handler := NewSessionMiddleware(sessions, false).WithSession(func(w http.ResponseWriter, r *http.Request) {
		called = true
		c, _ := appctx.GetConsole(r.Context())
		assert.True(t, c.Snapshot().LastError.IsPresent())
	})

	handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, called)
}

func TestSessionMiddleware_RequireSession(t *testing.T) {
	api := testutils.NewFakeUsersAPI(t)
	service := usersservice.NewUsersService(usersclient.NewUsersAPIClient(api.URL(), time.Second))
	sessions := console.NewSessions(service, time.Hour)
	t.Cleanup(sessions.CloseAll)
	m := NewSessionMiddleware(sessions, false)

	called := false
	handler := m.RequireSession(func(w http.ResponseWriter, r *http.Request) {
		called = true
		_, ok := appctx.GetConsole(r.Context())
		assert.True(t, ok)
	})

	t.Run("requests without a session are rejected and start none", func(t *testing.T) {
		for _, cookie := range []*http.Cookie{
			nil,
			{Name: console.SessionCookieName, Value: "garbage"},
			{Name: console.SessionCookieName, Value: core.NewID("cs")},
		} {
			called = false
			req := httptest.NewRequest(http.MethodPost, "/api/submit", nil)
			if cookie != nil {
				req.AddCookie(cookie)
			}
			rr := httptest.NewRecorder()

			handler(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.False(t, called)
			assert.Empty(t, rr.Result().Cookies())
		}
		assert.Equal(t, 0, sessions.Count())
		assert.Empty(t, api.Requests())
	})

	t.Run("an existing session is passed through", func(t *testing.T) {
		sessionID, _, _ := sessions.Acquire("")
		called = false
		req := httptest.NewRequest(http.MethodPost, "/api/submit", nil)
		req.AddCookie(&http.Cookie{Name: console.SessionCookieName, Value: sessionID})
		rr := httptest.NewRecorder()

		handler(rr, req)

		assert.True(t, called)
		assert.Equal(t, 1, sessions.Count())
	})
}

func TestSessionIDFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", SessionIDFromRequest(req))

	valid := core.NewID("cs")
	req.AddCookie(&http.Cookie{Name: console.SessionCookieName, Value: valid})
	assert.Equal(t, valid, SessionIDFromRequest(req))

	for _, malformed := range []string{"cs_abc", "not-an-id", "cs_" + strings.Repeat("!", 26)} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: console.SessionCookieName, Value: malformed})
		assert.Equal(t, "", SessionIDFromRequest(req), malformed)
	}
}
