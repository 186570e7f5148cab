package console

import (
	"sync"
	"time"

	"github.com/samber/mo"

	"userconsole/core"
	"userconsole/core/log"
	"userconsole/services"
)

const SessionCookieName = "console_session"

type session struct {
	console     *Console
	lastSeen    time.Time
	connections int
}

// Sessions keeps one Console per browser session
type Sessions struct {
	usersService services.UsersService
	idleTTL      time.Duration
	now          func() time.Time

	mutex    sync.Mutex
	sessions map[string]*session
}

func NewSessions(usersService services.UsersService, idleTTL time.Duration) *Sessions {
	return &Sessions{
		usersService: usersService,
		idleTTL:      idleTTL,
		now:          time.Now,
		sessions:     make(map[string]*session),
	}
}

// Acquire returns the console for id. When id is unknown a new session is
// started under a fresh id and created is true; the caller mounts it.
func (s *Sessions) Acquire(id string) (sessionID string, c *Console, created bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if sess, ok := s.sessions[id]; ok {
		sess.lastSeen = s.now()
		return id, sess.console, false
	}

	sessionID = core.NewID("cs")
	c = NewConsole(s.usersService)
	s.sessions[sessionID] = &session{console: c, lastSeen: s.now()}
	log.Info("➕ Started console session", "session_id", sessionID)
	return sessionID, c, true
}

// Get returns the console for an existing session
func (s *Sessions) Get(id string) mo.Option[*Console] {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return mo.None[*Console]()
	}
	sess.lastSeen = s.now()
	return mo.Some(sess.console)
}

// Attach marks a live connection on the session; the session is not evicted
// until release is called.
func (s *Sessions) Attach(id string) (*Console, func(), bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, nil, false
	}
	sess.connections++
	sess.lastSeen = s.now()

	var once sync.Once
	release := func() {
		once.Do(func() {
			s.mutex.Lock()
			defer s.mutex.Unlock()
			sess.connections--
			sess.lastSeen = s.now()
		})
	}
	return sess.console, release, true
}

func (s *Sessions) Count() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.sessions)
}

// CleanupInactiveSessions closes sessions with no live connection that have
// been idle longer than the configured TTL
func (s *Sessions) CleanupInactiveSessions() error {
	log.Debug("📋 Starting to clean up inactive console sessions")

	s.mutex.Lock()
	cutoff := s.now().Add(-s.idleTTL)
	var stale []*Console
	for id, sess := range s.sessions {
		if sess.connections > 0 || sess.lastSeen.After(cutoff) {
			continue
		}
		stale = append(stale, sess.console)
		delete(s.sessions, id)
		log.Info("🗑️ Evicted idle console session", "session_id", id)
	}
	s.mutex.Unlock()

	for _, c := range stale {
		c.Close()
	}

	log.Debug("📋 Completed successfully - cleaned up inactive console sessions", "evicted", len(stale))
	return nil
}

func (s *Sessions) CloseAll() {
	s.mutex.Lock()
	all := s.sessions
	s.sessions = make(map[string]*session)
	s.mutex.Unlock()

	for _, sess := range all {
		sess.console.Close()
	}
}
