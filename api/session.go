package api

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/raushankrgupta/virtual-try-on/controller"
	"github.com/raushankrgupta/virtual-try-on/models"
	"github.com/raushankrgupta/virtual-try-on/utils"
	"go.uber.org/zap"
)

const (
	// DefaultSessionIdleTTL is how long an untouched session keeps its form and history
	DefaultSessionIdleTTL = 24 * time.Hour
	// DefaultMaxSessions bounds how many sessions are held in memory at once
	DefaultMaxSessions = 1000
)

// ControllerFactory builds the controller for a new browser session
type ControllerFactory func(ctx context.Context, clientID string, notify models.NotifyFunc) *controller.Controller

// Session is one browser's form plus the toasts it has not seen yet
type Session struct {
	ID         string
	Controller *controller.Controller

	mu     sync.Mutex
	toasts []models.Notification

	// lastSeen is a unix-nano timestamp of the last request for this session
	lastSeen atomic.Int64
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

// LastSeen is when the session was last requested
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// busy sessions have a submission in flight and are never evicted
func (s *Session) busy() bool {
	return s.Controller.State().Loading
}

func (s *Session) push(n models.Notification) {
	s.mu.Lock()
	s.toasts = append(s.toasts, n)
	s.mu.Unlock()
}

// DrainNotifications returns pending toasts, oldest first, and forgets them
func (s *Session) DrainNotifications() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.toasts
	s.toasts = nil
	return out
}

// SessionStore keeps one Session per client id. Sessions idle for longer than the idle TTL are
// evicted, and the store never holds more than the session cap unless every session is busy.
type SessionStore struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	factory  ControllerFactory

	idleTTL     time.Duration
	maxSessions int
	now         func() time.Time
}

// SessionStoreOption configures a SessionStore
type SessionStoreOption func(*SessionStore)

// WithIdleTTL sets how long an untouched session is kept. Zero or less keeps the default.
func WithIdleTTL(ttl time.Duration) SessionStoreOption {
	return func(s *SessionStore) {
		if ttl > 0 {
			s.idleTTL = ttl
		}
	}
}

// WithMaxSessions caps the number of sessions held. Zero or less keeps the default.
func WithMaxSessions(n int) SessionStoreOption {
	return func(s *SessionStore) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithClock replaces the wall clock used for idle tracking
func WithClock(now func() time.Time) SessionStoreOption {
	return func(s *SessionStore) {
		s.now = now
	}
}

func NewSessionStore(factory ControllerFactory, opts ...SessionStoreOption) *SessionStore {
	s := &SessionStore{
		sessions:    make(map[string]*Session),
		factory:     factory,
		idleTTL:     DefaultSessionIdleTTL,
		maxSessions: DefaultMaxSessions,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SessionStore) Get(clientID string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, exists := s.sessions[clientID]
	return session, exists
}

// GetOrCreate returns the session for clientID, building its controller on first use.
// Either way the session is marked as seen now.
func (s *SessionStore) GetOrCreate(ctx context.Context, clientID string) *Session {
	now := s.now()
	if session, ok := s.Get(clientID); ok {
		session.touch(now)
		return session
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[clientID]; ok {
		session.touch(now)
		return session
	}

	if len(s.sessions) >= s.maxSessions {
		s.evictIdleLocked(now)
	}
	if len(s.sessions) >= s.maxSessions {
		s.evictOldestLocked()
	}

	session := &Session{ID: clientID}
	session.Controller = s.factory(ctx, clientID, session.push)
	session.touch(now)
	s.sessions[clientID] = session
	return session
}

// Sweep evicts sessions idle past the TTL and returns how many were removed
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evictIdleLocked(s.now())
}

// StartJanitor sweeps idle sessions every interval until ctx is done
func (s *SessionStore) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.Sweep(); n > 0 {
					utils.Logger.Info("evicted idle sessions", zap.Int("count", n), zap.Int("remaining", s.Len()))
				}
			}
		}
	}()
}

func (s *SessionStore) evictIdleLocked(now time.Time) int {
	evicted := 0
	for id, session := range s.sessions {
		if now.Sub(session.LastSeen()) > s.idleTTL && !session.busy() {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

// evictOldestLocked drops the least recently seen session that has nothing in flight
func (s *SessionStore) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, session := range s.sessions {
		if session.busy() {
			continue
		}
		if seen := session.LastSeen(); oldestID == "" || seen.Before(oldest) {
			oldestID, oldest = id, seen
		}
	}
	if oldestID != "" {
		delete(s.sessions, oldestID)
		utils.Logger.Debug("session cap reached, evicted oldest", zap.String("session", oldestID))
	}
}

func (s *SessionStore) Delete(clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, clientID)
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Wait blocks until every session's background submissions have finished
func (s *SessionStore) Wait() {
	s.mu.RLock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	s.mu.RUnlock()

	for _, session := range sessions {
		session.Controller.Wait()
	}
}
