package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/landmarkbot/internal/logging"
	"github.com/dmitrijs2005/landmarkbot/internal/server/models"
	"github.com/dmitrijs2005/landmarkbot/internal/server/repositories/sessions"
)

// DefaultValidity is how long a session stays authorized.
const DefaultValidity = 30 * 24 * time.Hour

// SessionManager tracks which users are authorized. The in-memory set is the
// source of truth at runtime; every change is written through to the store
// so sessions survive restarts.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[int64]time.Time

	store    sessions.Repository
	creds    *Credentials
	validity time.Duration
	now      func() time.Time
	logger   logging.Logger
}

// Option configures a SessionManager.
type Option func(*SessionManager)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *SessionManager) { m.now = now }
}

// WithValidity overrides DefaultValidity.
func WithValidity(d time.Duration) Option {
	return func(m *SessionManager) { m.validity = d }
}

func NewSessionManager(store sessions.Repository, creds *Credentials, logger logging.Logger, opts ...Option) *SessionManager {
	m := &SessionManager{
		sessions: make(map[int64]time.Time),
		store:    store,
		creds:    creds,
		validity: DefaultValidity,
		now:      time.Now,
		logger:   logger,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Load replaces the in-memory set with the persisted sessions. Expired
// sessions are dropped and purged from the store right away.
func (m *SessionManager) Load(ctx context.Context) error {
	now := m.now()

	purged, err := m.store.DeleteExpired(ctx, now)
	if err != nil {
		return fmt.Errorf("purge expired sessions: %w", err)
	}

	list, err := m.store.List(ctx)
	if err != nil {
		return fmt.Errorf("load sessions: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions = make(map[int64]time.Time, len(list))
	for _, s := range list {
		if s.ValidAt(now) {
			m.sessions[s.UserID] = s.ExpiresAt
		}
	}

	m.logger.Info(ctx, "sessions loaded", "active", len(m.sessions), "purged", purged)
	return nil
}

// CheckLogin reports whether login is the configured admin login.
func (m *SessionManager) CheckLogin(login string) bool {
	return m.creds.CheckLogin(login)
}

// Authenticate creates or refreshes the session of userID when login and
// password are correct. A false result with nil error means bad credentials.
func (m *SessionManager) Authenticate(ctx context.Context, userID int64, login, password string) (bool, error) {
	if !m.creds.Check(login, password) {
		m.logger.Warn(ctx, "authentication failed", "user_id", userID)
		return false, nil
	}

	s := models.Session{UserID: userID, ExpiresAt: m.now().Add(m.validity)}

	m.mu.Lock()
	m.sessions[userID] = s.ExpiresAt
	m.mu.Unlock()

	if err := m.store.Save(ctx, s); err != nil {
		return true, fmt.Errorf("persist session: %w", err)
	}

	m.logger.Info(ctx, "session created", "user_id", userID, "expires_at", s.ExpiresAt)
	return true, nil
}

// IsAuthorized reports whether userID holds an unexpired session. An expired
// session is evicted and the eviction persisted.
func (m *SessionManager) IsAuthorized(ctx context.Context, userID int64) bool {
	now := m.now()

	m.mu.Lock()
	expiresAt, ok := m.sessions[userID]
	if !ok {
		m.mu.Unlock()
		return false
	}
	if (models.Session{UserID: userID, ExpiresAt: expiresAt}).ValidAt(now) {
		m.mu.Unlock()
		return true
	}
	delete(m.sessions, userID)
	m.mu.Unlock()

	if err := m.store.Delete(ctx, userID); err != nil {
		m.logger.Error(ctx, "failed to persist session eviction", "user_id", userID, "error", err)
	} else {
		m.logger.Info(ctx, "session expired", "user_id", userID)
	}
	return false
}

// Logout removes the session of userID whether or not it exists.
func (m *SessionManager) Logout(ctx context.Context, userID int64) error {
	m.mu.Lock()
	delete(m.sessions, userID)
	m.mu.Unlock()

	if err := m.store.Delete(ctx, userID); err != nil {
		return fmt.Errorf("persist logout: %w", err)
	}
	return nil
}

// PurgeExpired drops every expired session from memory and from the store
// and returns how many in-memory sessions were dropped.
func (m *SessionManager) PurgeExpired(ctx context.Context) (int, error) {
	now := m.now()

	m.mu.Lock()
	n := 0
	for id, exp := range m.sessions {
		if !(models.Session{UserID: id, ExpiresAt: exp}).ValidAt(now) {
			delete(m.sessions, id)
			n++
		}
	}
	m.mu.Unlock()

	if _, err := m.store.DeleteExpired(ctx, now); err != nil {
		return n, fmt.Errorf("purge expired sessions: %w", err)
	}
	return n, nil
}
