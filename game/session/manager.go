package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wricardo/city-explorer-game/game/engine"
	"github.com/wricardo/city-explorer-game/game/service"
)

var (
	ErrSessionNotFound      = service.ErrSessionNotFound
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

// idLength is the length of generated session ids
const idLength = 4

// StateListener receives every applied change of every session
type StateListener func(sessionID string, state engine.GameState, events []engine.Event)

// Option configures a Manager
type Option func(*Manager)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithEngineOptions passes options to every engine the manager creates
func WithEngineOptions(opts ...engine.Option) Option {
	return func(m *Manager) { m.engineOpts = append(m.engineOpts, opts...) }
}

// WithStateListener forwards engine changes, including timer driven ones
func WithStateListener(fn StateListener) Option {
	return func(m *Manager) { m.listener = fn }
}

// Manager handles game session lifecycle
type Manager struct {
	sessions   map[string]*service.Session
	engineOpts []engine.Option
	listener   StateListener
	logger     *zap.Logger
	mu         sync.RWMutex
}

// NewManager creates a new session manager
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		sessions: make(map[string]*service.Session),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create creates a new session with the given ID and configuration. An
// empty id gets a generated one.
func (m *Manager) Create(id string, config *engine.GameConfig) (*service.Session, error) {
	if strings.ContainsAny(id, "/ \t\n") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id = m.generateSessionID()
	} else if m.sessionExists(id) {
		// Check if session already exists (case-insensitive)
		return nil, ErrSessionAlreadyExists
	}

	logger := m.logger.With(zap.String("session", id))
	opts := append([]engine.Option{engine.WithLogger(logger)}, m.engineOpts...)
	if m.listener != nil {
		listener, sessionID := m.listener, id
		opts = append(opts, engine.WithChangeListener(func(state engine.GameState, events []engine.Event) {
			listener(sessionID, state, events)
		}))
	}

	eng, err := engine.NewEngine(config, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	now := time.Now()
	session := &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	m.sessions[strings.ToLower(id)] = session

	logger.Info("session created", zap.String("config", config.Name))
	return snapshot(session), nil
}

// Get retrieves a session by ID (case-insensitive). The returned value is a
// copy; its timestamps do not change after the call.
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return snapshot(session), nil
}

// List returns copies of all active sessions
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, snapshot(session))
	}
	return result
}

// snapshot copies a stored session so callers can read it without holding mu.
// The engine is shared; it does its own locking.
func snapshot(s *service.Session) *service.Session {
	c := *s
	return &c
}

// Delete removes a session and stops its timers
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	session, exists := m.sessions[strings.ToLower(id)]
	if exists {
		delete(m.sessions, strings.ToLower(id))
	}
	m.mu.Unlock()

	if !exists {
		return ErrSessionNotFound
	}
	session.Engine.Close()
	m.logger.Info("session deleted", zap.String("session", session.ID))
	return nil
}

// UpdateLastAccessed updates the last accessed time for a session
func (m *Manager) UpdateLastAccessed(id string) error {
	return m.setLastAccessed(id, time.Now())
}

func (m *Manager) setLastAccessed(id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return ErrSessionNotFound
	}
	session.LastAccessedAt = at
	return nil
}

// CleanupExpiredSessions removes sessions that haven't been accessed in the given duration
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	m.mu.Lock()
	var expired []*service.Session
	for key, session := range m.sessions {
		if session.LastAccessedAt.Before(cutoff) {
			delete(m.sessions, key)
			expired = append(expired, snapshot(session))
		}
	}
	m.mu.Unlock()

	for _, session := range expired {
		session.Engine.Close()
		m.logger.Info("session expired",
			zap.String("session", session.ID),
			zap.Time("last_accessed", session.LastAccessedAt),
		)
	}
	return len(expired)
}

// RunCleanup expires idle sessions every interval until ctx is done
func (m *Manager) RunCleanup(ctx context.Context, interval, maxAge time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := m.CleanupExpiredSessions(maxAge); n > 0 {
				m.logger.Info("expired idle sessions", zap.Int("removed", n), zap.Int("active", m.Count()))
			}
		}
	}
}

// Close stops every session's engine and forgets all sessions
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*service.Session)
	m.mu.Unlock()

	for _, session := range sessions {
		session.Engine.Close()
	}
}

// Count returns the number of active sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// generateSessionID returns an unused short id. Callers hold the lock.
func (m *Manager) generateSessionID() string {
	for length := idLength; ; length++ {
		for attempt := 0; attempt < 16; attempt++ {
			id := strings.ReplaceAll(uuid.NewString(), "-", "")[:length]
			if !m.sessionExists(id) {
				return id
			}
		}
	}
}

// sessionExists checks if a session exists (case-insensitive)
func (m *Manager) sessionExists(id string) bool {
	_, exists := m.sessions[strings.ToLower(id)]
	return exists
}
