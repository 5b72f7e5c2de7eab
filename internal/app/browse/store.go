package browse

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionStore owns the live sessions of one service instance and expires
// the ones that went idle.
type SessionStore struct {
	engine *Engine
	cfg    StoreConfig
	logger *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// StoreConfig holds session lifecycle settings.
type StoreConfig struct {
	DebounceWindow time.Duration
	SiblingCount   int
	IdleTTL        time.Duration
	SweepInterval  time.Duration
}

// NewSessionStore creates a store and starts its idle sweeper.
func NewSessionStore(engine *Engine, cfg StoreConfig, logger *zap.Logger) *SessionStore {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 30 * time.Minute
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &SessionStore{
		engine:   engine,
		cfg:      cfg,
		logger:   logger,
		sessions: make(map[string]*Session),
		ctx:      ctx,
		cancel:   cancel,
	}

	s.wg.Add(1)
	go s.sweep()

	return s
}

// Create opens a new session for a viewer, optionally seeded from a query
// string (the URL the UI loaded with).
func (s *SessionStore) Create(viewerID, rawQuery string) (*Session, error) {
	session := NewSession(
		uuid.NewString(),
		s.engine,
		SessionConfig{
			DebounceWindow: s.cfg.DebounceWindow,
			SiblingCount:   s.cfg.SiblingCount,
			ViewerID:       viewerID,
		},
		s.logger,
	)

	if err := session.ApplyURL(rawQuery); err != nil {
		session.Close()
		return nil, err
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.logger.Debug("session created", zap.String("session_id", session.ID))
	return session, nil
}

// Get returns a live session, or nil when unknown or expired.
func (s *SessionStore) Get(id string) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[id]
}

// Delete closes and removes a session. Idempotent.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	session, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if ok {
		session.Close()
		s.logger.Debug("session deleted", zap.String("session_id", id))
	}
}

// Close stops the sweeper and tears down every live session.
func (s *SessionStore) Close() {
	s.cancel()
	s.wg.Wait()

	s.mu.Lock()
	for id, session := range s.sessions {
		session.Close()
		delete(s.sessions, id)
	}
	s.mu.Unlock()
}

// Count returns the number of live sessions.
func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionStore) sweep() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.expireIdle()
		}
	}
}

func (s *SessionStore) expireIdle() {
	cutoff := time.Now().Add(-s.cfg.IdleTTL)

	s.mu.Lock()
	var expired []*Session
	for id, session := range s.sessions {
		if session.Touched().Before(cutoff) {
			expired = append(expired, session)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, session := range expired {
		session.Close()
	}
	if len(expired) > 0 {
		s.logger.Debug("idle sessions expired", zap.Int("count", len(expired)))
	}
}
