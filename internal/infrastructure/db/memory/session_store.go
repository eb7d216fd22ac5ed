package memory

import (
	"context"
	"sync"
	"time"

	"github.com/animeshelf/animes-api/internal/core/domain"
)

// SessionStore keeps sessions in-memory. It is safe for concurrent use and
// suited to single-instance deployments.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]domain.Session)}
}

func (s *SessionStore) Save(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	s.sessions[session.Token] = *session
	s.mu.Unlock()
	return nil
}

func (s *SessionStore) Get(_ context.Context, token string) (*domain.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

func (s *SessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}

func (s *SessionStore) PurgeExpired(_ context.Context, now time.Time) error {
	s.mu.Lock()
	for token, session := range s.sessions {
		if session.IsExpired(now) {
			delete(s.sessions, token)
		}
	}
	s.mu.Unlock()
	return nil
}

// Ping always reports success for the in-memory store.
func (s *SessionStore) Ping(context.Context) error {
	return nil
}

// Len reports the number of stored sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
