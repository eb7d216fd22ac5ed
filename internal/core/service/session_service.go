package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/animeshelf/animes-api/internal/core/domain"
	"github.com/animeshelf/animes-api/internal/core/ports"
)

const sessionTokenBytes = 32

// SessionService issues and validates form-login sessions against a store.
type SessionService struct {
	store ports.SessionStore
	ttl   time.Duration
	now   func() time.Time
}

func NewSessionService(store ports.SessionStore, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SessionService{store: store, ttl: ttl, now: time.Now}
}

func (s *SessionService) Create(ctx context.Context, user *domain.User) (*domain.Session, error) {
	if user == nil || user.Username == "" {
		return nil, domain.ErrInvalidCredentials
	}
	token, err := generateToken(sessionTokenBytes)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	session := &domain.Session{
		Token:     token,
		Username:  user.Username,
		Roles:     user.Roles,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Validate returns domain.ErrSessionNotFound for unknown tokens and
// domain.ErrSessionExpired for stale ones, which are removed on sight.
func (s *SessionService) Validate(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrSessionNotFound
	}
	session, err := s.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(s.now()) {
		_ = s.store.Delete(ctx, token)
		return nil, domain.ErrSessionExpired
	}
	return session, nil
}

func (s *SessionService) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	err := s.store.Delete(ctx, token)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil
	}
	return err
}

// PurgeExpired drops every expired session from the store.
func (s *SessionService) PurgeExpired(ctx context.Context) error {
	return s.store.PurgeExpired(ctx, s.now())
}

// TTL is the lifetime given to new sessions.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

func generateToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
