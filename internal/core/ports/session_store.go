package ports

import (
	"context"
	"time"

	"github.com/animeshelf/animes-api/internal/core/domain"
)

// SessionStore persists form-login sessions keyed by their opaque token.
type SessionStore interface {
	Save(ctx context.Context, session *domain.Session) error
	// Get returns domain.ErrSessionNotFound for unknown tokens.
	Get(ctx context.Context, token string) (*domain.Session, error)
	Delete(ctx context.Context, token string) error
	// PurgeExpired drops sessions that expired before now. Stores with native
	// expiry may treat it as a no-op.
	PurgeExpired(ctx context.Context, now time.Time) error
}
