package ports

import (
	"context"
	"time"

	"github.com/animeshelf/animes-api/internal/core/domain"
)

// UserDetailsService loads accounts by username for the authenticators.
type UserDetailsService interface {
	LoadByUsername(ctx context.Context, username string) (*domain.User, error)
}

// AuthService verifies credentials and issues session and bearer tokens.
type AuthService interface {
	// Authenticate checks a username/password pair and returns the account.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	// IssueToken signs a bearer token for an authenticated user.
	IssueToken(user *domain.User) (string, time.Time, error)
	// ParseToken validates a bearer token and returns its principal.
	ParseToken(token string) (*domain.Principal, error)
}

// SessionService manages form-login sessions.
type SessionService interface {
	Create(ctx context.Context, user *domain.User) (*domain.Session, error)
	Validate(ctx context.Context, token string) (*domain.Session, error)
	Revoke(ctx context.Context, token string) error
}

// PasswordEncoder hashes and verifies passwords in their "{id}hash" storage form.
type PasswordEncoder interface {
	Encode(raw string) (string, error)
	Matches(raw, encoded string) (bool, error)
}

// UserService provisions accounts for seeding and the bootstrap CLI.
type UserService interface {
	UserDetailsService
	// Register creates the account or, when overwrite is set, replaces the
	// password and roles of an existing one.
	Register(ctx context.Context, username, password string, roles []domain.Role, overwrite bool) (*domain.User, error)
}
