package ports

import (
	"context"

	"github.com/animeshelf/animes-api/internal/core/domain"
)

// UserRepository is the user store consulted during authentication.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// Save creates the user or replaces the password hash and roles of an
	// existing user with the same username.
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
}
