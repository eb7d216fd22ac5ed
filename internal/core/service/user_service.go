package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/animeshelf/animes-api/internal/core/domain"
	"github.com/animeshelf/animes-api/internal/core/ports"
)

// UserService loads accounts for the authenticators and provisions new ones.
type UserService struct {
	repo    ports.UserRepository
	encoder ports.PasswordEncoder
	logger  zerolog.Logger
}

func NewUserService(repo ports.UserRepository, encoder ports.PasswordEncoder, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, encoder: encoder, logger: logger}
}

// LoadByUsername looks the account up by exact username.
func (s *UserService) LoadByUsername(ctx context.Context, username string) (*domain.User, error) {
	if username == "" {
		return nil, domain.ErrUserNotFound
	}
	return s.repo.FindByUsername(ctx, username)
}

func (s *UserService) Register(ctx context.Context, username, password string, roles []domain.Role, overwrite bool) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if len(roles) == 0 {
		return nil, domain.ErrInvalidRole
	}

	now := time.Now().UTC()
	user := &domain.User{Username: username, Roles: roles, CreatedAt: now, UpdatedAt: now}

	existing, err := s.repo.FindByUsername(ctx, username)
	switch {
	case err == nil && !overwrite:
		return nil, domain.ErrUserExists
	case err == nil:
		user.ID = existing.ID
		user.CreatedAt = existing.CreatedAt
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("lookup user %q: %w", username, err)
	}

	hash, err := s.encoder.Encode(password)
	if err != nil {
		return nil, fmt.Errorf("encode password: %w", err)
	}
	user.PasswordHash = hash

	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("username", saved.Username).Str("roles", domain.JoinRoles(saved.Roles)).Msg("user registered")
	return saved, nil
}
