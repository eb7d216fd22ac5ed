package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/animeshelf/animes-api/internal/core/domain"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `
		SELECT id, username, password, roles, created_at, updated_at
		FROM users
		WHERE username = $1
	`

	var (
		id    int64
		roles string
		user  domain.User
	)
	err := r.pool.QueryRow(ctx, query, username).Scan(
		&id,
		&user.Username,
		&user.PasswordHash,
		&roles,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	parsed, err := domain.ParseRoles(roles)
	if err != nil {
		return nil, fmt.Errorf("user %q: %w", username, err)
	}
	user.ID = strconv.FormatInt(id, 10)
	user.Roles = parsed
	return &user, nil
}

// Save inserts the user or replaces password and roles of the account with
// the same username.
func (r *UserRepository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	created := user.CreatedAt
	if created.IsZero() {
		created = now
	}

	query := `
		INSERT INTO users (username, password, roles, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (username) DO UPDATE SET
			password = EXCLUDED.password,
			roles = EXCLUDED.roles,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := r.pool.Exec(ctx, query, user.Username, user.PasswordHash, domain.JoinRoles(user.Roles), created, now); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	return r.FindByUsername(ctx, user.Username)
}
