package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/animeshelf/animes-api/internal/core/domain"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var (
		id               int64
		roles            string
		created, updated int64
		user             domain.User
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password, roles, created_at, updated_at FROM users WHERE username = ?`,
		username,
	).Scan(&id, &user.Username, &user.PasswordHash, &roles, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	parsed, err := domain.ParseRoles(roles)
	if err != nil {
		return nil, fmt.Errorf("user %q: %w", username, err)
	}
	user.ID = strconv.FormatInt(id, 10)
	user.Roles = parsed
	user.CreatedAt = unixToTime(created)
	user.UpdatedAt = unixToTime(updated)
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
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, password, roles, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(username) DO UPDATE SET
             password = excluded.password,
             roles = excluded.roles,
             updated_at = excluded.updated_at`,
		user.Username, user.PasswordHash, domain.JoinRoles(user.Roles), created.Unix(), now.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	return r.FindByUsername(ctx, user.Username)
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
