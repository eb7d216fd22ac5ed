package memory

import (
	"context"
	"strconv"
	"sync"

	"github.com/animeshelf/animes-api/internal/core/domain"
)

// UserRepository is an in-memory user store keyed by username.
type UserRepository struct {
	mu     sync.RWMutex
	users  map[string]domain.User
	nextID int
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]domain.User)}
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	u, ok := r.users[username]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Roles = append([]domain.Role(nil), u.Roles...)
	return &u, nil
}

// Save inserts the user or replaces the account with the same username.
func (r *UserRepository) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := *user
	u.Roles = append([]domain.Role(nil), user.Roles...)
	if existing, ok := r.users[u.Username]; ok {
		u.ID = existing.ID
	} else if u.ID == "" {
		r.nextID++
		u.ID = strconv.Itoa(r.nextID)
	}
	r.users[u.Username] = u

	out := u
	return &out, nil
}
