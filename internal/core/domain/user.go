package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Role is an authority granted to a principal.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidRole        = errors.New("invalid role")
)

// ParseRole converts a case-insensitive role name, optionally carrying the
// "ROLE_" prefix, into a Role.
func ParseRole(s string) (Role, error) {
	r := strings.ToUpper(strings.TrimSpace(s))
	r = strings.TrimPrefix(r, "ROLE_")
	switch Role(r) {
	case RoleUser, RoleAdmin:
		return Role(r), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

// ParseRoles splits a comma or pipe separated list of role names.
func ParseRoles(s string) ([]Role, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '|' })
	roles := make([]Role, 0, len(fields))
	for _, f := range fields {
		role, err := ParseRole(f)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, nil
}

// JoinRoles is the storage form of a role set ("ADMIN,USER").
func JoinRoles(roles []Role) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}

// User models an account that can authenticate against the API.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasRole reports whether the user was granted role. ADMIN implies USER.
func (u *User) HasRole(role Role) bool {
	return HasRole(u.Roles, role)
}

// HasRole reports whether granted satisfies role. ADMIN implies USER.
func HasRole(granted []Role, role Role) bool {
	for _, g := range granted {
		if g == role {
			return true
		}
		if g == RoleAdmin && role == RoleUser {
			return true
		}
	}
	return false
}
