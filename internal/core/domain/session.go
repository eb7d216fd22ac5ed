package domain

import (
	"errors"
	"time"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// Principal is the authenticated caller attached to a request.
type Principal struct {
	Username string
	Roles    []Role
	// Method names the mechanism that authenticated the caller:
	// "basic", "session" or "bearer".
	Method string
}

// HasRole reports whether the principal was granted role. ADMIN implies USER.
func (p *Principal) HasRole(role Role) bool {
	if p == nil {
		return false
	}
	return HasRole(p.Roles, role)
}

// Session is a server-side form-login session.
type Session struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	Roles     []Role    `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired reports whether the session is past its expiry at now.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Principal converts the session into the request principal.
func (s *Session) Principal() *Principal {
	return &Principal{Username: s.Username, Roles: s.Roles, Method: "session"}
}
