package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/animeshelf/animes-api/internal/core/domain"
	"github.com/animeshelf/animes-api/internal/core/ports"
)

// AuthService verifies credentials and issues bearer tokens.
type AuthService struct {
	users     ports.UserDetailsService
	encoder   ports.PasswordEncoder
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(users ports.UserDetailsService, encoder ports.PasswordEncoder, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &AuthService{users: users, encoder: encoder, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Authenticate returns domain.ErrInvalidCredentials for unknown users and
// wrong passwords alike.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.LoadByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := s.encoder.Matches(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password for %q: %w", username, err)
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

type tokenClaims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

func (s *AuthService) IssueToken(user *domain.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.tokenTTL)

	roles := make([]string, len(user.Roles))
	for i, r := range user.Roles {
		roles[i] = string(r)
	}
	claims := tokenClaims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseToken accepts HS256 tokens signed with the configured secret only.
func (s *AuthService) ParseToken(token string) (*domain.Principal, error) {
	var claims tokenClaims
	tkn, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidCredentials
	}
	if claims.Subject == "" {
		return nil, domain.ErrInvalidCredentials
	}

	roles := make([]domain.Role, 0, len(claims.Roles))
	for _, r := range claims.Roles {
		role, err := domain.ParseRole(r)
		if err != nil {
			return nil, domain.ErrInvalidCredentials
		}
		roles = append(roles, role)
	}
	return &domain.Principal{Username: claims.Subject, Roles: roles, Method: "bearer"}, nil
}
