//go:build integration

package redis

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/animeshelf/animes-api/internal/core/domain"
)

// requireEnv returns an environment variable or skips the test if missing.
func requireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

func TestIntegrationRedis_SessionLifecycle(t *testing.T) {
	addr := requireEnv(t, "REDIS_ADDR")
	ctx := context.Background()

	client, err := Connect(ctx, Config{Addr: addr})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	store := NewSessionStore(client)
	token := uuid.NewString()
	session := &domain.Session{
		Token:     token,
		Username:  "devdojo",
		Roles:     []domain.Role{domain.RoleUser},
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().Add(time.Minute).UTC(),
	}

	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("Save: %v", err)
	}
	ttl, err := client.TTL(ctx, store.key(token)).Result()
	if err != nil || ttl <= 0 || ttl > time.Minute {
		t.Fatalf("unexpected ttl %v (%v)", ttl, err)
	}

	got, err := store.Get(ctx, token)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Username != "devdojo" || !got.Principal().HasRole(domain.RoleUser) {
		t.Fatalf("unexpected session: %+v", got)
	}

	if err := store.Delete(ctx, token); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, token); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestIntegrationRedis_SaveRejectsExpired(t *testing.T) {
	addr := requireEnv(t, "REDIS_ADDR")
	client, err := Connect(context.Background(), Config{Addr: addr})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	store := NewSessionStore(client)
	err = store.Save(context.Background(), &domain.Session{Token: "stale", ExpiresAt: time.Now().Add(-time.Second)})
	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}
