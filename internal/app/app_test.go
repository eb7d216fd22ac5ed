package app

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/animeshelf/animes-api/internal/core/domain"
	"github.com/animeshelf/animes-api/internal/pkg/config"
)

func memoryConfig(seeds ...string) *config.Config {
	cfg := &config.Config{Port: "0", Env: "development"}
	cfg.Store.Driver = config.DriverMemory
	cfg.Auth.SessionStore = "memory"
	cfg.Auth.SeedUsers = seeds
	return cfg
}

func TestOpenStores_Memory(t *testing.T) {
	stores, err := OpenStores(context.Background(), memoryConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer stores.Close(context.Background())

	if stores.Animes == nil || stores.Users == nil || stores.Sessions == nil {
		t.Fatal("expected every store to be set")
	}
	if !stores.NeedsPurge {
		t.Error("memory sessions need the purger")
	}
	if len(stores.Checks) != 0 {
		t.Errorf("memory stores have no readiness checks, got %v", stores.Checks)
	}
}

func TestOpenStores_UnknownDriver(t *testing.T) {
	cfg := memoryConfig()
	cfg.Store.Driver = "cassandra"
	if _, err := OpenStores(context.Background(), cfg, zerolog.Nop()); err == nil {
		t.Fatal("expected error")
	}
}

func TestOpenStores_SQLite(t *testing.T) {
	cfg := memoryConfig()
	cfg.Store.Driver = config.DriverSQLite
	cfg.SQLite.Path = "file:app_test?mode=memory&cache=shared"

	stores, err := OpenStores(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer stores.Close(context.Background())

	check, ok := stores.Checks["sqlite"]
	if !ok {
		t.Fatal("expected a sqlite readiness check")
	}
	if err := check(context.Background()); err != nil {
		t.Errorf("sqlite check failed: %v", err)
	}
}

func TestSeedUsers_CreatesOnceAndKeepsExisting(t *testing.T) {
	ctx := context.Background()
	cfg := memoryConfig("admin:academy:ADMIN|USER", "devdojo:academy:USER")
	stores, err := OpenStores(ctx, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc, err := NewServices(cfg, stores, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := SeedUsers(ctx, cfg, svc.Users, zerolog.Nop()); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	first, err := svc.Users.LoadByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("admin not seeded: %v", err)
	}
	if !first.HasRole(domain.RoleAdmin) {
		t.Errorf("admin roles = %v", first.Roles)
	}

	if err := SeedUsers(ctx, cfg, svc.Users, zerolog.Nop()); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	second, _ := svc.Users.LoadByUsername(ctx, "admin")
	if second.PasswordHash != first.PasswordHash {
		t.Error("existing seed user must not be rehashed")
	}

	if _, err := svc.Auth.Authenticate(ctx, "devdojo", "academy"); err != nil {
		t.Errorf("seeded credentials rejected: %v", err)
	}
}

func TestSeedUsers_InvalidRole(t *testing.T) {
	ctx := context.Background()
	cfg := memoryConfig("root:secret:SUPERUSER")
	stores, _ := OpenStores(ctx, cfg, zerolog.Nop())
	svc, _ := NewServices(cfg, stores, zerolog.Nop())

	if err := SeedUsers(ctx, cfg, svc.Users, zerolog.Nop()); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestNewServices_GeneratesSecretInDevelopment(t *testing.T) {
	ctx := context.Background()
	cfg := memoryConfig("admin:academy:ADMIN")
	stores, _ := OpenStores(ctx, cfg, zerolog.Nop())
	svc, err := NewServices(cfg, stores, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = SeedUsers(ctx, cfg, svc.Users, zerolog.Nop())

	user, _ := svc.Users.LoadByUsername(ctx, "admin")
	token, _, err := svc.Auth.IssueToken(user)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := svc.Auth.ParseToken(token); err != nil {
		t.Errorf("token signed with generated secret rejected: %v", err)
	}
}
