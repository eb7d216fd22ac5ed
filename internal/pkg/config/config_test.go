package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("port: want 8080, got %q", cfg.Port)
	}
	if cfg.Store.Driver != DriverMemory {
		t.Errorf("driver: want memory, got %q", cfg.Store.Driver)
	}
	if cfg.Auth.SessionTTL != 30*time.Minute {
		t.Errorf("session ttl: want 30m, got %v", cfg.Auth.SessionTTL)
	}
	if !cfg.IsDevelopment() {
		t.Error("expected development env by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"PORT":          "9090",
		"STORE_DRIVER":  "postgres",
		"SESSION_STORE": "redis",
		"SEED_USERS":    "admin:secret:ADMIN|USER,devdojo:secret:USER",
		"ENV":           "production",
		"JWT_SECRET":    "s3cret",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9090" || cfg.Store.Driver != DriverPostgres || cfg.Auth.SessionStore != "redis" {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	seeds, err := cfg.ParseSeedUsers()
	if err != nil {
		t.Fatalf("seed users: %v", err)
	}
	if len(seeds) != 2 || seeds[0].Username != "admin" || seeds[0].Roles != "ADMIN|USER" {
		t.Fatalf("unexpected seeds: %+v", seeds)
	}
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{"STORE_DRIVER": "cassandra"}))
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestLoad_RequiresSecretOutsideDevelopment(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{"ENV": "production"}))
	if err == nil {
		t.Fatal("expected error without JWT_SECRET in production")
	}
}

func TestParseSeedUsers_Invalid(t *testing.T) {
	cfg := &Config{Auth: AuthConfig{SeedUsers: []string{"admin:secret"}}}
	if _, err := cfg.ParseSeedUsers(); err == nil {
		t.Fatal("expected error for malformed entry")
	}
}
