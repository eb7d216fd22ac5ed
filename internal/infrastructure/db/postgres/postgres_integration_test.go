//go:build integration

package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/animeshelf/animes-api/internal/core/domain"
)

const postgresImage = "postgres:16-alpine"

// newTestPool starts a disposable PostgreSQL container and returns a
// migrated pool connected to it.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        postgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "animes",
			"POSTGRES_PASSWORD": "animes",
			"POSTGRES_DB":       "animes",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}

	url := fmt.Sprintf("postgres://animes:animes@%s:%s/animes?sslmode=disable", host, port.Port())
	pool, err := Connect(ctx, Config{URL: url})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func TestIntegrationPostgres_AnimeLifecycle(t *testing.T) {
	pool := newTestPool(t)
	repo := NewAnimeRepository(pool)
	ctx := context.Background()

	saved, err := repo.Save(ctx, domain.Anime{Name: "Tensei Shitara Slime Datta Ken"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ID == 0 {
		t.Fatal("expected assigned id")
	}

	if _, err := repo.Save(ctx, domain.Anime{ID: saved.ID, Name: "That Time I Got Reincarnated as a Slime"}); err != nil {
		t.Fatalf("Save existing: %v", err)
	}
	got, err := repo.FindByID(ctx, saved.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Name != "That Time I Got Reincarnated as a Slime" {
		t.Fatalf("unexpected name %q", got.Name)
	}

	batch, err := repo.SaveAll(ctx, []domain.Anime{{Name: "Dr. Stone"}, {Name: "Haikyuu"}})
	if err != nil {
		t.Fatalf("SaveAll: %v", err)
	}
	if len(batch) != 2 || batch[0].ID >= batch[1].ID {
		t.Fatalf("unexpected batch: %+v", batch)
	}

	all, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(all))
	}

	if err := repo.DeleteByID(ctx, saved.ID); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if err := repo.DeleteByID(ctx, saved.ID); err != nil {
		t.Fatalf("second DeleteByID: %v", err)
	}
	if _, err := repo.FindByID(ctx, saved.ID); !errors.Is(err, domain.ErrAnimeNotFound) {
		t.Fatalf("expected ErrAnimeNotFound, got %v", err)
	}
}

func TestIntegrationPostgres_UserUpsert(t *testing.T) {
	pool := newTestPool(t)
	repo := NewUserRepository(pool)
	ctx := context.Background()

	if _, err := repo.FindByUsername(ctx, "admin"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	first, err := repo.Save(ctx, &domain.User{Username: "admin", PasswordHash: "{bcrypt}a", Roles: []domain.Role{domain.RoleAdmin}})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	second, err := repo.Save(ctx, &domain.User{Username: "admin", PasswordHash: "{bcrypt}b", Roles: []domain.Role{domain.RoleAdmin, domain.RoleUser}})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if first.ID != second.ID || second.PasswordHash != "{bcrypt}b" || len(second.Roles) != 2 {
		t.Fatalf("unexpected upsert result: %+v", second)
	}
}

func TestIntegrationPostgres_MigrateIsIdempotent(t *testing.T) {
	pool := newTestPool(t)

	if err := Migrate(context.Background(), pool); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
}
