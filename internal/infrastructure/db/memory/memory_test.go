package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/animeshelf/animes-api/internal/core/domain"
)

func TestAnimeRepository_SaveAssignsSequentialIDs(t *testing.T) {
	repo := NewAnimeRepository()
	ctx := context.Background()

	first, _ := repo.Save(ctx, domain.Anime{Name: "Hajime no Ippo"})
	second, _ := repo.Save(ctx, domain.Anime{Name: "Vinland Saga"})
	if first.ID != 1 || second.ID != 2 {
		t.Fatalf("expected ids 1 and 2, got %d and %d", first.ID, second.ID)
	}

	all, _ := repo.FindAll(ctx)
	if len(all) != 2 || all[0].ID != 1 {
		t.Fatalf("unexpected FindAll result: %+v", all)
	}
}

func TestAnimeRepository_SaveReplacesExisting(t *testing.T) {
	repo := NewAnimeRepository()
	ctx := context.Background()

	saved, _ := repo.Save(ctx, domain.Anime{Name: "Naruto"})
	if _, err := repo.Save(ctx, domain.Anime{ID: saved.ID, Name: "Boruto"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	got, err := repo.FindByID(ctx, saved.ID)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if got.Name != "Boruto" {
		t.Fatalf("expected replaced name, got %q", got.Name)
	}
}

func TestAnimeRepository_ExplicitIDAdvancesCounter(t *testing.T) {
	repo := NewAnimeRepository()
	ctx := context.Background()

	_, _ = repo.Save(ctx, domain.Anime{ID: 10, Name: "Imported"})
	next, _ := repo.Save(ctx, domain.Anime{Name: "Fresh"})
	if next.ID != 11 {
		t.Fatalf("expected id 11, got %d", next.ID)
	}
}

func TestAnimeRepository_DeleteMissingIsNoop(t *testing.T) {
	repo := NewAnimeRepository()

	if err := repo.DeleteByID(context.Background(), 999); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if _, err := repo.FindByID(context.Background(), 999); !errors.Is(err, domain.ErrAnimeNotFound) {
		t.Fatalf("expected ErrAnimeNotFound, got %v", err)
	}
}

func TestAnimeRepository_ConcurrentSaves(t *testing.T) {
	repo := NewAnimeRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.Save(ctx, domain.Anime{Name: "x"})
		}()
	}
	wg.Wait()

	all, _ := repo.FindAll(ctx)
	if len(all) != 50 {
		t.Fatalf("expected 50 records, got %d", len(all))
	}
}

func TestUserRepository_SaveAndFind(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	saved, err := repo.Save(ctx, &domain.User{Username: "devdojo", PasswordHash: "{bcrypt}x", Roles: []domain.Role{domain.RoleUser}})
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected assigned id")
	}

	again, _ := repo.Save(ctx, &domain.User{Username: "devdojo", PasswordHash: "{bcrypt}y", Roles: []domain.Role{domain.RoleAdmin}})
	if again.ID != saved.ID {
		t.Fatalf("expected id %q to be kept, got %q", saved.ID, again.ID)
	}

	got, err := repo.FindByUsername(ctx, "devdojo")
	if err != nil {
		t.Fatalf("FindByUsername returned error: %v", err)
	}
	if got.PasswordHash != "{bcrypt}y" || !got.HasRole(domain.RoleAdmin) {
		t.Fatalf("unexpected user: %+v", got)
	}

	if _, err := repo.FindByUsername(ctx, "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestSessionStore_PurgeExpired(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	_ = store.Save(ctx, &domain.Session{Token: "old", ExpiresAt: now.Add(-time.Second)})
	_ = store.Save(ctx, &domain.Session{Token: "fresh", ExpiresAt: now.Add(time.Hour)})

	if err := store.PurgeExpired(ctx, now); err != nil {
		t.Fatalf("PurgeExpired returned error: %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", store.Len())
	}
	if _, err := store.Get(ctx, "old"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
