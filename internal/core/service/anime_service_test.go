package service

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/rs/zerolog"

	"github.com/animeshelf/animes-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubAnimeRepo struct {
	byID    map[int64]domain.Anime
	nextID  int64
	saveErr error // if set, Save and SaveAll return this error
	deleted []int64
}

func newStubAnimeRepo(seed ...string) *stubAnimeRepo {
	r := &stubAnimeRepo{byID: make(map[int64]domain.Anime)}
	for _, name := range seed {
		_, _ = r.Save(context.Background(), domain.Anime{Name: name})
	}
	return r
}

func (r *stubAnimeRepo) FindAll(_ context.Context) ([]domain.Anime, error) {
	out := make([]domain.Anime, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubAnimeRepo) FindByID(_ context.Context, id int64) (*domain.Anime, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAnimeNotFound
	}
	return &a, nil
}

func (r *stubAnimeRepo) Save(_ context.Context, a domain.Anime) (*domain.Anime, error) {
	if r.saveErr != nil {
		return nil, r.saveErr
	}
	if a.IsNew() {
		r.nextID++
		a.ID = r.nextID
	}
	r.byID[a.ID] = a
	return &a, nil
}

func (r *stubAnimeRepo) SaveAll(ctx context.Context, animes []domain.Anime) ([]domain.Anime, error) {
	out := make([]domain.Anime, 0, len(animes))
	for _, a := range animes {
		saved, err := r.Save(ctx, a)
		if err != nil {
			return nil, err
		}
		out = append(out, *saved)
	}
	return out, nil
}

func (r *stubAnimeRepo) DeleteByID(_ context.Context, id int64) error {
	r.deleted = append(r.deleted, id)
	delete(r.byID, id)
	return nil
}

func newAnimeService(repo *stubAnimeRepo) *AnimeService {
	return NewAnimeService(repo, zerolog.Nop())
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestAnimeService_FindAll_ReturnsInIDOrder(t *testing.T) {
	svc := newAnimeService(newStubAnimeRepo("Bleach", "Naruto", "One Piece"))

	animes, err := svc.FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll returned error: %v", err)
	}
	if len(animes) != 3 {
		t.Fatalf("expected 3 animes, got %d", len(animes))
	}
	if animes[0].Name != "Bleach" || animes[2].ID != 3 {
		t.Fatalf("unexpected order: %+v", animes)
	}
}

func TestAnimeService_FindAll_EmptyIsNotNil(t *testing.T) {
	svc := newAnimeService(newStubAnimeRepo())

	animes, err := svc.FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll returned error: %v", err)
	}
	if animes == nil {
		t.Fatal("expected empty slice, got nil")
	}
}

func TestAnimeService_FindByID_NotFound(t *testing.T) {
	svc := newAnimeService(newStubAnimeRepo())

	if _, err := svc.FindByID(context.Background(), 42); !errors.Is(err, domain.ErrAnimeNotFound) {
		t.Fatalf("expected ErrAnimeNotFound, got %v", err)
	}
}

func TestAnimeService_SaveThenFind_RoundTrip(t *testing.T) {
	svc := newAnimeService(newStubAnimeRepo())
	ctx := context.Background()

	saved, err := svc.Save(ctx, domain.Anime{Name: "Cowboy Bebop"})
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if saved.ID == 0 {
		t.Fatal("expected an assigned id")
	}

	found, err := svc.FindByID(ctx, saved.ID)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if found.Name != "Cowboy Bebop" {
		t.Fatalf("expected name Cowboy Bebop, got %q", found.Name)
	}
}

func TestAnimeService_Save_RepoError(t *testing.T) {
	repo := newStubAnimeRepo()
	repo.saveErr = errors.New("boom")
	svc := newAnimeService(repo)

	if _, err := svc.Save(context.Background(), domain.Anime{Name: "x"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestAnimeService_SaveAll_AllValid(t *testing.T) {
	svc := newAnimeService(newStubAnimeRepo())

	saved, err := svc.SaveAll(context.Background(), []domain.Anime{{Name: "Berserk"}, {Name: "Monster"}})
	if err != nil {
		t.Fatalf("SaveAll returned error: %v", err)
	}
	if len(saved) != 2 || saved[0].ID == 0 || saved[1].ID == 0 {
		t.Fatalf("unexpected result: %+v", saved)
	}
}

func TestAnimeService_SaveAll_StopsAtFirstBlankName(t *testing.T) {
	repo := newStubAnimeRepo()
	svc := newAnimeService(repo)

	saved, err := svc.SaveAll(context.Background(), []domain.Anime{
		{Name: "Tensei Shitara Slime Datta Ken"},
		{Name: ""},
		{Name: "Dororo"},
	})
	if !errors.Is(err, domain.ErrInvalidAnimeName) {
		t.Fatalf("expected ErrInvalidAnimeName, got %v", err)
	}
	if len(saved) != 1 || saved[0].Name != "Tensei Shitara Slime Datta Ken" {
		t.Fatalf("expected only the first record, got %+v", saved)
	}
	// The store call happened before validation, so every record was written.
	if len(repo.byID) != 3 {
		t.Fatalf("expected 3 stored records, got %d", len(repo.byID))
	}
}

func TestAnimeService_SaveAll_WhitespaceNameIsInvalid(t *testing.T) {
	svc := newAnimeService(newStubAnimeRepo())

	saved, err := svc.SaveAll(context.Background(), []domain.Anime{{Name: "   "}})
	if !errors.Is(err, domain.ErrInvalidAnimeName) {
		t.Fatalf("expected ErrInvalidAnimeName, got %v", err)
	}
	if len(saved) != 0 {
		t.Fatalf("expected no accepted records, got %+v", saved)
	}
}

func TestAnimeService_Update_Success(t *testing.T) {
	repo := newStubAnimeRepo("Naruto")
	svc := newAnimeService(repo)

	if err := svc.Update(context.Background(), domain.Anime{ID: 1, Name: "Naruto Shippuden"}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if repo.byID[1].Name != "Naruto Shippuden" {
		t.Fatalf("record not replaced: %+v", repo.byID[1])
	}
	if len(repo.byID) != 1 {
		t.Fatalf("update must not create records, have %d", len(repo.byID))
	}
}

func TestAnimeService_Update_NotFound(t *testing.T) {
	repo := newStubAnimeRepo()
	svc := newAnimeService(repo)

	err := svc.Update(context.Background(), domain.Anime{ID: 99, Name: "Ghost"})
	if !errors.Is(err, domain.ErrAnimeNotFound) {
		t.Fatalf("expected ErrAnimeNotFound, got %v", err)
	}
	if len(repo.byID) != 0 {
		t.Fatal("update of a missing id must not write")
	}
}

func TestAnimeService_Delete_MissingIDSucceeds(t *testing.T) {
	repo := newStubAnimeRepo()
	svc := newAnimeService(repo)

	if err := svc.Delete(context.Background(), 12345); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != 12345 {
		t.Fatalf("expected repository delete call, got %v", repo.deleted)
	}
}
