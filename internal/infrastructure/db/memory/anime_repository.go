// Package memory holds map-backed stores used in development and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/animeshelf/animes-api/internal/core/domain"
)

// AnimeRepository keeps records in a map guarded by a RWMutex.
type AnimeRepository struct {
	mu     sync.RWMutex
	byID   map[int64]domain.Anime
	nextID int64
}

func NewAnimeRepository() *AnimeRepository {
	return &AnimeRepository{byID: make(map[int64]domain.Anime)}
}

func (r *AnimeRepository) FindAll(_ context.Context) ([]domain.Anime, error) {
	r.mu.RLock()
	out := make([]domain.Anime, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, a)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *AnimeRepository) FindByID(_ context.Context, id int64) (*domain.Anime, error) {
	r.mu.RLock()
	a, ok := r.byID[id]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrAnimeNotFound
	}
	return &a, nil
}

func (r *AnimeRepository) Save(_ context.Context, anime domain.Anime) (*domain.Anime, error) {
	r.mu.Lock()
	saved := r.saveLocked(anime)
	r.mu.Unlock()
	return &saved, nil
}

func (r *AnimeRepository) SaveAll(_ context.Context, animes []domain.Anime) ([]domain.Anime, error) {
	out := make([]domain.Anime, 0, len(animes))
	r.mu.Lock()
	for _, a := range animes {
		out = append(out, r.saveLocked(a))
	}
	r.mu.Unlock()
	return out, nil
}

func (r *AnimeRepository) DeleteByID(_ context.Context, id int64) error {
	r.mu.Lock()
	delete(r.byID, id)
	r.mu.Unlock()
	return nil
}

// saveLocked assigns the next id to new records. Explicit ids beyond the
// counter move it forward so later inserts never collide.
func (r *AnimeRepository) saveLocked(a domain.Anime) domain.Anime {
	if a.IsNew() {
		r.nextID++
		a.ID = r.nextID
	} else if a.ID > r.nextID {
		r.nextID = a.ID
	}
	r.byID[a.ID] = a
	return a
}
