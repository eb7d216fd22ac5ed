package ports

import (
	"context"

	"github.com/animeshelf/animes-api/internal/core/domain"
)

// AnimeRepository is the record store behind the anime service.
type AnimeRepository interface {
	// FindAll returns every record ordered by id.
	FindAll(ctx context.Context) ([]domain.Anime, error)
	// FindByID returns domain.ErrAnimeNotFound when no record has the id.
	FindByID(ctx context.Context, id int64) (*domain.Anime, error)
	// Save inserts a record without an id or replaces the record with the
	// given id, returning the stored record including its assigned id.
	Save(ctx context.Context, anime domain.Anime) (*domain.Anime, error)
	// SaveAll saves every record in a single unit of work and returns them in
	// input order.
	SaveAll(ctx context.Context, animes []domain.Anime) ([]domain.Anime, error)
	// DeleteByID removes the record if present. Missing ids are not an error.
	DeleteByID(ctx context.Context, id int64) error
}
