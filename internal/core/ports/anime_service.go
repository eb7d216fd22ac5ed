package ports

import (
	"context"

	"github.com/animeshelf/animes-api/internal/core/domain"
)

// AnimeService defines the use-case operations exposed over HTTP.
type AnimeService interface {
	FindAll(ctx context.Context) ([]domain.Anime, error)
	FindByID(ctx context.Context, id int64) (*domain.Anime, error)
	Save(ctx context.Context, anime domain.Anime) (*domain.Anime, error)
	// SaveAll returns the records accepted before the first invalid one
	// together with domain.ErrInvalidAnimeName when the batch contains one.
	SaveAll(ctx context.Context, animes []domain.Anime) ([]domain.Anime, error)
	Update(ctx context.Context, anime domain.Anime) error
	Delete(ctx context.Context, id int64) error
}
