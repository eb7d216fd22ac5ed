package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/animeshelf/animes-api/internal/core/domain"
	"github.com/animeshelf/animes-api/internal/core/ports"
)

type AnimeService struct {
	repo   ports.AnimeRepository
	logger zerolog.Logger
}

func NewAnimeService(repo ports.AnimeRepository, logger zerolog.Logger) *AnimeService {
	return &AnimeService{repo: repo, logger: logger}
}

func (s *AnimeService) FindAll(ctx context.Context) ([]domain.Anime, error) {
	animes, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list animes: %w", err)
	}
	if animes == nil {
		animes = []domain.Anime{}
	}
	return animes, nil
}

// FindByID returns domain.ErrAnimeNotFound when the id is unknown.
func (s *AnimeService) FindByID(ctx context.Context, id int64) (*domain.Anime, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *AnimeService) Save(ctx context.Context, anime domain.Anime) (*domain.Anime, error) {
	saved, err := s.repo.Save(ctx, anime)
	if err != nil {
		return nil, fmt.Errorf("save anime: %w", err)
	}
	s.logger.Info().Int64("id", saved.ID).Msg("anime saved")
	return saved, nil
}

// SaveAll persists the whole batch in one repository call and then walks the
// stored records in order. At the first record with a blank name it stops and
// returns the records walked so far with domain.ErrInvalidAnimeName. The
// writes already made are not undone.
func (s *AnimeService) SaveAll(ctx context.Context, animes []domain.Anime) ([]domain.Anime, error) {
	saved, err := s.repo.SaveAll(ctx, animes)
	if err != nil {
		return nil, fmt.Errorf("save animes: %w", err)
	}

	out := make([]domain.Anime, 0, len(saved))
	for _, a := range saved {
		if !a.HasValidName() {
			s.logger.Warn().Int64("id", a.ID).Int("accepted", len(out)).Msg("batch contains an invalid name")
			return out, domain.ErrInvalidAnimeName
		}
		out = append(out, a)
	}
	return out, nil
}

// Update replaces the stored record with the same id. The record must exist.
func (s *AnimeService) Update(ctx context.Context, anime domain.Anime) error {
	if _, err := s.repo.FindByID(ctx, anime.ID); err != nil {
		return err
	}
	if _, err := s.repo.Save(ctx, anime); err != nil {
		return fmt.Errorf("update anime %d: %w", anime.ID, err)
	}
	return nil
}

// Delete removes the record. Unknown ids succeed.
func (s *AnimeService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete anime %d: %w", id, err)
	}
	return nil
}
