package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/animeshelf/animes-api/internal/core/domain"
)

type AnimeRepository struct {
	pool *pgxpool.Pool
}

func NewAnimeRepository(pool *pgxpool.Pool) *AnimeRepository {
	return &AnimeRepository{pool: pool}
}

// querier is satisfied by *pgxpool.Pool and pgx.Tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (r *AnimeRepository) FindAll(ctx context.Context) ([]domain.Anime, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `SELECT id, name FROM animes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list animes: %w", err)
	}
	animes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Anime, error) {
		var a domain.Anime
		err := row.Scan(&a.ID, &a.Name)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan animes: %w", err)
	}
	return animes, nil
}

func (r *AnimeRepository) FindByID(ctx context.Context, id int64) (*domain.Anime, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a domain.Anime
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM animes WHERE id = $1`, id).Scan(&a.ID, &a.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAnimeNotFound
		}
		return nil, fmt.Errorf("failed to get anime %d: %w", id, err)
	}
	return &a, nil
}

func (r *AnimeRepository) Save(ctx context.Context, anime domain.Anime) (*domain.Anime, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	saved, err := saveAnime(ctx, r.pool, anime)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// SaveAll writes the batch in one transaction.
func (r *AnimeRepository) SaveAll(ctx context.Context, animes []domain.Anime) ([]domain.Anime, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	out := make([]domain.Anime, 0, len(animes))
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for _, a := range animes {
			saved, err := saveAnime(ctx, tx, a)
			if err != nil {
				return err
			}
			out = append(out, saved)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save batch: %w", err)
	}
	return out, nil
}

func (r *AnimeRepository) DeleteByID(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.pool.Exec(ctx, `DELETE FROM animes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete anime %d: %w", id, err)
	}
	return nil
}

func saveAnime(ctx context.Context, q querier, a domain.Anime) (domain.Anime, error) {
	if a.IsNew() {
		err := q.QueryRow(ctx, `INSERT INTO animes (name) VALUES ($1) RETURNING id`, a.Name).Scan(&a.ID)
		if err != nil {
			return domain.Anime{}, fmt.Errorf("failed to insert anime: %w", err)
		}
		return a, nil
	}

	_, err := q.Exec(ctx, `
		INSERT INTO animes (id, name) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
	`, a.ID, a.Name)
	if err != nil {
		return domain.Anime{}, fmt.Errorf("failed to upsert anime %d: %w", a.ID, err)
	}
	return a, nil
}
