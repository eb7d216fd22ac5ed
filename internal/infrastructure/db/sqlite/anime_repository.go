package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/animeshelf/animes-api/internal/core/domain"
)

type AnimeRepository struct {
	db *sql.DB
}

func NewAnimeRepository(db *sql.DB) *AnimeRepository {
	return &AnimeRepository{db: db}
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *AnimeRepository) FindAll(ctx context.Context) ([]domain.Anime, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM animes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query animes: %w", err)
	}
	defer rows.Close()

	out := []domain.Anime{}
	for rows.Next() {
		var a domain.Anime
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, fmt.Errorf("scan anime: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AnimeRepository) FindByID(ctx context.Context, id int64) (*domain.Anime, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a domain.Anime
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM animes WHERE id = ?`, id).Scan(&a.ID, &a.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAnimeNotFound
		}
		return nil, fmt.Errorf("find anime %d: %w", id, err)
	}
	return &a, nil
}

func (r *AnimeRepository) Save(ctx context.Context, anime domain.Anime) (*domain.Anime, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	saved, err := saveAnime(ctx, r.db, anime)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// SaveAll writes the batch in one transaction.
func (r *AnimeRepository) SaveAll(ctx context.Context, animes []domain.Anime) ([]domain.Anime, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin batch: %w", err)
	}
	out := make([]domain.Anime, 0, len(animes))
	for _, a := range animes {
		saved, err := saveAnime(ctx, tx, a)
		if err != nil {
			_ = tx.Rollback()
			return nil, err
		}
		out = append(out, saved)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit batch: %w", err)
	}
	return out, nil
}

func (r *AnimeRepository) DeleteByID(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, `DELETE FROM animes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete anime %d: %w", id, err)
	}
	return nil
}

func saveAnime(ctx context.Context, ex execer, a domain.Anime) (domain.Anime, error) {
	if a.IsNew() {
		res, err := ex.ExecContext(ctx, `INSERT INTO animes (name) VALUES (?)`, a.Name)
		if err != nil {
			return domain.Anime{}, fmt.Errorf("insert anime: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return domain.Anime{}, fmt.Errorf("insert anime: %w", err)
		}
		a.ID = id
		return a, nil
	}

	_, err := ex.ExecContext(ctx,
		`INSERT INTO animes (id, name) VALUES (?, ?)
         ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
		a.ID, a.Name)
	if err != nil {
		return domain.Anime{}, fmt.Errorf("upsert anime %d: %w", a.ID, err)
	}
	return a, nil
}
