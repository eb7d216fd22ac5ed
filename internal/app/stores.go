// Package app assembles the stores, services and HTTP server from config.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	gomongo "go.mongodb.org/mongo-driver/mongo"

	"github.com/animeshelf/animes-api/internal/api/handler"
	"github.com/animeshelf/animes-api/internal/core/ports"
	"github.com/animeshelf/animes-api/internal/infrastructure/db/memory"
	"github.com/animeshelf/animes-api/internal/infrastructure/db/mongo"
	"github.com/animeshelf/animes-api/internal/infrastructure/db/postgres"
	"github.com/animeshelf/animes-api/internal/infrastructure/db/redis"
	"github.com/animeshelf/animes-api/internal/infrastructure/db/sqlite"
	"github.com/animeshelf/animes-api/internal/pkg/config"
)

// Stores is the persistence side of the process: record, user and session
// stores plus the readiness checks and closers of whatever backs them.
type Stores struct {
	Animes   ports.AnimeRepository
	Users    ports.UserRepository
	Sessions ports.SessionStore
	// NeedsPurge is true when Sessions has no native expiry.
	NeedsPurge bool
	Checks     map[string]handler.Checker

	closers []func(context.Context) error
}

// Close releases every opened connection in reverse order.
func (s *Stores) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OpenStores connects the record/user store selected by STORE_DRIVER and the
// session store selected by SESSION_STORE. On error everything opened so far
// is closed.
func OpenStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (_ *Stores, err error) {
	s := &Stores{Checks: map[string]handler.Checker{}}
	defer func() {
		if err != nil {
			_ = s.Close(context.Background())
		}
	}()

	switch cfg.Store.Driver {
	case config.DriverMemory:
		s.Animes = memory.NewAnimeRepository()
		s.Users = memory.NewUserRepository()
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		s.addSQL(db)
		s.Animes = sqlite.NewAnimeRepository(db)
		s.Users = sqlite.NewUserRepository(db)
	case config.DriverPostgres:
		pool, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Postgres.URL})
		if err != nil {
			return nil, err
		}
		s.addPostgres(pool)
		s.Animes = postgres.NewAnimeRepository(pool)
		s.Users = postgres.NewUserRepository(pool)
	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		s.addMongo(client)
		s.Animes = mongo.NewAnimeRepository(db)
		s.Users = mongo.NewUserRepository(db)
	default:
		return nil, fmt.Errorf("app: unknown store driver %q", cfg.Store.Driver)
	}
	log.Info().Str("driver", cfg.Store.Driver).Msg("record store ready")

	switch cfg.Auth.SessionStore {
	case "redis":
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		s.addRedis(client)
		s.Sessions = redis.NewSessionStore(client)
	default:
		s.Sessions = memory.NewSessionStore()
		s.NeedsPurge = true
	}
	log.Info().Str("store", cfg.Auth.SessionStore).Msg("session store ready")

	return s, nil
}

func (s *Stores) addSQL(db *sql.DB) {
	s.Checks["sqlite"] = db.PingContext
	s.closers = append(s.closers, func(context.Context) error { return db.Close() })
}

func (s *Stores) addPostgres(pool *pgxpool.Pool) {
	s.Checks["postgres"] = pool.Ping
	s.closers = append(s.closers, func(context.Context) error {
		pool.Close()
		return nil
	})
}

func (s *Stores) addMongo(client *gomongo.Client) {
	s.Checks["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
	s.closers = append(s.closers, client.Disconnect)
}

func (s *Stores) addRedis(client *goredis.Client) {
	s.Checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	s.closers = append(s.closers, func(context.Context) error { return client.Close() })
}
