package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/animeshelf/animes-api/internal/api"
	"github.com/animeshelf/animes-api/internal/core/domain"
	"github.com/animeshelf/animes-api/internal/core/service"
	"github.com/animeshelf/animes-api/internal/infrastructure/worker"
	"github.com/animeshelf/animes-api/internal/pkg/config"
	"github.com/animeshelf/animes-api/internal/pkg/password"
)

// Services holds the core use cases built over a Stores set.
type Services struct {
	Animes   *service.AnimeService
	Users    *service.UserService
	Auth     *service.AuthService
	Sessions *service.SessionService
}

// NewServices builds the core services. An empty JWT secret is replaced by a
// random one, which Config.Validate only allows in development.
func NewServices(cfg *config.Config, stores *Stores, log zerolog.Logger) (*Services, error) {
	secret := cfg.Auth.JWTSecret
	if secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("app: generate jwt secret: %w", err)
		}
		secret = hex.EncodeToString(buf)
		log.Warn().Msg("JWT_SECRET not set, using a random secret; bearer tokens will not survive a restart")
	}

	encoder := password.NewEncoder()
	users := service.NewUserService(stores.Users, encoder, log.With().Str("component", "users").Logger())
	return &Services{
		Animes:   service.NewAnimeService(stores.Animes, log.With().Str("component", "animes").Logger()),
		Users:    users,
		Auth:     service.NewAuthService(users, encoder, secret, cfg.Auth.TokenTTL),
		Sessions: service.NewSessionService(stores.Sessions, cfg.Auth.SessionTTL),
	}, nil
}

// SeedUsers registers every SEED_USERS entry that is not already present.
func SeedUsers(ctx context.Context, cfg *config.Config, users *service.UserService, log zerolog.Logger) error {
	seeds, err := cfg.ParseSeedUsers()
	if err != nil {
		return err
	}
	for _, seed := range seeds {
		roles, err := domain.ParseRoles(seed.Roles)
		if err != nil {
			return fmt.Errorf("app: seed user %q: %w", seed.Username, err)
		}
		_, err = users.Register(ctx, seed.Username, seed.Password, roles, false)
		switch {
		case errors.Is(err, domain.ErrUserExists):
			log.Debug().Str("username", seed.Username).Msg("seed user already present")
		case err != nil:
			return fmt.Errorf("app: seed user %q: %w", seed.Username, err)
		default:
			log.Info().Str("username", seed.Username).Str("roles", domain.JoinRoles(roles)).Msg("seed user created")
		}
	}
	return nil
}

// NewServer builds the echo router over the services.
func NewServer(cfg *config.Config, stores *Stores, svc *Services, log zerolog.Logger) *echo.Echo {
	return api.NewRouter(api.Deps{
		Logger:         log,
		AnimeService:   svc.Animes,
		AuthService:    svc.Auth,
		SessionService: svc.Sessions,
		HealthChecks:   stores.Checks,
		SecureCookies:  !cfg.IsDevelopment(),
	})
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully within
// SHUTDOWN_TIMEOUT. The session purger runs alongside when the session store
// needs it.
func Run(ctx context.Context, cfg *config.Config, e *echo.Echo, stores *Stores, svc *Services, log zerolog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	stopPurger := func() {}
	if stores.NeedsPurge {
		stopPurger = worker.NewSessionPurger(svc.Sessions, cfg.Auth.SessionTTL,
			log.With().Str("component", "session-purger").Logger()).Start(gctx)
	}

	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("app: server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("app: shutdown: %w", err)
		}
		return nil
	})

	err := g.Wait()
	stopPurger()

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if cerr := stores.Close(closeCtx); cerr != nil {
		log.Error().Err(cerr).Msg("failed to close stores")
	}
	return err
}
