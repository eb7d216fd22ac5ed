// Command api serves the anime catalog REST API.
//
// @title                      Animes API
// @version                    1.0
// @description                Role-gated CRUD over the anime catalog.
// @BasePath                   /
// @securityDefinitions.basic  BasicAuth
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/animeshelf/animes-api/internal/app"
	"github.com/animeshelf/animes-api/internal/pkg/config"
	"github.com/animeshelf/animes-api/pkg/logger"
)

func main() {
	cfg := config.MustLoad()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "animes-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := app.OpenStores(ctx, cfg, logger.Component("store"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open stores")
	}

	svc, err := app.NewServices(cfg, stores, log)
	if err != nil {
		_ = stores.Close(context.Background())
		log.Fatal().Err(err).Msg("failed to build services")
	}

	if err := app.SeedUsers(ctx, cfg, svc.Users, logger.Component("seed")); err != nil {
		_ = stores.Close(context.Background())
		log.Fatal().Err(err).Msg("failed to seed users")
	}

	e := app.NewServer(cfg, stores, svc, logger.Component("http"))
	if err := app.Run(ctx, cfg, e, stores, svc, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server stopped")
}
