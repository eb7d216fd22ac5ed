// Command bootstrap-user creates or updates an account in the configured user
// store and prints the encoded password.
//
//	STORE_DRIVER=postgres bootstrap-user -username admin -password secret -roles ADMIN,USER
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/animeshelf/animes-api/internal/app"
	"github.com/animeshelf/animes-api/internal/core/domain"
	"github.com/animeshelf/animes-api/internal/pkg/config"
	"github.com/animeshelf/animes-api/pkg/logger"
)

func main() {
	username := flag.String("username", "", "account username")
	password := flag.String("password", "", "account password")
	roles := flag.String("roles", string(domain.RoleUser), "comma separated roles: USER, ADMIN")
	overwrite := flag.Bool("overwrite", false, "replace password and roles of an existing account")
	flag.Parse()

	if err := run(*username, *password, *roles, *overwrite); err != nil {
		fmt.Fprintln(os.Stderr, "bootstrap-user:", err)
		os.Exit(1)
	}
}

func run(username, password, rawRoles string, overwrite bool) error {
	if username == "" || password == "" {
		return fmt.Errorf("-username and -password are required")
	}
	roles, err := domain.ParseRoles(rawRoles)
	if err != nil {
		return err
	}

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Output: os.Stderr})

	stores, err := app.OpenStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer stores.Close(ctx)

	svc, err := app.NewServices(cfg, stores, log)
	if err != nil {
		return err
	}

	user, err := svc.Users.Register(ctx, username, password, roles, overwrite)
	if err != nil {
		return err
	}
	fmt.Printf("%s\t%s\t%s\n", user.Username, domain.JoinRoles(user.Roles), user.PasswordHash)
	return nil
}
