package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/catalogo-io/catalog-admin/internal/auth"
	"github.com/catalogo-io/catalog-admin/internal/users"
	"github.com/catalogo-io/catalog-admin/pkg/config"
	"github.com/catalogo-io/catalog-admin/pkg/db"
	"github.com/catalogo-io/catalog-admin/pkg/logger"
)

// seed-admin provisions the bootstrap admin account from configuration.
// It is safe to run repeatedly: an existing account is left untouched.
func main() {
	logg := logger.New(logger.Options{ServiceName: "seed-admin"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed-admin",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx := context.Background()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	result, err := auth.EnsureAdmin(ctx, users.NewRepository(dbClient.DB()), cfg.Password, cfg.SeedAdmin)
	if err != nil {
		logg.Error(ctx, "failed to seed admin user", err)
		os.Exit(1)
	}

	ctx = logg.WithFields(ctx, map[string]any{
		"email":   result.Email,
		"created": result.Created,
	})
	if result.Created {
		logg.Info(ctx, "admin user created")
		return
	}
	logg.Info(ctx, "admin user already present, nothing to do")
}
