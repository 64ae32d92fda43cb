package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"tkphotos/internal/config"
	"tkphotos/internal/lib/logger/sl"
	"tkphotos/internal/repository"
	"tkphotos/internal/services/auth"
	"tkphotos/internal/storage/postgresql"

	"github.com/joho/godotenv"
)

// createadmin creates a dashboard operator, or promotes an existing user.
func main() {
	var configPath, name, email, password string

	flag.StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "path to config file")
	flag.StringVar(&name, "name", "Admin", "display name")
	flag.StringVar(&email, "email", "", "login email")
	flag.StringVar(&password, "password", os.Getenv("ADMIN_PASSWORD"), "login password, defaults to $ADMIN_PASSWORD")
	flag.Parse()

	_ = godotenv.Load()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if email == "" || len(password) < 8 {
		fmt.Fprintln(os.Stderr, "usage: createadmin -email admin@example.com -password <at least 8 characters>")
		os.Exit(2)
	}

	cfg := config.MustLoadPath(configPath)

	ctx := context.Background()

	db, err := postgresql.Connect(ctx, cfg.DSN)
	if err != nil {
		log.Error("failed to connect", sl.Err(err))
		os.Exit(1)
	}
	defer db.Close()

	if err := postgresql.Migrate(ctx, db); err != nil {
		log.Error("failed to migrate", sl.Err(err))
		os.Exit(1)
	}

	authService := auth.New(log, repository.NewUserRepository(db), nil)

	id, err := authService.CreateAdmin(ctx, name, email, password)
	if err != nil {
		log.Error("failed to create admin", sl.Err(err))
		os.Exit(1)
	}

	log.Info("admin ready", slog.String("user_id", id.String()), slog.String("email", email))
}
