package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver "pgx" for the postgres store
	"github.com/joho/godotenv"

	"github.com/JonMunkholm/platesync/internal/cli"
	"github.com/JonMunkholm/platesync/internal/config"
	"github.com/JonMunkholm/platesync/internal/logging"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	envErr := godotenv.Overload()

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	if envErr != nil {
		slog.Debug("no .env file found, using environment variables")
	} else {
		slog.Debug("loaded .env file (overwriting existing env vars)")
	}
	slog.Debug("configuration loaded", "config", cfg.String())

	os.Exit(cli.Execute(context.Background(), cfg))
}
