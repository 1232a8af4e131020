// Package main implements the entry point for the Lingua API server,
// which records language practice conversations and scores them for
// grammar, vocabulary, fluency, and comprehension.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/lingualabs/lingua-api/internal/config"
	"github.com/lingualabs/lingua-api/internal/platform/logger"
)

func main() {
	var (
		migrateCmd    = flag.String("migrate", "", "run a migration command (up, down, status, version, reset) and exit")
		migrationsDir = flag.String("migrations-dir", "migrations", "directory containing migration files")
	)
	flag.Parse()

	if err := run(*migrateCmd, *migrationsDir); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func run(migrateCmd, migrationsDir string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"llm_enabled", cfg.LLM.Enabled)

	db, err := setupDatabase(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	if migrateCmd != "" {
		defer func() {
			if err := db.Close(); err != nil {
				appLogger.Error("failed to close database", "error", err)
			}
		}()
		return runMigrations(db, migrateCmd, migrationsDir, appLogger)
	}

	ctx := context.Background()

	app, err := newApplication(ctx, cfg, appLogger, db)
	if err != nil {
		// The application owns cleanup once constructed; before that, close
		// the connection ourselves.
		if closeErr := db.Close(); closeErr != nil {
			appLogger.Error("failed to close database", "error", closeErr)
		}
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	if err := app.Run(ctx); err != nil {
		appLogger.Error("server exited with error", "error", err)
		os.Exit(1)
	}

	return nil
}
