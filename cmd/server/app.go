package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/lingualabs/lingua-api/internal/analysis"
	"github.com/lingualabs/lingua-api/internal/config"
	"github.com/lingualabs/lingua-api/internal/platform/gemini"
	"github.com/lingualabs/lingua-api/internal/platform/postgres"
	"github.com/lingualabs/lingua-api/internal/service"
	"github.com/lingualabs/lingua-api/internal/service/auth"
	"github.com/lingualabs/lingua-api/internal/store"
	"github.com/lingualabs/lingua-api/internal/task"
)

// application holds the shared application dependencies so that startup
// wiring and shutdown cleanup live in one place.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore         store.UserStore
	conversationStore store.ConversationStore
	evaluationStore   store.EvaluationStore
	taskStore         *postgres.PostgresTaskStore

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier

	conversationService service.ConversationService
	progressService     service.ProgressService

	taskRunner *task.Runner
}

// newApplication wires up all application dependencies.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, logger)
	app.conversationStore = postgres.NewPostgresConversationStore(db, logger)
	app.evaluationStore = postgres.NewPostgresEvaluationStore(db, logger)

	// The task factory needs the conversation service, which in turn needs
	// the runner. Build the store and runner first, wire the factory after
	// the service exists, then start the runner.
	app.taskStore = postgres.NewPostgresTaskStore(db, nil)
	app.taskRunner = task.NewRunner(app.taskStore, task.RunnerConfig{
		WorkerCount:  cfg.Task.WorkerCount,
		QueueSize:    cfg.Task.QueueSize,
		StuckTaskAge: time.Duration(cfg.Task.StuckTaskAgeMinutes) * time.Minute,
	}, logger)

	var llmAnalyzer analysis.Analyzer
	if cfg.LLM.Enabled {
		llmAnalyzer, err = gemini.NewGeminiAnalyzer(
			ctx,
			logger.With("component", "llm_analyzer"),
			cfg.LLM,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize LLM analyzer: %w", err)
		}
		logger.Info("LLM analyzer initialized", "model", cfg.LLM.ModelName)
	} else {
		logger.Info("LLM analysis disabled, using heuristic scoring only")
	}

	heuristic := analysis.NewHeuristicAnalyzer(logger)

	app.conversationService, err = service.NewConversationService(
		db,
		app.conversationStore,
		app.evaluationStore,
		llmAnalyzer,
		heuristic,
		app.taskRunner,
		service.UploadConfig{
			Dir:      cfg.Upload.Dir,
			MaxBytes: cfg.Upload.MaxBytes,
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation service: %w", err)
	}

	app.progressService, err = service.NewProgressService(app.evaluationStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create progress service: %w", err)
	}

	// Recovered retry tasks need the conversation service to execute.
	reanalyzer, ok := app.conversationService.(task.Reanalyzer)
	if !ok {
		return nil, fmt.Errorf("conversation service does not support reanalysis")
	}
	app.taskStore.SetFactory(task.NewAnalysisRetryTaskFactory(reanalyzer, logger))

	if err := app.taskRunner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	logger.Info("application initialized")
	return app, nil
}

// Run starts the HTTP server and blocks until shutdown.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
