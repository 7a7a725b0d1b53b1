package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	openaiapi "github.com/jmvoss/returns-triage/internal/api/openai"
	"github.com/jmvoss/returns-triage/internal/config"
	"github.com/jmvoss/returns-triage/internal/evaluator"
	"github.com/jmvoss/returns-triage/internal/frontdoor/returns"
	"github.com/jmvoss/returns-triage/internal/pipeline"
	"github.com/jmvoss/returns-triage/internal/server"
	"github.com/jmvoss/returns-triage/internal/storage"
	"github.com/jmvoss/returns-triage/internal/storage/memory"
	"github.com/jmvoss/returns-triage/internal/storage/sqlite"
	"github.com/jmvoss/returns-triage/internal/telemetry"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	shutdownTracer, err := telemetry.InitTracer("returns-triage", logger)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store, err := newStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	// Classifier client shared by the three stages and the combiner. All
	// dependencies are injected here; nothing below holds process-wide state.
	apiOpts := []openaiapi.ClientOption{}
	if cfg.OpenAI.BaseURL != "" {
		apiOpts = append(apiOpts, openaiapi.WithBaseURL(cfg.OpenAI.BaseURL))
	}
	completer := evaluator.NewClient(
		openaiapi.NewClient(cfg.OpenAI.APIKey, apiOpts...),
		evaluator.WithModel(cfg.OpenAI.Model),
		evaluator.WithTimeout(cfg.Evaluator.TimeoutDuration()),
		evaluator.WithLogger(logger),
	)

	runner := pipeline.NewRunner(
		evaluator.NewEligibilityEvaluator(completer, logger),
		evaluator.NewConditionEvaluator(completer, logger),
		evaluator.NewFraudEvaluator(completer, logger),
		pipeline.NewCombiner(completer, logger),
		store,
		logger,
	)

	srv := server.New(cfg.Server.Port, logger)
	returns.NewHandler(store, runner, logger).Register(srv.Router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatalf("Server failed: %v", err)
	case <-sigCh:
		logger.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("server shutdown complete")
}

func newStore(cfg *config.Config) (storage.ReturnStore, error) {
	switch cfg.Storage.Type {
	case "memory":
		return memory.New(), nil
	default:
		return sqlite.New(cfg.Storage.SQLite.Path)
	}
}
