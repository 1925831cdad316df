package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/Bagiswari/finance-tracker/internal/ai"
	"github.com/Bagiswari/finance-tracker/internal/auth"
	"github.com/Bagiswari/finance-tracker/internal/config"
	"github.com/Bagiswari/finance-tracker/internal/events"
	apphttp "github.com/Bagiswari/finance-tracker/internal/http"
	applog "github.com/Bagiswari/finance-tracker/internal/log"
	"github.com/Bagiswari/finance-tracker/internal/services"
	"github.com/Bagiswari/finance-tracker/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open database", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("Database ready", "path", cfg.SQLiteDBPath)

	// The AI client is optional: without a key the categorizer falls
	// back to defaults and the insight endpoints report failure.
	var aiClient ai.Client
	if cfg.GeminiAPIKey != "" {
		gemini, err := ai.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiCallLimit)
		if err != nil {
			logger.Error("Failed to initialize Gemini client", "error", err)
			os.Exit(1)
		}
		defer gemini.Close()
		aiClient = gemini
		logger.Info("Gemini client ready", "model", cfg.GeminiModel)
	} else {
		logger.Warn("GEMINI_API_KEY not set, AI features disabled")
	}

	// Event publishing is also optional; the services skip it when the
	// client is nil.
	var eventsClient *events.Client
	if cfg.AMQPURL != "" {
		eventsClient, err = events.NewClient(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			logger.Error("Failed to connect to AMQP", "error", err)
			os.Exit(1)
		}
		defer eventsClient.Close()
		logger.Info("AMQP publisher ready", "exchange", cfg.AMQPExchange)
	}

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenExpiry)
	resolver := services.NewResolver(aiClient, repo, cfg.AutoCategorize)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Tokens:       tokens,
		Auth:         services.NewAuthService(repo, tokens),
		Transactions: services.NewTransactionService(repo, resolver, eventsClient),
		Categories:   services.NewCategoryService(repo),
		Budgets:      services.NewBudgetService(repo, eventsClient),
		Categorizer:  resolver,
		Insights:     services.NewInsightsService(repo, aiClient),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
