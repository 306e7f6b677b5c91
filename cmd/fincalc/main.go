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

	"fincalc/internal/config"
	"fincalc/internal/engine"
	apphttp "fincalc/internal/http"
	"fincalc/internal/log"
	"fincalc/internal/storage"
)

func main() {
	// Load .env for local development (ignore errors in production/docker).
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", log.FieldError, err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	var recorder storage.Recorder = storage.Noop{}
	if cfg.HistoryDBPath != "" {
		sqliteRecorder, err := storage.NewSQLiteRecorder(cfg.HistoryDBPath)
		if err != nil {
			logger.Error("Failed to open history database", log.FieldError, err, "path", cfg.HistoryDBPath)
			os.Exit(1)
		}
		defer sqliteRecorder.Close()
		recorder = sqliteRecorder
		logger.Info("Calculation history enabled", "path", cfg.HistoryDBPath)
	}

	srv := apphttp.NewServer(":"+cfg.Port, engine.New(), recorder, logger, apphttp.Options{
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		CacheSize:          cfg.CacheSize,
		CacheTTL:           cfg.CacheTTL,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting fincalc gateway", "port", cfg.Port)
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
		logger.Error("Gateway error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Gateway stopped gracefully")
}
