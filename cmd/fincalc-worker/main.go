package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"fincalc/internal/amqp"
	"fincalc/internal/config"
	"fincalc/internal/engine"
	"fincalc/internal/log"
	"fincalc/internal/storage"
)

func main() {
	// Load .env for local development (ignore errors in production/docker).
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	logger.Info("Starting fincalc-worker")

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

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRequestQueue, cfg.AMQPResponseQueue, logger)
	if err != nil {
		logger.Error("Failed to connect to broker", log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	eng := engine.New()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := client.PublishReady(ctx); err != nil {
		logger.Error("Failed to publish readiness signal", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker ready",
		log.FieldExchange, cfg.AMQPExchange,
		log.FieldQueue, cfg.AMQPRequestQueue)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return client.ConsumeWithReconnect(ctx, func(ctx context.Context, req engine.Request) engine.Response {
			start := time.Now()
			resp := eng.Handle(req)

			entry := storage.Entry{
				Operation:  req.Type,
				DurationMs: time.Since(start).Milliseconds(),
			}
			if resp.Error != nil {
				entry.Error = *resp.Error
			}
			if err := recorder.Record(ctx, entry); err != nil {
				logger.ErrorContext(ctx, "Failed to record calculation",
					log.FieldError, err,
					log.FieldOperation, req.Type)
			}
			return resp
		})
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
