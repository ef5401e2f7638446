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

	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/amqp"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/config"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/log"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/mirror"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/mirror/gsheet"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/mirror/webhook"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/store/sqlite"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()
	logger := log.Setup(cfg.LogFormat, cfg.LogLevel)

	logger.Info("Starting myfinance-worker")

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// The worker reads mirror state straight from SQLite; the memory
	// backend has no durable pending queue to sweep.
	st, err := sqlite.Open(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open SQLite database", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer st.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sink, err := buildSink(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize mirror sink", "error", err, "sink", cfg.MirrorSink)
		os.Exit(1)
	}
	logger.Info("Mirror sink initialized", "sink", cfg.MirrorSink)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	mirrorWorker := worker.NewMirrorWorker(st, sink, cfg.MirrorBatchSize, logger)

	// On startup, push anything that was left pending while the worker
	// was down.
	if err := mirrorWorker.ProcessPending(ctx); err != nil {
		logger.Error("Startup mirror sweep failed", "error", err)
		// Don't exit - the periodic sweep retries
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumeRecordMirror(ctx, func(msg *amqp.RecordMirrorMessage) error {
			return mirrorWorker.HandleMirrorMessage(ctx, msg)
		})
	})

	// Periodic sweep catches records whose queue message was lost.
	g.Go(func() error {
		ticker := time.NewTicker(cfg.MirrorInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := mirrorWorker.ProcessPending(ctx); err != nil {
					logger.Error("Periodic mirror sweep failed", "error", err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}

func buildSink(ctx context.Context, cfg *config.Config) (mirror.Sink, error) {
	switch cfg.MirrorSink {
	case "sheets":
		return gsheet.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
	default:
		return webhook.New(cfg.WebhookURLs), nil
	}
}
