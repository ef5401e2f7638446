package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/amqp"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/auth"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/backend"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/config"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/core"
	apphttp "github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/http"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/log"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/services"
	"github.com/Nikhil-Parajuli/MyFinance-Tracker/internal/store"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()
	logger := log.Setup(cfg.LogFormat, cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	st, err := backend.Open(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize data backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer st.Close()

	// The mirror queue is optional: without it records are still
	// persisted and the worker's periodic sweep picks them up later.
	var publisher services.MirrorPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, mirroring deferred to periodic sweep", "error", err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
			logger.Info("AMQP mirror queue connected", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	defaults, err := defaultSettings(cfg)
	if err != nil {
		logger.Error("Invalid default rates", "error", err)
		os.Exit(1)
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Ledger:          services.NewLedgerService(st, publisher, logger),
		Savings:         services.NewSavingsService(st, logger),
		Rentals:         services.NewRentalService(st, logger),
		Auth:            auth.NewPasswordAuthenticator(st),
		JWT:             auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration),
		Store:           st,
		DefaultCurrency: core.Currency(cfg.DefaultCurrency),
		DefaultSettings: defaults,
		Logger:          logger,
	})

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting myfinance server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

func defaultSettings(cfg *config.Config) (store.Settings, error) {
	elec, err := decimal.NewFromString(cfg.DefaultElectricityRate)
	if err != nil {
		return store.Settings{}, err
	}
	water, err := decimal.NewFromString(cfg.DefaultWaterRate)
	if err != nil {
		return store.Settings{}, err
	}
	return store.Settings{
		DefaultCurrency: core.Currency(cfg.DefaultCurrency),
		ElectricityRate: elec,
		WaterRate:       water,
	}, nil
}
