package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/srihari2761/pickleball-platform/internal/booking"
	"github.com/srihari2761/pickleball-platform/internal/config"
	"github.com/srihari2761/pickleball-platform/internal/court"
	"github.com/srihari2761/pickleball-platform/internal/db"
	"github.com/srihari2761/pickleball-platform/internal/events"
	"github.com/srihari2761/pickleball-platform/internal/logger"
	"github.com/srihari2761/pickleball-platform/internal/notify"
	"github.com/srihari2761/pickleball-platform/internal/server"
	"github.com/srihari2761/pickleball-platform/internal/user"
)

// @title Pickleball Platform API
// @version 1.0
// @description Court discovery and reservation API with conflict-free booking.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()
	logger.Info("Starting pickleball platform")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, "migrations"); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	notifyService := notify.New(
		cfg.EmailFrom,
		cfg.EmailFromName,
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPUser,
		cfg.SMTPPass,
		cfg.RedisAddr,
	)
	defer notifyService.Close()

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.EventExchange)
		if err != nil {
			logger.Fatalf("Failed to connect to rabbitmq: %v", err)
		}
		publisher = amqpPublisher
		logger.Info("Event publisher connected", "exchange", cfg.EventExchange)
	} else {
		logger.Info("AMQP_URL not set, booking events disabled")
	}
	defer publisher.Close()

	ledger := booking.NewLedger(
		booking.NewRepository(database),
		court.NewRepository(database),
		user.NewRepository(database),
		notifyService,
		publisher,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := ledger.Rebuild(ctx); err != nil {
		logger.Fatalf("Failed to rebuild conflict indexes: %v", err)
	}

	go notifyService.Start(ctx)

	srv := server.New(database, cfg, ledger)

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(cfg.Port); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}

	logger.Info("Server stopped")
}
