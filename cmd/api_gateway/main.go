package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/corebank-posting-ledger/internal/api_gateway"
	"github.com/corebank-posting-ledger/internal/api_gateway/service"
	"github.com/corebank-posting-ledger/internal/config"
	"github.com/corebank-posting-ledger/internal/data/mongo"
	"github.com/corebank-posting-ledger/internal/data/postgres"
	"github.com/corebank-posting-ledger/internal/logger"
	"github.com/corebank-posting-ledger/internal/payments"
	"github.com/corebank-posting-ledger/internal/platform/messaging/producers"
	"github.com/corebank-posting-ledger/internal/platform/persistence"
	"github.com/corebank-posting-ledger/internal/posting"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("api_gateway")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize databases with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// Initialize Kafka producer for batch posting instructions
	kafkaProducer, err := producers.NewPostingInstructionProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize posting instruction producer", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	accountRepo := postgres.NewAccountRepository(log, postgresDB)
	journalRepo := postgres.NewJournalRepository(log, postgresDB)
	paymentRepo := mongo.NewPaymentRepository(log, mongoDB.Database())

	// Initialize the posting core
	engine := posting.NewEngine(log, postgresDB, accountRepo, journalRepo)
	policyRouter := posting.NewPolicyRouter(log, engine)
	queryService := posting.NewQueryService(log, accountRepo, journalRepo)

	// Initialize services
	accountService := service.NewAccountAdminService(accountRepo)
	journalService := service.NewJournalService(engine, policyRouter, queryService)
	paymentLifecycle := payments.NewService(log, paymentRepo, policyRouter)
	paymentService := service.NewPaymentService(paymentLifecycle, kafkaProducer)

	// Initialize REST server
	server := api_gateway.NewServer(log, cfg, accountService, journalService, paymentService)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence: stop accepting requests first, then close
	// the stores the in-flight requests were using
	log.Info("Starting graceful shutdown...")

	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	if err = kafkaProducer.Close(); err != nil {
		log.Error("Error closing Kafka producer", "error", err)
	}

	postgresDB.Close()

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
