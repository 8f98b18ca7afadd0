package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storesync/internal/api"
	"storesync/internal/catalog"
	"storesync/internal/catalog/sheets"
	"storesync/internal/catalog/square"
	"storesync/internal/config"
	"storesync/internal/database"
	"storesync/internal/events"
	"storesync/internal/logger"
	"storesync/internal/store"
	enginesync "storesync/internal/sync"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Select the catalog source once at startup
	var source catalog.Source
	if cfg.UseSquare {
		client := square.NewClient(cfg.SquareBaseURL, cfg.SquareAccessToken, cfg.SquareLocationID, logger)
		source = square.NewSource(client, logger)
		logger.Info("Catalog source: Square point-of-sale")
	} else {
		source = sheets.NewSource(cfg.SheetExportURL, logger)
		logger.Info("Catalog source: spreadsheet export (legacy)")
	}

	productStore := store.New(db.DB)
	coordinator := enginesync.NewCoordinator(source, productStore, cfg.SyncWorkers, logger)

	publisher := events.NewPublisher(cfg.KafkaBrokers, logger)
	defer publisher.Close()

	// Initialize API server
	server := api.New(cfg, logger, db, coordinator, publisher)

	go func() {
		if err := server.Start(); err != nil {
			logger.Error("Server stopped: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Shutdown failed: %v", err)
	}
}
