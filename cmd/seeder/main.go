package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/alexivanou/weather-requests/internal/config"
	"github.com/alexivanou/weather-requests/internal/logging"
	"github.com/alexivanou/weather-requests/internal/model"
	"github.com/alexivanou/weather-requests/internal/repository"
	"github.com/alexivanou/weather-requests/internal/seeder"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var (
		file = flag.String("file", cfg.Seeder.File, "JSON Lines (or zipped) request history to import")
	)
	flag.Parse()

	logger, err := logging.New(config.LogConfig{Level: cfg.Log.Level, Format: "console"})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if *file == "" {
		logger.Fatal("No history file given, use -file or SEED_FILE")
	}

	ctx := context.Background()
	store, err := repository.Open(ctx, cfg.DB, logger)
	if err != nil {
		logger.Fatal("Failed to open request store", zap.Error(err))
	}
	defer store.Close(ctx)

	logger.Info("Starting history import...", zap.String("file", *file))

	parser := seeder.NewParser(cfg.Seeder)
	result, err := parser.ProcessRequests(*file, func(batch []model.StoredRequest) error {
		if err := store.Requests.BulkInsert(ctx, batch); err != nil {
			return fmt.Errorf("failed to insert requests batch: %w", err)
		}
		logger.Debug("Inserted batch", zap.Int("size", len(batch)))
		return nil
	})
	if err != nil {
		logger.Fatal("Failed to import history", zap.Int("imported", result.Imported), zap.Error(err))
	}

	logger.Info("History import completed successfully!",
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
	)
}
