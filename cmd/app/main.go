package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexivanou/weather-requests/internal/api"
	"github.com/alexivanou/weather-requests/internal/config"
	"github.com/alexivanou/weather-requests/internal/logging"
	"github.com/alexivanou/weather-requests/internal/model"
	"github.com/alexivanou/weather-requests/internal/repository"
	"github.com/alexivanou/weather-requests/internal/seeder"
	"github.com/alexivanou/weather-requests/internal/service"
	"github.com/alexivanou/weather-requests/internal/stats"
	"github.com/alexivanou/weather-requests/internal/weather"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	store, err := repository.Open(ctx, cfg.DB, logger)
	if err != nil {
		logger.Fatal("Failed to open request store", zap.Error(err))
	}
	defer store.Close(context.Background())

	if cfg.Seeder.File != "" {
		autoSeed(ctx, store, cfg, logger)
	}

	client := weather.NewClient(cfg.Weather, logger)
	svc := service.NewService(client, store.Requests, logger)
	statsCollector := stats.NewCollector(store.Requests, store.SQL, cfg.DB)
	router := api.NewRouter(svc, statsCollector, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	if cfg.Weather.Timeout == 0 {
		// the provider call has no deadline of its own
		srv.WriteTimeout = 0
	}

	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// autoSeed imports the history file into an empty store. Failures are logged
// and the server starts anyway.
func autoSeed(ctx context.Context, store *repository.Store, cfg *config.Config, logger *zap.Logger) {
	isEmpty, err := repository.IsStoreEmpty(ctx, store.Requests)
	if err != nil {
		logger.Warn("Failed to check if store is empty", zap.Error(err))
		return
	}
	if !isEmpty {
		logger.Info("Store already has requests, skipping auto-seed")
		return
	}

	logger.Info("Store is empty, importing request history...", zap.String("file", cfg.Seeder.File))
	parser := seeder.NewParser(cfg.Seeder)
	result, err := parser.ProcessRequests(cfg.Seeder.File, func(batch []model.StoredRequest) error {
		return store.Requests.BulkInsert(ctx, batch)
	})
	if err != nil {
		logger.Error("Failed to auto-seed store", zap.Int("imported", result.Imported), zap.Error(err))
		return
	}

	logger.Info("Request history imported",
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
	)
}
