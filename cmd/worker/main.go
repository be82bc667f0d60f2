package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/zone-recommender/internal/config"
	"github.com/zone-recommender/internal/infrastructure/geodata"
	"github.com/zone-recommender/internal/pkg/logger"
	"github.com/zone-recommender/internal/repository/cache"
	"github.com/zone-recommender/internal/repository/postgres"
	"github.com/zone-recommender/internal/usecase"
	"github.com/zone-recommender/internal/worker"
	catalogWorker "github.com/zone-recommender/internal/worker/catalog"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Check if worker is enabled
	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Catalog Refresh Worker")
	log.Info("Configuration loaded",
		zap.Duration("refresh_interval", cfg.Worker.RefreshInterval),
		zap.Int("max_zones", cfg.Catalog.MaxZones))

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 5. Initialize repositories and use cases
	zoneRepo := postgres.NewZoneRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient)
	geodataClient := geodata.NewGeodataClient(&cfg.Geodata, log)

	catalogUC := usecase.NewCatalogUseCase(
		zoneRepo,
		cacheRepo,
		geodataClient,
		cfg,
		log,
	)

	// 6. Initialize workers
	refreshWorker := catalogWorker.NewRefreshWorker(
		catalogUC,
		cfg.Worker.RefreshInterval,
		log,
	)

	// 7. Create worker manager and register workers
	workerManager := worker.NewWorkerManager(log)
	workerManager.Register(refreshWorker)

	// 8. Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	cancel()

	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
