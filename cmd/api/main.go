package main

// @title Zone Recommender API
// @version 1.0.0
// @description Service that ranks physical placement zones for promotional messages. Given an event's audience, time and venue, it scores every zone in the active catalog on audience match, temporal alignment, distance and dwell time, flags risky placements and returns a ranked list.
// @description
// @description Key capabilities:
// @description - Ranked zone recommendations with per-component score breakdowns
// @description - Cheap re-ranking for a different time of day without re-running audience matching
// @description - Zone catalog with layered fallback (store, live generation, bundled dataset)
// @description - Risk warnings for high-traffic zones where the message is unlikely to land

// @contact.name API Support
// @contact.email support@zone-recommender.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/zone-recommender/docs/swagger"
	"github.com/zone-recommender/internal/config"
	httpDelivery "github.com/zone-recommender/internal/delivery/http"
	"github.com/zone-recommender/internal/delivery/http/handler"
	"github.com/zone-recommender/internal/infrastructure/geodata"
	"github.com/zone-recommender/internal/infrastructure/matcher"
	"github.com/zone-recommender/internal/pkg/logger"
	"github.com/zone-recommender/internal/repository/cache"
	"github.com/zone-recommender/internal/repository/postgres"
	"github.com/zone-recommender/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Zone Recommender")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
	)

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
	log.Info("PostgreSQL connected")

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
	log.Info("Redis connected")

	// 5. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Health(ctx); err != nil {
		log.Fatal("PostgreSQL health check failed", zap.Error(err))
	}
	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}
	log.Info("All connections healthy")

	// 6. Initialize repositories and external clients
	zoneRepo := postgres.NewZoneRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient)
	geodataClient := geodata.NewGeodataClient(&cfg.Geodata, log)
	matcherClient := matcher.NewMatcherClient(&cfg.Matcher, log)

	log.Info("Repositories initialized")

	// 7. Initialize use cases
	catalogUC := usecase.NewCatalogUseCase(
		zoneRepo,
		cacheRepo,
		geodataClient,
		cfg,
		log,
	)

	scoringUC := usecase.NewScoringUseCase(
		matcherClient,
		cacheRepo,
		cfg,
		log,
	)

	riskUC := usecase.NewRiskUseCase(cfg)

	recommendationUC := usecase.NewRecommendationUseCase(
		catalogUC,
		scoringUC,
		riskUC,
		log,
	)

	log.Info("Use cases initialized")

	// 8. Initialize HTTP handlers
	recommendationHandler := handler.NewRecommendationHandler(recommendationUC, log)
	zoneHandler := handler.NewZoneHandler(catalogUC, log)
	catalogHandler := handler.NewCatalogHandler(catalogUC, log)

	log.Info("HTTP handlers initialized")

	// 9. Initialize HTTP server
	server := httpDelivery.NewServer(
		cfg,
		log,
		recommendationHandler,
		zoneHandler,
		catalogHandler,
	)

	// 10. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 11. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
