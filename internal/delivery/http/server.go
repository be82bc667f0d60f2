package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/zone-recommender/internal/config"
	"github.com/zone-recommender/internal/delivery/http/handler"
	"github.com/zone-recommender/internal/delivery/http/middleware"
)

// Server is the Fiber HTTP server for the recommendation API.
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	recommendationHandler *handler.RecommendationHandler
	zoneHandler           *handler.ZoneHandler
	catalogHandler        *handler.CatalogHandler
}

// NewServer wires handlers, middleware and routes into a ready-to-start
// server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	recommendationHandler *handler.RecommendationHandler,
	zoneHandler *handler.ZoneHandler,
	catalogHandler *handler.CatalogHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Zone Recommender",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:                   app,
		config:                cfg,
		logger:                logger,
		recommendationHandler: recommendationHandler,
		zoneHandler:           zoneHandler,
		catalogHandler:        catalogHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS())
	s.app.Use(middleware.AccessTier())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	api := s.app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Recommendation routes
	api.Post("/recommendations/score", s.recommendationHandler.Score)
	api.Post("/recommendations/top", s.recommendationHandler.Top)
	api.Post("/recommendations/rerank", s.recommendationHandler.Rerank)

	// Zone routes. Fixed paths before the :id wildcard.
	api.Get("/zones/count", s.zoneHandler.Count)
	api.Get("/zones/geojson", s.zoneHandler.GeoJSON)
	api.Get("/zones/:id", s.zoneHandler.GetByID)
	api.Get("/zones", s.zoneHandler.List)

	// Catalog routes
	api.Get("/catalog/status", s.catalogHandler.Status)
	api.Post("/catalog/refresh", s.catalogHandler.Refresh)
}

// Start runs the HTTP server, blocking until it stops.
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INTERNAL_SERVER_ERROR",
				"message": err.Error(),
			},
		})
	}
}
