package catalog

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/zone-recommender/internal/usecase"
	"github.com/zone-recommender/internal/worker"
)

// RefreshWorker periodically regenerates the zone catalog from geodata
// sources so API instances mostly serve warm data. A failed cycle is logged
// and retried on the next tick; the serving catalog keeps its previous
// zone set throughout.
type RefreshWorker struct {
	*worker.BaseWorker
	catalogUC *usecase.CatalogUseCase
	interval  time.Duration
}

// NewRefreshWorker creates a RefreshWorker.
func NewRefreshWorker(
	catalogUC *usecase.CatalogUseCase,
	interval time.Duration,
	logger *zap.Logger,
) *RefreshWorker {
	return &RefreshWorker{
		BaseWorker: worker.NewBaseWorker("catalog-refresh", logger),
		catalogUC:  catalogUC,
		interval:   interval,
	}
}

// Start runs an immediate refresh and then one per interval.
func (w *RefreshWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting RefreshWorker", zap.Duration("interval", w.interval))

	w.refresh(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *RefreshWorker) refresh(ctx context.Context) {
	logger := w.Logger()

	status, err := w.catalogUC.Refresh(ctx)
	if err != nil {
		logger.Error("Scheduled catalog refresh failed", zap.Error(err))
		return
	}

	logger.Info("Catalog refreshed",
		zap.Int("zones", status.ZoneCount),
		zap.String("source", string(status.Source)),
		zap.Time("refreshed_at", status.LastRefresh),
	)
}
