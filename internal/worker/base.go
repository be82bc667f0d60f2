package worker

import (
	"sync"

	"go.uber.org/zap"
)

// BaseWorker carries the lifecycle plumbing shared by all workers.
type BaseWorker struct {
	name     string
	logger   *zap.Logger
	stopChan chan struct{}
	stopped  bool
	mu       sync.Mutex
}

// NewBaseWorker creates a BaseWorker.
func NewBaseWorker(name string, logger *zap.Logger) *BaseWorker {
	return &BaseWorker{
		name:     name,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Name returns the worker's name.
func (w *BaseWorker) Name() string {
	return w.name
}

// Stop signals the worker loop to exit. Safe to call more than once.
func (w *BaseWorker) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}

	w.logger.Info("Stopping worker", zap.String("name", w.name))
	close(w.stopChan)
	w.stopped = true

	return nil
}

// IsStopped reports whether Stop has been called.
func (w *BaseWorker) IsStopped() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stopped
}

// StopChan returns the stop signal channel for select loops.
func (w *BaseWorker) StopChan() <-chan struct{} {
	return w.stopChan
}

// Logger returns the worker's logger.
func (w *BaseWorker) Logger() *zap.Logger {
	return w.logger
}
