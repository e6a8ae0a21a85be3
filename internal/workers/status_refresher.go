package workers

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Refresher runs a full health check.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefresherFunc adapts a function to Refresher.
type RefresherFunc func(ctx context.Context) error

func (f RefresherFunc) Refresh(ctx context.Context) error { return f(ctx) }

// StatusRefresher keeps the status snapshot warm between page views.
type StatusRefresher struct {
	refresher Refresher
	interval  time.Duration
	logger    *zap.SugaredLogger
}

func NewStatusRefresher(refresher Refresher, interval time.Duration, logger *zap.SugaredLogger) *StatusRefresher {
	return &StatusRefresher{
		refresher: refresher,
		interval:  interval,
		logger:    logger,
	}
}

// Start refreshes every interval until ctx is done. It does nothing when the
// interval is not positive.
func (w *StatusRefresher) Start(ctx context.Context) {
	if w.interval <= 0 {
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Infow("Status refresher started", "interval", w.interval.String())
	for {
		select {
		case <-ctx.Done():
			w.logger.Infow("Status refresher stopped")
			return
		case <-ticker.C:
			w.refreshTask(ctx)
		}
	}
}

func (w *StatusRefresher) refreshTask(ctx context.Context) {
	if err := w.refresher.Refresh(ctx); err != nil {
		w.logger.Warnw("Background status refresh failed", "error", err)
	}
}
