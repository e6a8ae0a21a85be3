// Package statuscache keeps the last health check snapshot in memory.
package statuscache

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"csb/statusboard/internal/metrics"
	"csb/statusboard/internal/models"
)

const (
	DefaultMaxAge = time.Minute

	freshKey = "status_snapshot_fresh"
	lastKey  = "status_snapshot_last"
)

// Snapshot is the outcome of one full health check.
type Snapshot struct {
	Services    models.ServiceStatus
	LastChecked string
	CheckedAt   time.Time
}

// Checked reports whether the snapshot comes from an actual check.
func (s Snapshot) Checked() bool {
	return !s.CheckedAt.IsZero()
}

// Response converts the snapshot to the /api/status body.
func (s Snapshot) Response() models.StatusResponse {
	resp := models.StatusResponse{
		Services:    s.Services,
		LastChecked: s.LastChecked,
	}
	if resp.Services == nil {
		resp.Services = models.ServiceStatus{}
	}
	if s.Checked() {
		resp.Timestamp = models.FormatTimestamp(s.CheckedAt)
	}
	return resp
}

func neverChecked() Snapshot {
	return Snapshot{
		Services:    models.ServiceStatus{},
		LastChecked: models.LastCheckedNever,
	}
}

// Prober runs a full health check.
type Prober interface {
	Run(ctx context.Context) models.ServiceStatus
}

// Cache serves the latest Snapshot. The fresh entry expires after maxAge;
// the last entry is kept until replaced.
type Cache struct {
	store   *cache.Cache
	prober  Prober
	maxAge  time.Duration
	group   singleflight.Group
	metrics *metrics.MetricsRegistry
	logger  *zap.SugaredLogger
}

// New returns an empty Cache. metricsReg may be nil.
func New(prober Prober, maxAge time.Duration, metricsReg *metrics.MetricsRegistry, logger *zap.SugaredLogger) *Cache {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Cache{
		store:   cache.New(maxAge, 2*maxAge),
		prober:  prober,
		maxAge:  maxAge,
		metrics: metricsReg,
		logger:  logger,
	}
}

// Refresh runs a full health check and stores the result. Concurrent calls
// share one check. The check is detached from ctx so a caller that goes away
// cannot store a cancelled result; such a caller gets the last snapshot.
func (c *Cache) Refresh(ctx context.Context) Snapshot {
	probeCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(lastKey, func() (interface{}, error) {
		return c.refresh(probeCtx), nil
	})

	select {
	case res := <-ch:
		return res.Val.(Snapshot)
	case <-ctx.Done():
		c.logger.Debugw("Caller left before health check completed", "error", ctx.Err())
		return c.Peek()
	}
}

func (c *Cache) refresh(ctx context.Context) Snapshot {
	services := c.prober.Run(ctx)
	now := time.Now().UTC()
	snap := Snapshot{
		Services:    services,
		LastChecked: models.FormatLastChecked(now),
		CheckedAt:   now,
	}

	c.store.Set(freshKey, snap, c.maxAge)
	c.store.Set(lastKey, snap, cache.NoExpiration)
	if c.metrics != nil {
		c.metrics.RefreshesTotal.Inc()
	}

	c.logger.Infow("Health check completed",
		"services", len(services),
		"all_ok", services.AllOK(),
		"last_checked", snap.LastChecked,
	)
	return snap
}

// Current returns the cached snapshot while it is younger than maxAge and
// refreshes it otherwise.
func (c *Cache) Current(ctx context.Context) Snapshot {
	if v, ok := c.store.Get(freshKey); ok {
		if c.metrics != nil {
			c.metrics.CacheHitsTotal.Inc()
		}
		return v.(Snapshot)
	}
	if c.metrics != nil {
		c.metrics.CacheMissesTotal.Inc()
	}
	return c.Refresh(ctx)
}

// Peek returns the last snapshot without probing anything.
func (c *Cache) Peek() Snapshot {
	if v, ok := c.store.Get(lastKey); ok {
		return v.(Snapshot)
	}
	return neverChecked()
}

// MaxAge returns how long a snapshot counts as fresh.
func (c *Cache) MaxAge() time.Duration {
	return c.maxAge
}
