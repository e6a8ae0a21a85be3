// Package checks probes the dependencies shown on the status board.
package checks

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"csb/statusboard/internal/metrics"
	"csb/statusboard/internal/models"
)

const (
	DefaultTimeout = 5 * time.Second

	DetailsOK = "Connection successful."
)

// Result is the (status, details) pair of one probe.
type Result struct {
	Status  string
	Details string
}

func OK() Result {
	return Result{Status: models.StatusOK, Details: DetailsOK}
}

func Failed(err error) Result {
	return Result{Status: models.StatusError, Details: err.Error()}
}

// Checker probes a single dependency. Check never returns an error: failures
// are reported as an Error result.
type Checker interface {
	Name() string
	Check(ctx context.Context) Result
}

type funcChecker struct {
	name string
	fn   func(ctx context.Context) error
}

// NewFuncChecker adapts fn to a Checker. A nil error is reported as OK.
func NewFuncChecker(name string, fn func(ctx context.Context) error) Checker {
	return &funcChecker{name: name, fn: fn}
}

func (c *funcChecker) Name() string { return c.name }

func (c *funcChecker) Check(ctx context.Context) Result {
	if err := c.fn(ctx); err != nil {
		return Failed(err)
	}
	return OK()
}

// Runner probes a fixed list of checkers.
type Runner struct {
	checkers []Checker
	metrics  *metrics.MetricsRegistry
	logger   *zap.SugaredLogger
}

// NewRunner returns a Runner. metricsReg may be nil.
func NewRunner(logger *zap.SugaredLogger, metricsReg *metrics.MetricsRegistry, checkers ...Checker) *Runner {
	return &Runner{
		checkers: checkers,
		metrics:  metricsReg,
		logger:   logger,
	}
}

// Run probes every checker concurrently and returns the results in checker
// order.
func (r *Runner) Run(ctx context.Context) models.ServiceStatus {
	results := make([]Result, len(r.checkers))

	var g errgroup.Group
	for i, c := range r.checkers {
		i, c := i, c
		g.Go(func() error {
			start := time.Now()
			results[i] = c.Check(ctx)
			r.observe(c.Name(), results[i], time.Since(start))
			return nil
		})
	}
	_ = g.Wait()

	services := make(models.ServiceStatus, 0, len(r.checkers))
	for i, c := range r.checkers {
		services.Set(c.Name(), results[i].Status, results[i].Details)
	}
	return services
}

func (r *Runner) observe(name string, res Result, took time.Duration) {
	if r.metrics != nil {
		r.metrics.ProbeDuration.WithLabelValues(name).Observe(took.Seconds())
		up := 0.0
		if res.Status == models.StatusOK {
			up = 1
		}
		r.metrics.ServiceUp.WithLabelValues(name).Set(up)
	}

	if res.Status != models.StatusOK {
		r.logger.Warnw("Service probe failed",
			"service", name,
			"details", res.Details,
			"duration_ms", took.Milliseconds(),
		)
		return
	}
	r.logger.Debugw("Service probe succeeded",
		"service", name,
		"duration_ms", took.Milliseconds(),
	)
}
