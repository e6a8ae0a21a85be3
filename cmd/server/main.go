package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"csb/statusboard/internal/api"
	"csb/statusboard/internal/checks"
	"csb/statusboard/internal/config"
	"csb/statusboard/internal/logging"
	"csb/statusboard/internal/metrics"
	"csb/statusboard/internal/models"
	"csb/statusboard/internal/routes"
	"csb/statusboard/internal/statuscache"
	"csb/statusboard/internal/web"
	"csb/statusboard/internal/workers"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logging.Init(cfg.App.Env, cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Status board starting up",
		"environment", cfg.App.Env,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	metricsReg := metrics.NewMetricsRegistry(prometheus.DefaultRegisterer)

	runner := checks.NewRunner(logging.GetLogger(), metricsReg,
		checks.NewPostgresChecker(cfg.Postgres, cfg.Check.Timeout),
		checks.NewRedisChecker(cfg.Redis, cfg.Check.Timeout),
	)
	status := statuscache.New(runner, cfg.Cache.MaxAge, metricsReg, logging.GetLogger())

	// Refuse to serve when a backend is down at startup.
	initial := status.Refresh(context.Background())
	for _, svc := range initial.Services {
		if svc.Status != models.StatusOK {
			logging.Fatal("Startup health check failed",
				"service", svc.Name,
				"details", svc.Details,
			)
		}
	}
	logging.Info("Startup health check passed", "services", len(initial.Services))

	renderer, err := web.NewRenderer()
	if err != nil {
		logging.Fatal("Failed to load page templates", "error", err.Error())
	}

	deps := &api.Dependencies{
		Status:         status,
		Renderer:       renderer,
		CooldownPeriod: cfg.Cooldown.Period,
		UpSince:        time.Now(),
	}
	router := routes.RegisterRoutes(deps, metricsReg, cfg.RateLimit)

	// Setup metrics endpoint outside of Chi router
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router) // Mount Chi router at root
	logging.Info("Prometheus metrics endpoint registered at /metrics")

	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	refresher := workers.NewStatusRefresher(workers.RefresherFunc(func(ctx context.Context) error {
		if snap := status.Refresh(ctx); !snap.Services.AllOK() {
			return fmt.Errorf("degraded services at %s", snap.LastChecked)
		}
		return nil
	}), cfg.Cache.RefreshInterval, logging.GetLogger())
	go refresher.Start(ctx)

	go func() {
		logging.Info("Server starting", "address", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Server failed", "error", err.Error())
		}
	}()

	<-ctx.Done()
	logging.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Graceful shutdown failed", "error", err.Error())
	}
}
