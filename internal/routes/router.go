package routes

import (
	"net/http"

	"csb/statusboard/internal/api"
	"csb/statusboard/internal/config"
	"csb/statusboard/internal/logging"
	"csb/statusboard/internal/metrics"
	"csb/statusboard/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

const statusEndpoint = "/api/status"

func RegisterRoutes(deps *api.Dependencies, metricsReg *metrics.MetricsRegistry, cfg config.RateLimitConfig) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(metricsReg))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	handlers := api.NewHandlers(deps)

	r.Get("/healthCheck", handlers.HealthCheckHandler())
	r.Get("/", handlers.IndexHandler())

	// Every status request probes the backends, so it is throttled per client.
	limiter := middleware.NewRateLimiter(cfg.RPS, cfg.Burst, metricsReg)
	r.Group(func(status chi.Router) {
		status.Use(limiter.Handler)
		status.Use(middleware.InFlightMiddleware(metricsReg, statusEndpoint))
		status.Get(statusEndpoint, handlers.StatusHandler())
	})

	logging.Info("Router initialized",
		"rate_limit_rps", cfg.RPS,
		"rate_limit_burst", cfg.Burst,
	)
	return r
}
