package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"csb/statusboard/internal/metrics"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRateLimiter_RejectsOverBurst(t *testing.T) {
	reg := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	rl := NewRateLimiter(0.01, 2, reg)
	handler := rl.Handler(http.HandlerFunc(okHandler))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("Expected first two requests to pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("Expected 429 for third request, got %d", codes[2])
	}
	if got := testutil.ToFloat64(reg.HTTPRateLimited); got != 1 {
		t.Errorf("Expected 1 rate limited request, got %v", got)
	}
}

func TestRateLimiter_PerClient(t *testing.T) {
	rl := NewRateLimiter(0.01, 1, nil)
	handler := rl.Handler(http.HandlerFunc(okHandler))

	for _, addr := range []string{"10.0.0.1:1000", "10.0.0.2:1000"} {
		req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("Expected 200 for %s, got %d", addr, rr.Code)
		}
	}
}

func TestRateLimiter_Exempt(t *testing.T) {
	rl := NewRateLimiter(0.01, 1, nil, "127.0.0.1")
	handler := rl.Handler(http.HandlerFunc(okHandler))

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
		req.RemoteAddr = "127.0.0.1:5555"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected exempt client to pass, got %d", rr.Code)
		}
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if seen == "" {
		t.Fatal("Expected generated request ID")
	}
	if rr.Header().Get("X-Request-ID") != seen {
		t.Errorf("Expected response header %q, got %q", seen, rr.Header().Get("X-Request-ID"))
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-fixed")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "req-fixed" {
		t.Errorf("Expected propagated request ID, got %q", seen)
	}
}

func TestMetricsMiddleware_RecordsRoutePattern(t *testing.T) {
	reg := metrics.NewMetricsRegistry(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(MetricsMiddleware(reg))
	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	got := testutil.ToFloat64(reg.HTTPRequestsTotal.WithLabelValues("/api/status", http.MethodGet, "418"))
	if got != 1 {
		t.Errorf("Expected 1 request recorded, got %v", got)
	}
}

func TestInFlightMiddleware(t *testing.T) {
	reg := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	var during float64
	handler := InFlightMiddleware(reg, "/api/status")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		during = testutil.ToFloat64(reg.HTTPRequestsInFlight.WithLabelValues("/api/status"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/status", nil))

	if during != 1 {
		t.Errorf("Expected 1 in flight during request, got %v", during)
	}
	if after := testutil.ToFloat64(reg.HTTPRequestsInFlight.WithLabelValues("/api/status")); after != 0 {
		t.Errorf("Expected 0 in flight after request, got %v", after)
	}
}
