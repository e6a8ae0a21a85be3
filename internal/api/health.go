package api

import (
	"net/http"
	"time"

	"csb/statusboard/internal/models"
)

// HealthCheckHandler handles GET /healthCheck. It reports the last known
// snapshot without probing anything.
func (h *Handlers) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := h.deps.Status.Peek()

		overallStatus := "ok"
		if !snap.Services.AllOK() {
			overallStatus = "degraded"
		}

		now := h.deps.Now()
		uptime := now.Sub(h.deps.UpSince).Round(time.Second).String()

		resp := models.HealthCheckResponse{
			Services: snap.Response().Services,
			Status:   overallStatus,
			UpSince:  h.deps.UpSince.UTC(),
			Uptime:   uptime,
		}
		respondWithJSON(w, http.StatusOK, resp)
	}
}
