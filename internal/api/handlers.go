package api

import (
	"net/http"
	"time"
)

type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Handlers{
		deps: deps,
	}
}

// StatusHandler handles GET /api/status. Every call runs a fresh health
// check.
func (h *Handlers) StatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := h.deps.Status.Refresh(r.Context())
		respondWithJSON(w, http.StatusOK, snap.Response())
	}
}
