package api

import (
	"bytes"
	"net/http"

	"csb/statusboard/internal/cooldown"
	"csb/statusboard/internal/logging"
	"csb/statusboard/internal/web"
)

// IndexHandler handles GET /. The page is rendered from the cached snapshot.
// ?refresh=1 runs a new check unless the last one is still inside the
// cool-down window, then redirects back to the page.
func (h *Handlers) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("refresh") != "" {
			last := h.deps.Status.Peek()
			if !last.Checked() || cooldown.Remaining(h.deps.Now(), last.CheckedAt, h.deps.CooldownPeriod) <= 0 {
				h.deps.Status.Refresh(r.Context())
			}
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		snap := h.deps.Status.Current(r.Context())
		page := web.NewPage(snap, h.deps.Now(), h.deps.CooldownPeriod)

		var buf bytes.Buffer
		if err := h.deps.Renderer.RenderIndex(&buf, page); err != nil {
			logging.Error("Failed to render index page", "error", err.Error())
			respondWithError(w, http.StatusInternalServerError, "failed to render page")
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	}
}
