package handlers

import (
	"net/http"
	"time"

	"github.com/trailmap/trailmap/internal/server/response"
)

// HandleHealth handles GET /health. It never touches the catalog.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "trailmap-api",
		"version": h.app.Version(),
	})
}

// HandleReady handles GET /ready: the client must exist and hold a hike
// collection from some source.
func (h *Handlers) HandleReady(w http.ResponseWriter, r *http.Request) {
	tm, err := h.app.Trailmap(r.Context())
	if err != nil || tm == nil {
		response.ServiceUnavailable(w, "catalog not available")
		return
	}

	response.OK(w, map[string]any{
		"status":            "ready",
		"state":             tm.State().String(),
		"source":            tm.Source().String(),
		"backend":           tm.BackendURL(),
		"hikes":             len(tm.Hikes()),
		"cache":             h.cache.GetStats(),
		"events":            h.broker.Stats(),
		"websocket_clients": h.wsHub.ClientCount(),
		"uptime_seconds":    int(time.Since(h.startTime).Seconds()),
	})
}
