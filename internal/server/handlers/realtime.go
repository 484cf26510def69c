package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/trailmap/trailmap/internal/server/events"
	ws "github.com/trailmap/trailmap/internal/server/websocket"
)

// HandleWebSocket handles GET /updates/ws. Clients receive catalog events
// as JSON frames {seq, type, timestamp, data}. The optional types query
// parameter narrows the stream, e.g. ?types=hike.,local.changed.
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(uuid.NewString(), h.wsHub, conn, ws.ParseTopics(r.URL.Query().Get("types"))...)
	client.Serve()

	h.broker.Publish(events.ClientConnected, map[string]any{
		"client_id": client.ID(),
		"at":        time.Now().UTC(),
	})
}
