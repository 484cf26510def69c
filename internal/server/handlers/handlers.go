// Package handlers implements the trailmap API endpoints.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/trailmap/trailmap"
	"github.com/trailmap/trailmap/cmd/application"
	"github.com/trailmap/trailmap/internal/server/cache"
	"github.com/trailmap/trailmap/internal/server/events"
	"github.com/trailmap/trailmap/internal/server/response"
	ws "github.com/trailmap/trailmap/internal/server/websocket"
	"github.com/trailmap/trailmap/pkg/errors"
	"github.com/trailmap/trailmap/pkg/normalize"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Handlers holds what every endpoint needs.
type Handlers struct {
	app       application.Application
	cache     *cache.Cache
	broker    *events.Broker
	wsHub     *ws.Hub
	upgrader  websocket.Upgrader
	logger    *zerolog.Logger
	startTime time.Time
}

// New creates a new Handlers instance.
func New(
	app application.Application,
	cache *cache.Cache,
	broker *events.Broker,
	wsHub *ws.Hub,
	upgrader websocket.Upgrader,
	logger *zerolog.Logger,
) *Handlers {
	return &Handlers{
		app:       app,
		cache:     cache,
		broker:    broker,
		wsHub:     wsHub,
		upgrader:  upgrader,
		logger:    logger,
		startTime: time.Now(),
	}
}

// client returns the shared client or writes a 503.
func (h *Handlers) client(w http.ResponseWriter, r *http.Request) (trailmap.Client, bool) {
	tm, err := h.app.Trailmap(r.Context())
	if err != nil || tm == nil {
		h.logger.Error().Err(err).Msg("Trailmap client unavailable")
		response.ServiceUnavailable(w, "catalog not available")
		return nil, false
	}
	return tm, true
}

// cached serves key from the response cache, filling it with load on a miss.
func (h *Handlers) cached(w http.ResponseWriter, key string, load func() (any, error)) {
	v, err := h.cache.GetOrLoad(key, load)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, v)
}

// fail writes err and logs it when it is a server-side failure.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	if !errors.IsValidationError(err) && !errors.IsNotFound(err) {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("Request failed")
	}
	response.ErrorFromType(w, err)
}

// pathIndex parses the {index} path value.
func pathIndex(r *http.Request) (int, error) {
	raw := r.PathValue("index")
	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 {
		return 0, &errors.ValidationError{Field: "index", Value: raw, Message: "must be a non-negative integer"}
	}
	return i, nil
}

// decodeRow reads a JSON object body. Keys may use any of the aliases the
// normalizer understands.
func decodeRow(w http.ResponseWriter, r *http.Request) (normalize.Row, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	var row normalize.Row
	if err := dec.Decode(&row); err != nil {
		return nil, errors.WrapParse("json", "request body", err)
	}
	if row == nil {
		return nil, &errors.ValidationError{Field: "body", Message: "must be a JSON object"}
	}
	return row, nil
}

// requireName rejects records without a name.
func requireName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &errors.ValidationError{Field: "name", Message: "cannot be empty"}
	}
	return nil
}
