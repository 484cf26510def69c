package server

import (
	"net/http"

	"github.com/trailmap/trailmap/internal/server/handlers"
	"github.com/trailmap/trailmap/internal/server/middleware"
	"github.com/trailmap/trailmap/internal/server/response"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	h := handlers.New(
		s.app,
		s.cache,
		s.broker,
		s.wsHub,
		s.upgrader,
		s.logger,
	)

	s.registerRoutes(mux, h)
	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes under the path prefix.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	p := s.config.PathPrefix

	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Public health endpoints
	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.HandleFunc("GET "+p+"/health", h.HandleHealth)
	mux.HandleFunc("GET "+p+"/ready", h.HandleReady)

	// Hikes
	mux.HandleFunc("GET "+p+"/hikes", h.HandleListHikes)
	mux.HandleFunc("POST "+p+"/hikes", h.HandleAddHike)
	mux.HandleFunc("PUT "+p+"/hikes/{index}", h.HandleUpdateHike)
	mux.HandleFunc("DELETE "+p+"/hikes/{index}", h.HandleDeleteHike)
	mux.HandleFunc("GET "+p+"/regions", h.HandleRegions)
	mux.HandleFunc("POST "+p+"/sync", h.HandleSync)

	// Local-only kinds
	mux.HandleFunc("GET "+p+"/accommodations", h.HandleListLodgings)
	mux.HandleFunc("POST "+p+"/accommodations", h.HandleAddLodging)
	mux.HandleFunc("PUT "+p+"/accommodations/{index}", h.HandleUpdateLodging)
	mux.HandleFunc("DELETE "+p+"/accommodations/{index}", h.HandleDeleteLodging)
	mux.HandleFunc("GET "+p+"/attractions", h.HandleListAttractions)
	mux.HandleFunc("POST "+p+"/attractions", h.HandleAddAttraction)
	mux.HandleFunc("PUT "+p+"/attractions/{index}", h.HandleUpdateAttraction)
	mux.HandleFunc("DELETE "+p+"/attractions/{index}", h.HandleDeleteAttraction)

	// Whole catalog
	mux.HandleFunc("GET "+p+"/bounds", h.HandleBounds)
	mux.HandleFunc("GET "+p+"/export", h.HandleExport)

	// Real-time updates
	mux.HandleFunc("GET "+p+"/updates/ws", h.HandleWebSocket)

	if s.config.MetricsEnabled {
		mux.Handle("GET /metrics", s.app.Metrics().Handler())
	}

	// Anything else under the prefix gets an envelope instead of the
	// mux's plain text.
	mux.HandleFunc(p+"/", func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "no such endpoint", r.Method+" "+r.URL.Path)
	})
}

// applyMiddleware wraps handler with the middleware chain. From the
// outside in: recovery, request id, logging, CORS, auth, metrics.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config

	handler = middleware.Metrics(s.app.Metrics())(handler)

	if cfg.AuthEnabled {
		authConfig := middleware.DefaultAuthConfig(cfg.PathPrefix)
		authConfig.Enabled = true
		if cfg.AuthHeader != "" {
			authConfig.HeaderName = cfg.AuthHeader
		}
		if authConfig.APIKey == "" {
			s.logger.Warn().Msgf("Authentication enabled but %s is empty; protected routes will reject every request", middleware.APIKeyEnv)
		}
		handler = middleware.Auth(authConfig, s.logger)(handler)
	}

	if cfg.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		corsConfig.AllowedOrigins = cfg.CORSOrigins
		handler = middleware.CORS(corsConfig)(handler)
	}

	return middleware.Chain(
		middleware.Recovery(s.logger),
		middleware.RequestID,
		middleware.Logger(s.logger),
	)(handler)
}
