// Package server serves the trailmap catalog over HTTP and pushes catalog
// changes to websocket clients.
package server

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/trailmap/trailmap"
	"github.com/trailmap/trailmap/cmd/application"
	"github.com/trailmap/trailmap/internal/server/cache"
	"github.com/trailmap/trailmap/internal/server/events"
	"github.com/trailmap/trailmap/internal/server/events/adapters"
	ws "github.com/trailmap/trailmap/internal/server/websocket"
	"github.com/trailmap/trailmap/pkg/records"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	app       application.Application
	client    trailmap.Client
	cache     *cache.Cache
	broker    *events.Broker
	wsHub     *ws.Hub
	upgrader  websocket.Upgrader
	logger    *zerolog.Logger
	config    Config
	ctx       context.Context
	cancel    context.CancelFunc
	workers   sync.WaitGroup
	started   atomic.Bool
	startTime time.Time
}

// New creates a server and connects the client's hooks to the event broker.
func New(ctx context.Context, app application.Application, cfg Config) (*Server, error) {
	logger := app.Logger()

	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = DefaultConfig().CacheTTL
	}
	if cfg.PathPrefix == "" {
		cfg.PathPrefix = DefaultConfig().PathPrefix
	}

	tm, err := app.Trailmap(ctx)
	if err != nil {
		return nil, err
	}

	respCache := cache.New(cfg.CacheTTL, cfg.CacheTTL*2)
	broker := events.NewBroker(logger)
	wsHub := ws.NewHub(logger)

	broker.Subscribe(adapters.NewCacheSubscriber(respCache))
	broker.Subscribe(adapters.NewWebSocketSubscriber(wsHub))

	runCtx, cancel := context.WithCancel(context.Background())

	s := &Server{
		app:    app,
		client: tm,
		cache:  respCache,
		broker: broker,
		wsHub:  wsHub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true // browsers on any origin may listen
			},
		},
		logger:    logger,
		config:    cfg,
		ctx:       runCtx,
		cancel:    cancel,
		startTime: time.Now(),
	}

	s.connectHooks()
	return s, nil
}

// connectHooks publishes every client event on the broker.
func (s *Server) connectHooks() {
	tm := s.client

	tm.OnHikeAdded(func(h records.Hike) {
		s.broker.Publish(events.HikeAdded, map[string]any{"hike": h})
	})
	tm.OnHikeUpdated(func(old, updated records.Hike) {
		s.broker.Publish(events.HikeUpdated, map[string]any{"old": old, "new": updated})
	})
	tm.OnHikeRemoved(func(h records.Hike) {
		s.broker.Publish(events.HikeRemoved, map[string]any{"hike": h})
	})
	tm.OnReload(func(source trailmap.Source, count int) {
		s.broker.Publish(events.HikesReloaded, map[string]any{"source": source, "count": count})
		s.logger.Debug().Str("source", source.String()).Int("count", count).Msg("Hikes reloaded")
	})
	tm.OnLocalChanged(func(kind records.Kind, count int) {
		s.broker.Publish(events.LocalChanged, map[string]any{"kind": kind, "count": count})
	})
}

// Start runs the broker and websocket hub, and turns on auto refresh when
// configured. Background work stops on Shutdown.
func (s *Server) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	for _, run := range []func(context.Context){s.wsHub.Run, s.broker.Run} {
		s.workers.Add(1)
		go func() {
			defer s.workers.Done()
			run(s.ctx)
		}()
	}

	if s.config.AutoRefresh {
		if err := s.client.AutoRefreshOn(); err != nil {
			s.logger.Warn().Err(err).Msg("Auto refresh not started")
		}
	}
}

// Handler returns the routes wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Shutdown stops auto refresh and the background services, waiting for
// them until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.config.AutoRefresh {
		if err := s.client.AutoRefreshOff(); err != nil {
			s.logger.Warn().Err(err).Msg("Auto refresh did not stop cleanly")
		}
	}
	s.cancel()
	if !s.started.Load() {
		return nil
	}

	done := make(chan struct{})
	go func() {
		s.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Debug().Msg("Background services stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn().Msg("Background services shutdown timed out")
		return ctx.Err()
	}
}

// Cache returns the response cache.
func (s *Server) Cache() *cache.Cache {
	return s.cache
}

// Broker returns the event broker.
func (s *Server) Broker() *events.Broker {
	return s.broker
}

// WSHub returns the WebSocket hub.
func (s *Server) WSHub() *ws.Hub {
	return s.wsHub
}

// StartTime returns when the server was created.
func (s *Server) StartTime() time.Time {
	return s.startTime
}
