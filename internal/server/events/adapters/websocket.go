// Package adapters connects broker events to the server's consumers.
package adapters

import (
	"github.com/trailmap/trailmap/internal/server/cache"
	"github.com/trailmap/trailmap/internal/server/events"
	ws "github.com/trailmap/trailmap/internal/server/websocket"
)

// WebSocketSubscriber forwards events to every websocket client.
type WebSocketSubscriber struct {
	hub *ws.Hub
}

// NewWebSocketSubscriber creates a new WebSocket subscriber.
func NewWebSocketSubscriber(hub *ws.Hub) *WebSocketSubscriber {
	return &WebSocketSubscriber{hub: hub}
}

// Send delivers an event to all WebSocket clients.
func (w *WebSocketSubscriber) Send(event events.Event) error {
	w.hub.Broadcast(ws.Message{
		Type:      string(event.Type),
		Timestamp: event.Timestamp,
		Data:      event.Data,
	})
	return nil
}

// Close is a no-op; the hub stops with its own context.
func (w *WebSocketSubscriber) Close() error {
	return nil
}

// CacheSubscriber drops every cached response when anything changes.
type CacheSubscriber struct {
	cache *cache.Cache
}

// NewCacheSubscriber creates a subscriber that flushes c.
func NewCacheSubscriber(c *cache.Cache) *CacheSubscriber {
	return &CacheSubscriber{cache: c}
}

// Send flushes the cache for every event except client connections.
func (s *CacheSubscriber) Send(event events.Event) error {
	if event.Type != events.ClientConnected {
		s.cache.Clear()
	}
	return nil
}

// Close is a no-op.
func (s *CacheSubscriber) Close() error {
	return nil
}
