// Package websocket pushes catalog events to connected browsers.
package websocket

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Message is the JSON frame sent to clients. Seq increases by one per
// broadcast so a client can notice frames it never received.
type Message struct {
	Seq       uint64    `json:"seq"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// Hub fans catalog events out to every registered client. Delivery is
// synchronous with Broadcast, so each client sees events in publish order.
type Hub struct {
	logger *zerolog.Logger
	seq    atomic.Uint64

	mu      sync.RWMutex
	clients map[*Client]struct{}
	stopped bool
}

// NewHub creates an empty hub.
func NewHub(logger *zerolog.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[*Client]struct{}),
	}
}

// Run blocks until ctx is cancelled and then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()

	h.mu.Lock()
	h.stopped = true
	n := len(h.clients)
	for c := range h.clients {
		h.drop(c)
	}
	h.mu.Unlock()

	h.logger.Debug().Int("disconnected", n).Msg("WebSocket hub stopped")
}

// Register starts delivering broadcasts to c. A stopped hub closes c
// straight away.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		c.closeSend()
		return
	}
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	h.logger.Info().
		Str("client_id", c.id).
		Strs("topics", c.topics).
		Int("total_clients", n).
		Msg("WebSocket client connected")
}

// Unregister stops delivery to c and closes its queue. Unregistering an
// unknown client is a no-op.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		h.drop(c)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		h.logger.Info().
			Str("client_id", c.id).
			Int("total_clients", n).
			Msg("WebSocket client disconnected")
	}
}

// Broadcast stamps m with the next sequence number and queues it for every
// client subscribed to m.Type. A client whose queue is full is dropped
// rather than allowed to stall the others.
func (h *Hub) Broadcast(m Message) {
	m.Seq = h.seq.Add(1)

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		if !c.wants(m.Type) {
			continue
		}
		select {
		case c.send <- m:
		default:
			h.drop(c)
			h.logger.Warn().
				Str("client_id", c.id).
				Uint64("seq", m.Seq).
				Msg("WebSocket client too slow, disconnected")
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// drop must be called with h.mu held.
func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	c.closeSend()
}

// ParseTopics splits a comma separated subscription list such as
// "hike.,local.changed". Empty entries are ignored.
func ParseTopics(raw string) []string {
	var topics []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	return topics
}
