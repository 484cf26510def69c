package websocket

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	// clients only listen, so inbound frames are tiny control messages
	maxInbound = 512
	queueSize  = 64
)

// Client is one websocket connection. topics restricts which event types
// it receives; an empty list means everything.
type Client struct {
	id     string
	hub    *Hub
	conn   *websocket.Conn
	topics []string

	send      chan Message
	closeOnce sync.Once
}

// NewClient creates a client for conn. conn may be nil in tests that never
// start the pumps. A topic ending in "." matches every type with that
// prefix, so "hike." covers hike.added and hike.deleted.
func NewClient(id string, hub *Hub, conn *websocket.Conn, topics ...string) *Client {
	return &Client{
		id:     id,
		hub:    hub,
		conn:   conn,
		topics: topics,
		send:   make(chan Message, queueSize),
	}
}

// ID returns the client id.
func (c *Client) ID() string { return c.id }

func (c *Client) wants(eventType string) bool {
	if len(c.topics) == 0 {
		return true
	}
	for _, t := range c.topics {
		if t == eventType || (strings.HasSuffix(t, ".") && strings.HasPrefix(eventType, t)) {
			return true
		}
	}
	return false
}

func (c *Client) closeSend() {
	c.closeOnce.Do(func() { close(c.send) })
}

// Serve registers c and runs both pumps. It returns immediately.
func (c *Client) Serve() {
	c.hub.Register(c)
	go c.WritePump()
	go c.ReadPump()
}

// ReadPump keeps the read deadline alive and unregisters the client once
// the peer goes away. Anything the peer sends is discarded.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxInbound)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, _, err := c.conn.ReadMessage()
		if err == nil {
			continue
		}
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
			c.hub.logger.Warn().Err(err).Str("client_id", c.id).Msg("WebSocket read error")
		}
		return
	}
}

// WritePump drains the send queue and pings the peer. A closed queue sends
// a close frame.
func (c *Client) WritePump() {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		_ = c.conn.Close()
	}()

	for {
		var (
			kind    int
			payload []byte
		)
		select {
		case m, ok := <-c.send:
			if !ok {
				_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "server closing"))
				return
			}
			data, err := json.Marshal(m)
			if err != nil {
				c.hub.logger.Error().Err(err).Str("type", m.Type).Msg("Failed to encode WebSocket frame")
				continue
			}
			kind, payload = websocket.TextMessage, data
		case <-ping.C:
			kind = websocket.PingMessage
		}

		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(kind, payload); err != nil {
			return
		}
	}
}
