// Package events fans catalog changes out to the server's transports.
//
// Client hooks publish onto a Broker, which hands every event to each
// registered Subscriber: the websocket hub, and the response cache that
// must forget what it served before the change.
package events

import "time"

// EventType names a catalog change.
type EventType string

// Event types published by the server.
const (
	// Hike events, from the client's reload diff.
	HikeAdded   EventType = "hike.added"
	HikeUpdated EventType = "hike.updated"
	HikeRemoved EventType = "hike.removed"

	// HikesReloaded follows every replacement of the hike collection.
	HikesReloaded EventType = "hikes.reloaded"

	// LocalChanged follows a write to accommodations or attractions.
	LocalChanged EventType = "local.changed"

	// ClientConnected is sent when a websocket client joins.
	ClientConnected EventType = "client.connected"
)

// Event is one catalog change.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}
