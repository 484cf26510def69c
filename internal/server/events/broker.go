package events

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// queueSize bounds how many events may wait for Run. Publishing into a
// full queue drops the event.
const queueSize = 256

// Stats counts broker traffic since creation.
type Stats struct {
	Published   uint64 `json:"published"`
	Dropped     uint64 `json:"dropped"`
	SendErrors  uint64 `json:"send_errors"`
	Subscribers int    `json:"subscribers"`
}

// Broker hands each published event to every subscriber, one event at a
// time and in publish order. Subscribers may be added before Run starts.
type Broker struct {
	queue  chan Event
	logger *zerolog.Logger

	mu     sync.RWMutex
	subs   []Subscriber
	closed bool

	published  atomic.Uint64
	dropped    atomic.Uint64
	sendErrors atomic.Uint64
}

// NewBroker creates a broker with no subscribers.
func NewBroker(logger *zerolog.Logger) *Broker {
	return &Broker{
		queue:  make(chan Event, queueSize),
		logger: logger,
	}
}

// Run dispatches queued events until ctx is cancelled. On the way out it
// closes every subscriber; events still queued are discarded.
func (b *Broker) Run(ctx context.Context) {
	for {
		select {
		case e := <-b.queue:
			b.dispatch(e)
		case <-ctx.Done():
			b.mu.Lock()
			subs := b.subs
			b.subs, b.closed = nil, true
			b.mu.Unlock()

			for _, s := range subs {
				_ = s.Close()
			}
			b.logger.Debug().Int("closed_subscribers", len(subs)).Msg("Event broker stopped")
			return
		}
	}
}

func (b *Broker) dispatch(e Event) {
	b.mu.RLock()
	subs := slices.Clone(b.subs)
	b.mu.RUnlock()

	for _, s := range subs {
		if err := s.Send(e); err != nil {
			b.sendErrors.Add(1)
			b.logger.Warn().Err(err).Str("event_type", string(e.Type)).Msg("Subscriber rejected event")
		}
	}
}

// Publish queues an event of type t carrying data. It never blocks.
func (b *Broker) Publish(t EventType, data any) {
	select {
	case b.queue <- Event{Type: t, Timestamp: time.Now(), Data: data}:
		b.published.Add(1)
	default:
		b.dropped.Add(1)
		b.logger.Warn().Str("event_type", string(t)).Msg("Event queue full, event dropped")
	}
}

// Subscribe adds s. Subscribing to a stopped broker closes s immediately.
func (b *Broker) Subscribe(s Subscriber) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		_ = s.Close()
		return
	}
	b.subs = append(b.subs, s)
	b.mu.Unlock()
}

// Unsubscribe removes s and closes it. Unknown subscribers are ignored.
// A SubscriberFunc is not comparable and cannot be unsubscribed.
func (b *Broker) Unsubscribe(s Subscriber) {
	b.mu.Lock()
	i := slices.Index(b.subs, s)
	if i >= 0 {
		b.subs = slices.Delete(b.subs, i, i+1)
	}
	b.mu.Unlock()

	if i >= 0 {
		_ = s.Close()
	}
}

// SubscriberCount returns the current number of subscribers.
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Stats returns a snapshot of the broker counters.
func (b *Broker) Stats() Stats {
	return Stats{
		Published:   b.published.Load(),
		Dropped:     b.dropped.Load(),
		SendErrors:  b.sendErrors.Load(),
		Subscribers: b.SubscriberCount(),
	}
}
