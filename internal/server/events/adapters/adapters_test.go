package adapters

import (
	"testing"
	"time"

	"github.com/trailmap/trailmap/internal/server/cache"
	"github.com/trailmap/trailmap/internal/server/events"
)

func TestCacheSubscriberFlushesOnChange(t *testing.T) {
	c := cache.New(time.Minute, time.Minute)
	sub := NewCacheSubscriber(c)

	c.Set("hikes:", 1)
	if err := sub.Send(events.Event{Type: events.ClientConnected}); err != nil {
		t.Fatal(err)
	}
	if c.ItemCount() != 1 {
		t.Fatal("client connections must not flush the cache")
	}

	for _, typ := range []events.EventType{events.HikesReloaded, events.LocalChanged, events.HikeAdded} {
		c.Set("hikes:", 1)
		if err := sub.Send(events.Event{Type: typ}); err != nil {
			t.Fatal(err)
		}
		if c.ItemCount() != 0 {
			t.Errorf("%s should flush the cache", typ)
		}
	}
}
