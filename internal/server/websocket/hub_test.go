package websocket

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	logger := zerolog.Nop()
	hub := NewHub(&logger)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	return hub, cancel
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount() == n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d clients, got %d", n, hub.ClientCount())
}

func TestHub_BroadcastReachesEveryClient(t *testing.T) {
	hub, cancel := newTestHub(t)
	defer cancel()

	clients := make([]*Client, 3)
	for i := range clients {
		clients[i] = NewClient(fmt.Sprintf("c%d", i), hub, nil)
		hub.Register(clients[i])
	}
	waitForClients(t, hub, 3)

	hub.Broadcast(Message{Type: "hike.added", Timestamp: time.Now()})

	for _, c := range clients {
		select {
		case msg := <-c.send:
			if msg.Type != "hike.added" {
				t.Errorf("%s: expected hike.added, got %s", c.ID(), msg.Type)
			}
		case <-time.After(time.Second):
			t.Errorf("%s did not receive the broadcast", c.ID())
		}
	}
}

func TestHub_MessageOrdering(t *testing.T) {
	hub, cancel := newTestHub(t)
	defer cancel()

	client := NewClient("ordered", hub, nil)
	hub.Register(client)
	waitForClients(t, hub, 1)

	for i := 0; i < 10; i++ {
		hub.Broadcast(Message{Type: fmt.Sprintf("m%d", i)})
	}
	for i := 0; i < 10; i++ {
		select {
		case msg := <-client.send:
			if want := fmt.Sprintf("m%d", i); msg.Type != want {
				t.Fatalf("expected %s, got %s", want, msg.Type)
			}
		case <-time.After(time.Second):
			t.Fatalf("message %d not delivered", i)
		}
	}
}

func TestHub_Unregister(t *testing.T) {
	hub, cancel := newTestHub(t)
	defer cancel()

	client := NewClient("leaving", hub, nil)
	hub.Register(client)
	waitForClients(t, hub, 1)

	hub.Unregister(client)
	waitForClients(t, hub, 0)

	if _, ok := <-client.send; ok {
		t.Error("expected send queue to be closed")
	}
}

func TestHub_SlowClientDropped(t *testing.T) {
	hub, cancel := newTestHub(t)
	defer cancel()

	client := NewClient("slow", hub, nil)
	hub.Register(client)
	waitForClients(t, hub, 1)

	// Nobody drains client.send, so it overflows.
	for i := 0; i < cap(client.send)+10; i++ {
		hub.Broadcast(Message{Type: "flood"})
		time.Sleep(time.Millisecond)
	}
	waitForClients(t, hub, 0)
}

func TestHub_ShutdownDisconnectsClients(t *testing.T) {
	hub, cancel := newTestHub(t)

	hub.Register(NewClient("a", hub, nil))
	hub.Register(NewClient("b", hub, nil))
	waitForClients(t, hub, 2)

	cancel()
	waitForClients(t, hub, 0)
}

func TestHub_TopicFilter(t *testing.T) {
	hub, cancel := newTestHub(t)
	defer cancel()

	hikes := NewClient("hikes", hub, nil, ParseTopics("hike., ,")...)
	local := NewClient("local", hub, nil, "local.changed")
	hub.Register(hikes)
	hub.Register(local)
	waitForClients(t, hub, 2)

	hub.Broadcast(Message{Type: "hike.added"})
	hub.Broadcast(Message{Type: "local.changed"})
	hub.Broadcast(Message{Type: "hike.deleted"})

	if got := len(hikes.send); got != 2 {
		t.Errorf("hikes: expected 2 queued frames, got %d", got)
	}
	if got := len(local.send); got != 1 {
		t.Errorf("local: expected 1 queued frame, got %d", got)
	}
	if m := <-local.send; m.Type != "local.changed" || m.Seq != 2 {
		t.Errorf("unexpected frame %+v", m)
	}
}

func TestHub_SequenceNumbers(t *testing.T) {
	hub, cancel := newTestHub(t)
	defer cancel()

	client := NewClient("seq", hub, nil)
	hub.Register(client)
	waitForClients(t, hub, 1)

	for i := 0; i < 3; i++ {
		hub.Broadcast(Message{Type: "cache.cleared"})
	}
	for want := uint64(1); want <= 3; want++ {
		if m := <-client.send; m.Seq != want {
			t.Fatalf("expected seq %d, got %d", want, m.Seq)
		}
	}
}

func TestHub_RegisterAfterStop(t *testing.T) {
	hub, cancel := newTestHub(t)
	cancel()
	waitForClients(t, hub, 0)
	time.Sleep(20 * time.Millisecond)

	late := NewClient("late", hub, nil)
	hub.Register(late)
	if _, ok := <-late.send; ok {
		t.Error("expected a stopped hub to close the client queue")
	}
	if n := hub.ClientCount(); n != 0 {
		t.Errorf("expected no clients, got %d", n)
	}
}
