package app

import (
	"context"
	"testing"
	"time"
)

func TestContextWithSignalsFollowsParent(t *testing.T) {
	parent, cancelParent := context.WithCancel(context.Background())
	ctx, cancel := ContextWithSignals(parent)
	defer cancel()

	cancelParent()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context still live after parent was canceled")
	}
}
