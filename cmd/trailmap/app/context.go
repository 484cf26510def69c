package app

import (
	"context"
	"os/signal"
	"syscall"
)

// ContextWithSignals derives a context from parent that ends on SIGINT or
// SIGTERM, which lets serve drain its listeners.
func ContextWithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
