package trailmap

import (
	"context"
	"time"

	"github.com/trailmap/trailmap/pkg/constants"
	"github.com/trailmap/trailmap/pkg/errors"
)

// Compile-time interface check to ensure proper implementation.
var _ AutoRefresher = (*client)(nil)

// AutoRefresher provides controls for periodic refreshes.
type AutoRefresher interface {
	// AutoRefreshOn starts refreshing at the configured interval
	AutoRefreshOn() error

	// AutoRefreshOff stops automatic refreshes
	AutoRefreshOff() error
}

// AutoRefreshOn starts periodic refreshes. Calling it again restarts the
// ticker.
func (c *client) AutoRefreshOn() error {
	interval := c.options.autoRefreshInterval
	if interval <= 0 {
		return &errors.ValidationError{
			Field:   "autoRefreshInterval",
			Value:   interval,
			Message: "refresh interval must be positive",
		}
	}

	if err := c.AutoRefreshOff(); err != nil {
		return err
	}

	c.autoMu.Lock()
	defer c.autoMu.Unlock()

	// stopCh was closed by AutoRefreshOff
	c.stopCh = make(chan struct{})
	c.refreshTicker = time.NewTicker(interval)
	ctx, cancel := context.WithCancel(context.Background())
	c.refreshCancel = cancel

	go func(ctx context.Context, ticker *time.Ticker, stopCh <-chan struct{}) {
		for {
			select {
			case <-ticker.C:
				refreshCtx, refreshCancel := context.WithTimeout(ctx, constants.RefreshContextTimeout)
				out := c.ctrl.Refresh(refreshCtx)
				refreshCancel()
				if ctx.Err() != nil {
					return
				}
				c.logger.Debug().
					Str("source", out.Source.String()).
					Int("count", out.Count).
					Msg("auto-refresh finished")
			case <-ctx.Done():
				return
			case <-stopCh:
				return
			}
		}
	}(ctx, c.refreshTicker, c.stopCh)

	return nil
}

// AutoRefreshOff stops periodic refreshes.
func (c *client) AutoRefreshOff() error {
	c.autoMu.Lock()
	defer c.autoMu.Unlock()

	if c.refreshTicker != nil {
		c.refreshTicker.Stop()
		c.refreshTicker = nil
	}
	if c.refreshCancel != nil {
		c.refreshCancel()
		c.refreshCancel = nil
	}
	select {
	case <-c.stopCh:
		// Already closed
	default:
		close(c.stopCh)
	}
	return nil
}
