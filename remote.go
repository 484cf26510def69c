package trailmap

import (
	"context"
	"net/url"
	"sync"

	"github.com/trailmap/trailmap/internal/transport"
)

// remote lets the backend endpoint change while the controller keeps the
// same Remote.
type remote struct {
	mu     sync.RWMutex
	client *transport.Client
}

// Call implements reconcile.Remote.
func (r *remote) Call(ctx context.Context, op transport.Op, params url.Values) (*transport.Envelope, error) {
	return r.current().Call(ctx, op, params)
}

func (r *remote) current() *transport.Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.client
}

func (r *remote) swap(tc *transport.Client) {
	r.mu.Lock()
	r.client = tc
	r.mu.Unlock()
}

func (c *client) newTransport(endpoint string) *transport.Client {
	return transport.New(endpoint,
		transport.WithTimeout(c.options.callTimeout),
		transport.WithHTTPClient(c.options.httpClient),
		transport.WithAuth(c.options.auth, c.options.authToken),
		transport.WithMetrics(c.options.metrics),
		transport.WithLogger(c.logger),
	)
}

// resolveBackend picks the endpoint: explicit option, then the stored
// override, then the configured default. An empty result disables the
// remote and every refresh goes to the fallback chain.
func (c *client) resolveBackend(ctx context.Context) (string, error) {
	if c.options.backendURL != "" {
		return c.options.backendURL, nil
	}
	stored, err := c.cache.BackendURL(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("ignoring unreadable backend override")
	}
	if stored != "" {
		return stored, nil
	}
	return c.options.configuredBackendURL, nil
}
