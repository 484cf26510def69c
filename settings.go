package trailmap

import (
	"context"
	"net/url"
	"strings"

	"github.com/trailmap/trailmap/internal/bundle"
	"github.com/trailmap/trailmap/pkg/errors"
)

// Compile-time interface check to ensure proper implementation.
var _ Settings = (*client)(nil)

// Settings are the small values kept next to the records.
type Settings interface {
	// HeroURL returns the hero image URL or data URL, "" when unset
	HeroURL(ctx context.Context) (string, error)

	// SetHeroURL stores a hero image URL; "" removes it
	SetHeroURL(ctx context.Context, url string) error

	// SetHeroImage stores image bytes as a data URL and returns it
	SetHeroImage(ctx context.Context, image []byte) (string, error)

	// SetBackendURL stores an endpoint override and switches to it; ""
	// removes the override
	SetBackendURL(ctx context.Context, url string) error

	// ClearLocal removes every cached value and empties the local kinds
	ClearLocal(ctx context.Context) error
}

// HeroURL returns the stored hero image.
func (c *client) HeroURL(ctx context.Context) (string, error) {
	return c.cache.HeroURL(ctx)
}

// SetHeroURL stores a hero image URL.
func (c *client) SetHeroURL(ctx context.Context, u string) error {
	return c.cache.SetHeroURL(ctx, u)
}

// SetHeroImage stores image as a data URL.
func (c *client) SetHeroImage(ctx context.Context, image []byte) (string, error) {
	dataURL, err := bundle.DataURL(image)
	if err != nil {
		return "", err
	}
	return dataURL, c.cache.SetHeroURL(ctx, dataURL)
}

// SetBackendURL stores the override and points the remote at the new
// endpoint. Removing the override reverts to the explicit or configured
// endpoint.
func (c *client) SetBackendURL(ctx context.Context, u string) error {
	u, err := checkBackendURL(u)
	if err != nil {
		return err
	}
	if err := c.cache.SetBackendURL(ctx, u); err != nil {
		return errors.WrapResource("store", "backend override", "", err)
	}

	endpoint, err := c.resolveBackend(ctx)
	if err != nil {
		return err
	}
	if u != "" {
		endpoint = u
	}
	c.remote.swap(c.newTransport(endpoint))
	c.logger.Info().Str("backend", endpoint).Msg("backend endpoint changed")
	return nil
}

// checkBackendURL trims u and accepts "" or an absolute http(s) URL.
func checkBackendURL(u string) (string, error) {
	u = strings.TrimSpace(u)
	if u == "" {
		return "", nil
	}
	parsed, err := url.Parse(u)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", errors.NewValidationError("backendUrl", u, "expected an http(s) URL")
	}
	return u, nil
}

// ClearLocal removes all cached data. The hike collection in memory is kept
// and the next refresh repopulates the cache from the remote.
func (c *client) ClearLocal(ctx context.Context) error {
	if err := c.cache.Clear(ctx); err != nil {
		return errors.WrapResource("clear", "cache", "", err)
	}
	c.lodgings.Load(nil)
	c.attractions.Load(nil)
	changed(c, c.lodgings, nil)
	changed(c, c.attractions, nil)

	endpoint, err := c.resolveBackend(ctx)
	if err != nil {
		return err
	}
	c.remote.swap(c.newTransport(endpoint))
	c.logger.Info().Msg("local data cleared")
	return nil
}
