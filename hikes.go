package trailmap

import (
	"context"
	"strings"

	"github.com/trailmap/trailmap/internal/embedded"
	"github.com/trailmap/trailmap/pkg/normalize"
	"github.com/trailmap/trailmap/pkg/records"
)

// Compile-time interface check to ensure proper implementation.
var _ HikeCatalog = (*client)(nil)

// HikeCatalog is the remote-backed hike collection. Positions are the
// indices of Hikes() and are what update and delete address.
type HikeCatalog interface {
	// Hikes returns a copy of the current hikes
	Hikes() []records.Hike

	// Hike returns the hike at index
	Hike(index int) (records.Hike, error)

	// Refresh lists the remote, falling back to cache, bundled defaults and
	// the static file; it never fails
	Refresh(ctx context.Context) Outcome

	// AddHike stores a hike remotely and re-lists
	AddHike(ctx context.Context, hike records.Hike) error

	// UpdateHike replaces the hike at index; false means the position has
	// no server id and nothing was sent
	UpdateHike(ctx context.Context, index int, hike records.Hike) (bool, error)

	// DeleteHike removes the hike at index; false as for UpdateHike
	DeleteHike(ctx context.Context, index int) (bool, error)

	// WipeHikes removes every remote hike
	WipeHikes(ctx context.Context) error

	// SeedHikes wipes the remote and adds hikes in order
	SeedHikes(ctx context.Context, hikes []records.Hike) error

	// SeedDefaults seeds the bundled default hikes
	SeedDefaults(ctx context.Context) (int, error)

	// Regions returns the distinct hike regions, sorted
	Regions() []string

	// SetRegion selects the region filter; "" shows everything
	SetRegion(region string)

	// Region returns the selected region
	Region() string

	// FilteredHikes returns the hikes in the selected region with their
	// positions in Hikes()
	FilteredHikes() []records.Indexed[records.Hike]

	// State returns the lifecycle state
	State() State

	// Source returns where the current hikes came from
	Source() Source

	// BackendURL returns the endpoint in use, "" when the remote is disabled
	BackendURL() string
}

// Hikes returns a copy of the current hikes.
func (c *client) Hikes() []records.Hike { return c.hikes.All() }

// Hike returns the hike at index.
func (c *client) Hike(index int) (records.Hike, error) { return c.hikes.At(index) }

// Refresh runs a list with fallback.
func (c *client) Refresh(ctx context.Context) Outcome {
	return c.ctrl.Refresh(ctx)
}

// AddHike stores a hike remotely.
func (c *client) AddHike(ctx context.Context, hike records.Hike) error {
	return c.ctrl.Add(ctx, hike)
}

// UpdateHike replaces the hike at index.
func (c *client) UpdateHike(ctx context.Context, index int, hike records.Hike) (bool, error) {
	return c.ctrl.Update(ctx, index, hike)
}

// DeleteHike removes the hike at index.
func (c *client) DeleteHike(ctx context.Context, index int) (bool, error) {
	return c.ctrl.Delete(ctx, index)
}

// WipeHikes removes every remote hike.
func (c *client) WipeHikes(ctx context.Context) error {
	return c.ctrl.Wipe(ctx)
}

// SeedHikes wipes the remote and adds hikes in order.
func (c *client) SeedHikes(ctx context.Context, hikes []records.Hike) error {
	return c.ctrl.WipeAndSeed(ctx, hikes)
}

// SeedDefaults seeds the bundled default hikes and returns how many there
// were.
func (c *client) SeedDefaults(ctx context.Context) (int, error) {
	rows, err := embedded.DefaultHikes()
	if err != nil {
		return 0, err
	}
	hikes := normalize.Hikes(rows)
	return len(hikes), c.ctrl.WipeAndSeed(ctx, hikes)
}

// Regions returns the distinct hike regions.
func (c *client) Regions() []string {
	return records.Regions(c.hikes.All())
}

// SetRegion selects the region filter.
func (c *client) SetRegion(region string) {
	c.regionMu.Lock()
	c.region = strings.TrimSpace(region)
	c.regionMu.Unlock()
}

// Region returns the selected region.
func (c *client) Region() string {
	c.regionMu.RLock()
	defer c.regionMu.RUnlock()
	return c.region
}

// FilteredHikes returns the hikes in the selected region.
func (c *client) FilteredHikes() []records.Indexed[records.Hike] {
	return records.InRegion(c.hikes.All(), c.Region())
}

// State returns the lifecycle state.
func (c *client) State() State { return c.ctrl.State() }

// Source returns where the current hikes came from.
func (c *client) Source() Source { return c.ctrl.Source() }

// BackendURL returns the endpoint in use.
func (c *client) BackendURL() string { return c.remote.current().Endpoint() }
