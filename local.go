package trailmap

import (
	"context"

	"github.com/trailmap/trailmap/internal/collection"
	"github.com/trailmap/trailmap/internal/localcache"
	"github.com/trailmap/trailmap/pkg/errors"
	"github.com/trailmap/trailmap/pkg/records"
)

// Compile-time interface check to ensure proper implementation.
var _ LocalCatalog = (*client)(nil)

// LocalCatalog holds the kinds that never leave the machine. Every change
// is written straight to the local cache.
type LocalCatalog interface {
	Lodgings() []records.Lodging
	AddLodging(l records.Lodging) (int, error)
	UpdateLodging(index int, l records.Lodging) error
	DeleteLodging(index int) error

	Attractions() []records.Attraction
	AddAttraction(a records.Attraction) (int, error)
	UpdateAttraction(index int, a records.Attraction) error
	DeleteAttraction(index int) error
}

func newLocalStore[T any](c *client, kind records.Kind) *collection.Store[T] {
	return collection.New[T](kind, func(items []T) error {
		return localcache.Save(context.Background(), c.cache, kind, items)
	})
}

func loadLocal[T any](ctx context.Context, c *client, store *collection.Store[T]) {
	items, err := localcache.Load[T](ctx, c.cache, store.Kind())
	if err != nil {
		c.logger.Warn().Err(err).Str("kind", store.Kind().String()).Msg("ignoring unreadable local snapshot")
		return
	}
	store.Load(items)
}

// changed fires the local hooks once the store lock is released. A failed
// write-through still changed memory, so hooks fire for it too.
func changed[T any](c *client, store *collection.Store[T], err error) {
	if errors.IsNotFound(err) {
		return
	}
	c.hooks.triggerLocalChanged(store.Kind(), store.Len())
}

// Lodgings returns a copy of the lodgings.
func (c *client) Lodgings() []records.Lodging { return c.lodgings.All() }

// AddLodging appends a lodging and returns its position.
func (c *client) AddLodging(l records.Lodging) (int, error) {
	idx, err := c.lodgings.Append(l)
	changed(c, c.lodgings, err)
	return idx, err
}

// UpdateLodging replaces the lodging at index.
func (c *client) UpdateLodging(index int, l records.Lodging) error {
	err := c.lodgings.Set(index, l)
	changed(c, c.lodgings, err)
	return err
}

// DeleteLodging removes the lodging at index.
func (c *client) DeleteLodging(index int) error {
	_, err := c.lodgings.Remove(index)
	changed(c, c.lodgings, err)
	return err
}

// Attractions returns a copy of the attractions.
func (c *client) Attractions() []records.Attraction { return c.attractions.All() }

// AddAttraction appends an attraction and returns its position.
func (c *client) AddAttraction(a records.Attraction) (int, error) {
	idx, err := c.attractions.Append(a)
	changed(c, c.attractions, err)
	return idx, err
}

// UpdateAttraction replaces the attraction at index.
func (c *client) UpdateAttraction(index int, a records.Attraction) error {
	err := c.attractions.Set(index, a)
	changed(c, c.attractions, err)
	return err
}

// DeleteAttraction removes the attraction at index.
func (c *client) DeleteAttraction(index int) error {
	_, err := c.attractions.Remove(index)
	changed(c, c.attractions, err)
	return err
}
