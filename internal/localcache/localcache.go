// Package localcache is the durable snapshot of the last known-good state:
// one JSON array per record kind plus the hero image and backend override.
package localcache

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/trailmap/trailmap/internal/kv"
	"github.com/trailmap/trailmap/internal/kv/files"
	"github.com/trailmap/trailmap/internal/kv/sqlite"
	"github.com/trailmap/trailmap/pkg/constants"
	"github.com/trailmap/trailmap/pkg/errors"
	"github.com/trailmap/trailmap/pkg/normalize"
	"github.com/trailmap/trailmap/pkg/records"
)

// Drivers accepted by Open.
const (
	DriverFiles  = "files"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Cache reads and writes snapshots through a kv.Store.
type Cache struct {
	store kv.Store
}

// New wraps store.
func New(store kv.Store) *Cache {
	return &Cache{store: store}
}

// Open builds a cache on the named driver. path is a directory for the files
// driver and for sqlite, where the database is created inside it.
func Open(ctx context.Context, driver, path string) (*Cache, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverFiles:
		s, err := files.New(path)
		if err != nil {
			return nil, err
		}
		return New(s), nil
	case DriverSQLite:
		dbPath := path
		if !strings.HasSuffix(dbPath, ".db") && dbPath != ":memory:" {
			dbPath = filepath.Join(path, constants.SQLiteFileName)
		}
		s, err := sqlite.Open(ctx, dbPath)
		if err != nil {
			return nil, err
		}
		return New(s), nil
	case DriverMemory:
		return New(kv.NewMemory()), nil
	default:
		return nil, errors.NewConfigError("cache", "unknown cache driver "+driver, errors.ErrInvalidInput)
	}
}

// KeyFor returns the storage key of a kind's snapshot.
func KeyFor(kind records.Kind) string {
	switch kind {
	case records.KindHikes:
		return constants.KeyHikes
	case records.KindAccommodations:
		return constants.KeyAccommodations
	case records.KindAttractions:
		return constants.KeyAttractions
	default:
		return "trailmap_" + string(kind)
	}
}

// Keys lists every key the cache owns.
func Keys() []string {
	return []string{
		constants.KeyHikes,
		constants.KeyAccommodations,
		constants.KeyAttractions,
		constants.KeyHeroURL,
		constants.KeyBackendURL,
	}
}

// Load decodes the snapshot of kind. A missing key yields an empty slice.
func Load[T any](ctx context.Context, c *Cache, kind records.Kind) ([]T, error) {
	data, err := c.get(ctx, KeyFor(kind))
	if err != nil || data == nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errors.NewParseError("json", KeyFor(kind), err.Error(), err)
	}
	return out, nil
}

// Save writes items as the snapshot of kind.
func Save[T any](ctx context.Context, c *Cache, kind records.Kind, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return errors.WrapParse("json", KeyFor(kind), err)
	}
	return c.store.Set(ctx, KeyFor(kind), data)
}

// Rows returns the snapshot of kind as raw rows for re-normalization.
func (c *Cache) Rows(ctx context.Context, kind records.Kind) ([]normalize.Row, error) {
	return Load[normalize.Row](ctx, c, kind)
}

// HeroURL returns the stored hero image URL or data URL.
func (c *Cache) HeroURL(ctx context.Context) (string, error) {
	return c.str(ctx, constants.KeyHeroURL)
}

// SetHeroURL stores the hero image URL. An empty value removes it.
func (c *Cache) SetHeroURL(ctx context.Context, v string) error {
	return c.setStr(ctx, constants.KeyHeroURL, v)
}

// BackendURL returns the stored endpoint override.
func (c *Cache) BackendURL(ctx context.Context) (string, error) {
	return c.str(ctx, constants.KeyBackendURL)
}

// SetBackendURL stores the endpoint override. An empty value removes it.
func (c *Cache) SetBackendURL(ctx context.Context, v string) error {
	return c.setStr(ctx, constants.KeyBackendURL, v)
}

// Clear removes every key the cache owns.
func (c *Cache) Clear(ctx context.Context) error {
	for _, k := range Keys() {
		if err := c.store.Delete(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying store.
func (c *Cache) Close() error {
	return c.store.Close()
}

func (c *Cache) get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.store.Get(ctx, key)
	if errors.IsNotFound(err) {
		return nil, nil
	}
	return data, err
}

func (c *Cache) str(ctx context.Context, key string) (string, error) {
	data, err := c.get(ctx, key)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (c *Cache) setStr(ctx context.Context, key, v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return c.store.Delete(ctx, key)
	}
	return c.store.Set(ctx, key, []byte(v))
}
