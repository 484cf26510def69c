// Package trailmap keeps a shared catalog of hikes, lodgings and attractions
// usable whether or not the remote record service is reachable.
//
// Hikes live on the remote service and are mirrored locally; every edit is
// sent remotely and followed by a full re-list, and when the service has
// nothing to offer the client falls back to the cached snapshot, the bundled
// defaults and finally a static hikes file. Lodgings and attractions never
// leave the machine and are written straight to the local cache.
//
// Example usage:
//
//	tm, err := trailmap.New(ctx,
//	    trailmap.WithConfiguredBackendURL("https://script.example.com/exec"),
//	    trailmap.WithCacheDriver("sqlite", "~/.trailmap"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tm.Close()
//
//	tm.OnHikeAdded(func(h records.Hike) {
//	    log.Printf("new hike: %s", h.Name)
//	})
//
//	out := tm.Refresh(ctx)
//	fmt.Printf("%d hikes from %s\n", out.Count, out.Source)
//
//	if err := tm.AddHike(ctx, records.Hike{Name: "Lac de Gaube"}); err != nil {
//	    log.Fatal(err)
//	}
package trailmap

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/trailmap/trailmap/internal/blob"
	"github.com/trailmap/trailmap/internal/collection"
	"github.com/trailmap/trailmap/internal/localcache"
	"github.com/trailmap/trailmap/internal/reconcile"
	"github.com/trailmap/trailmap/internal/sources"
	"github.com/trailmap/trailmap/pkg/errors"
	"github.com/trailmap/trailmap/pkg/identity"
	"github.com/trailmap/trailmap/pkg/records"
)

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

// Source tells where the current hikes came from.
type Source = sources.Type

// Hike sources.
const (
	SourceRemote  = sources.Remote
	SourceCache   = sources.Cache
	SourceBundled = sources.Bundled
	SourceStatic  = sources.Static
	SourceImport  = sources.Import
	SourceNone    = sources.None
)

// State is the lifecycle state of the hike collection.
type State = reconcile.State

// Hike collection states.
const (
	StateEmpty    = reconcile.StateEmpty
	StateLoading  = reconcile.StateLoading
	StateReady    = reconcile.StateReady
	StateFallback = reconcile.StateFallback
)

// Outcome reports how a refresh ended.
type Outcome = reconcile.Outcome

// Client manages the catalog with fallback, write-through caching, event
// hooks and automatic refreshes.
type Client interface {

	// HikeCatalog covers the remote-backed hikes
	HikeCatalog

	// LocalCatalog covers lodgings and attractions
	LocalCatalog

	// Documents handles export, import and spreadsheet seeding
	Documents

	// Settings holds the hero image and backend override
	Settings

	// AutoRefresher provides access to automatic refresh controls
	AutoRefresher

	// Hooks provides access to event callback registration
	Hooks

	// Close stops background work and releases the cache
	Close() error
}

// client is the internal implementation of the Client interface.
type client struct {
	options *options
	logger  *zerolog.Logger

	cache     *localcache.Cache
	ownsCache bool
	blobs     *blob.Store

	remote      *remote
	ids         *identity.Mapper
	hikes       *collection.Store[records.Hike]
	lodgings    *collection.Store[records.Lodging]
	attractions *collection.Store[records.Attraction]
	ctrl        *reconcile.Controller

	regionMu sync.RWMutex
	region   string

	// auto refresh state
	autoMu        sync.Mutex
	refreshTicker *time.Ticker
	stopCh        chan struct{}
	refreshCancel context.CancelFunc

	hooks *hooks
}

// New creates a Client. It opens the local cache, loads the local-only
// kinds and, unless disabled, shows the cached hike snapshot. It does not
// contact the remote service; call Refresh for that.
func New(ctx context.Context, opts ...Option) (Client, error) {
	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}

	c := &client{
		options: o,
		logger:  o.logger,
		ids:     identity.New(),
		stopCh:  make(chan struct{}),
		hooks:   newHooks(),
		blobs:   blob.New(blob.WithS3Config(o.s3)),
	}

	c.cache = o.cache
	if c.cache == nil {
		if c.cache, err = localcache.Open(ctx, o.cacheDriver, o.cachePath); err != nil {
			return nil, errors.WrapResource("open", "cache", o.cachePath, err)
		}
		c.ownsCache = true
	}

	c.hikes = collection.New[records.Hike](records.KindHikes, nil)
	c.lodgings = newLocalStore[records.Lodging](c, records.KindAccommodations)
	c.attractions = newLocalStore[records.Attraction](c, records.KindAttractions)
	loadLocal(ctx, c, c.lodgings)
	loadLocal(ctx, c, c.attractions)

	endpoint, err := c.resolveBackend(ctx)
	if err != nil {
		c.closeCache()
		return nil, err
	}
	c.remote = &remote{client: c.newTransport(endpoint)}

	c.ctrl = reconcile.New(c.remote, c.hikes, c.ids,
		reconcile.WithFallback(
			sources.NewCache(c.cache),
			sources.NewBundled(),
			sources.NewStatic(o.staticBase, o.staticLocations...),
		),
		reconcile.WithSnapshot(func(ctx context.Context, hikes []records.Hike) error {
			return localcache.Save(ctx, c.cache, records.KindHikes, hikes)
		}),
		reconcile.WithReloadHook(c.hooks.triggerReload),
		reconcile.WithRetryOnUnresolved(o.retryOnUnresolved),
		reconcile.WithMetrics(o.metrics),
		reconcile.WithLogger(o.logger),
	)

	if o.warmStart {
		cached, err := localcache.Load[records.Hike](ctx, c.cache, records.KindHikes)
		if err != nil {
			c.logger.Warn().Err(err).Msg("ignoring unreadable hike snapshot")
		} else if len(cached) > 0 {
			c.ctrl.Restore(SourceCache, cached)
		}
	}

	c.logger.Debug().
		Str("backend", endpoint).
		Int("hikes", c.hikes.Len()).
		Int("accommodations", c.lodgings.Len()).
		Int("attractions", c.attractions.Len()).
		Msg("trailmap client ready")

	if o.autoRefreshEnabled {
		if err := c.AutoRefreshOn(); err != nil {
			c.closeCache()
			return nil, errors.WrapResource("start", "auto-refresh", "", err)
		}
	}

	return c, nil
}

// Close stops automatic refreshes and closes the cache if the client
// opened it.
func (c *client) Close() error {
	if err := c.AutoRefreshOff(); err != nil {
		return err
	}
	return c.closeCache()
}

func (c *client) closeCache() error {
	if !c.ownsCache || c.cache == nil {
		return nil
	}
	return c.cache.Close()
}
