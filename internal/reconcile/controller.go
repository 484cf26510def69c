// Package reconcile decides which source is current for the remote-backed
// hike collection. It owns the remote operations, the identity map rebuild
// after every list, and the fallback chain used when the remote has nothing
// to offer.
package reconcile

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"

	"github.com/rs/zerolog"

	"github.com/trailmap/trailmap/internal/collection"
	"github.com/trailmap/trailmap/internal/metrics"
	"github.com/trailmap/trailmap/internal/sources"
	"github.com/trailmap/trailmap/internal/transport"
	"github.com/trailmap/trailmap/pkg/errors"
	"github.com/trailmap/trailmap/pkg/identity"
	"github.com/trailmap/trailmap/pkg/logging"
	"github.com/trailmap/trailmap/pkg/normalize"
	"github.com/trailmap/trailmap/pkg/records"
)

const resource = "hike"

// Remote performs one remote operation.
type Remote interface {
	Call(ctx context.Context, op transport.Op, params url.Values) (*transport.Envelope, error)
}

// SnapshotFunc writes the hikes produced by a successful list to durable
// storage.
type SnapshotFunc func(ctx context.Context, hikes []records.Hike) error

// ReloadFunc observes every replacement of the hike collection.
type ReloadFunc func(source sources.Type, previous, current []records.Hike)

// Outcome reports how a refresh ended.
type Outcome struct {
	Source sources.Type
	Count  int
	// Err is the remote failure that sent the refresh down the fallback chain.
	Err error
}

// Controller reconciles the hike collection with the remote service.
// Operations are serialized: no two remote calls run at once.
type Controller struct {
	remote   Remote
	hikes    *collection.Store[records.Hike]
	ids      *identity.Mapper
	fallback []sources.Source
	snapshot SnapshotFunc
	onReload ReloadFunc
	retry    bool
	metrics  *metrics.Metrics
	logger   *zerolog.Logger

	opMu sync.Mutex

	stMu   sync.RWMutex
	state  State
	source sources.Type
}

// Option configures a Controller.
type Option func(*Controller)

// WithFallback sets the sources tried, in order, when a refresh cannot list.
func WithFallback(srcs ...sources.Source) Option {
	return func(c *Controller) { c.fallback = srcs }
}

// WithSnapshot sets the write-through for successful lists.
func WithSnapshot(fn SnapshotFunc) Option {
	return func(c *Controller) { c.snapshot = fn }
}

// WithReloadHook registers fn to observe collection replacements.
func WithReloadHook(fn ReloadFunc) Option {
	return func(c *Controller) { c.onReload = fn }
}

// WithRetryOnUnresolved makes update and delete re-list once and retry when
// the index has no server id, instead of doing nothing.
func WithRetryOnUnresolved(enabled bool) Option {
	return func(c *Controller) { c.retry = enabled }
}

// WithMetrics records refresh and mutation outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *zerolog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a controller over hikes and ids.
func New(remote Remote, hikes *collection.Store[records.Hike], ids *identity.Mapper, opts ...Option) *Controller {
	c := &Controller{
		remote: remote,
		hikes:  hikes,
		ids:    ids,
		logger: logging.Default(),
		state:  StateEmpty,
		source: sources.None,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.stMu.RLock()
	defer c.stMu.RUnlock()
	return c.state
}

// Source returns where the current hikes came from.
func (c *Controller) Source() sources.Type {
	c.stMu.RLock()
	defer c.stMu.RUnlock()
	return c.source
}

// Refresh lists the remote and, when that fails or comes back empty, walks
// the fallback chain. It never returns an error: the remote failure, if
// any, is reported in the outcome and logged.
func (c *Controller) Refresh(ctx context.Context) Outcome {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.setState(StateLoading)
	err := c.list(ctx, false)
	if err == nil {
		c.settle()
		n := c.hikes.Len()
		c.metrics.ObserveRefresh(string(sources.Remote))
		return Outcome{Source: sources.Remote, Count: n}
	}

	log := c.logger.Warn()
	if errors.IsNoData(err) {
		log = c.logger.Info()
	}
	log.Err(err).Msg("remote list unavailable, trying fallback sources")

	c.setState(StateFallback)
	for _, src := range c.fallback {
		if ctx.Err() != nil {
			break
		}
		rows, ferr := src.Rows(ctx)
		if ferr != nil {
			c.logger.Warn().Err(ferr).Str("source", src.Type().String()).Msg("fallback source failed")
			continue
		}
		if len(rows) == 0 {
			continue
		}
		hikes := normalize.Hikes(rows)
		c.replace(src.Type(), hikes, false)
		c.settle()
		c.metrics.ObserveRefresh(string(src.Type()))
		c.logger.Info().Str("source", src.Type().String()).Int("count", len(hikes)).Msg("loaded hikes from fallback")
		return Outcome{Source: src.Type(), Count: len(hikes), Err: err}
	}

	c.settle()
	c.metrics.ObserveRefresh(string(sources.None))
	return Outcome{Source: sources.None, Count: c.hikes.Len(), Err: err}
}

// List performs a single remote list. An empty answer yields
// errors.ErrNoData and leaves the collection untouched.
func (c *Controller) List(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.setState(StateLoading)
	defer c.settle()
	return c.list(ctx, false)
}

// Add stores hike remotely, then re-lists.
func (c *Controller) Add(ctx context.Context, hike records.Hike) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.setState(StateLoading)
	defer c.settle()
	err := c.add(ctx, hike)
	c.metrics.ObserveMutation(string(records.KindHikes), "add", err)
	return err
}

// Update replaces the hike shown at index, then re-lists. It reports false,
// with no error and no remote call, when index has no server id.
func (c *Controller) Update(ctx context.Context, index int, hike records.Hike) (bool, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.setState(StateLoading)
	defer c.settle()

	id, ok, err := c.resolve(ctx, index)
	if err != nil || !ok {
		return false, err
	}

	hike.ID = id
	data, err := json.Marshal(hike)
	if err != nil {
		return false, errors.WrapParse("json", "", err)
	}
	err = c.mutate(ctx, transport.OpUpdate, id, url.Values{"data": {string(data)}})
	c.metrics.ObserveMutation(string(records.KindHikes), "update", err)
	return err == nil, err
}

// Delete removes the hike shown at index, then re-lists. It reports false,
// with no error and no remote call, when index has no server id.
func (c *Controller) Delete(ctx context.Context, index int) (bool, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.setState(StateLoading)
	defer c.settle()

	id, ok, err := c.resolve(ctx, index)
	if err != nil || !ok {
		return false, err
	}

	err = c.mutate(ctx, transport.OpDelete, id, url.Values{"id": {id}})
	c.metrics.ObserveMutation(string(records.KindHikes), "delete", err)
	return err == nil, err
}

// Wipe removes every remote hike. The local collection is left as is until
// the next list.
func (c *Controller) Wipe(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.setState(StateLoading)
	defer c.settle()
	return c.wipe(ctx)
}

// WipeAndSeed wipes the remote and adds hikes one at a time, in order. The
// first failure aborts the sequence; earlier adds are not rolled back.
func (c *Controller) WipeAndSeed(ctx context.Context, hikes []records.Hike) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.setState(StateLoading)
	defer c.settle()

	if err := c.wipe(ctx); err != nil {
		return errors.NewSyncError(string(records.KindHikes), "wipe", -1, err)
	}
	for i, h := range hikes {
		if err := ctx.Err(); err != nil {
			return errors.NewSyncError(string(records.KindHikes), "seed", i, err)
		}
		if err := c.add(ctx, h); err != nil {
			return errors.NewSyncError(string(records.KindHikes), "seed", i, err)
		}
	}
	if len(hikes) == 0 {
		if err := c.list(ctx, true); err != nil {
			return errors.NewSyncError(string(records.KindHikes), "list", -1, err)
		}
	}
	c.logger.Info().Int("count", len(hikes)).Msg("remote wiped and seeded")
	return nil
}

// Restore installs a previously saved snapshot without writing it back.
// Nothing is edited remotely until the next list maps the positions.
func (c *Controller) Restore(source sources.Type, hikes []records.Hike) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.replace(source, hikes, false)
	c.settle()
}

// Replace installs hikes that did not come from a list, such as an import,
// and writes them through. The identity map is cleared because the
// positions no longer match any remote snapshot.
func (c *Controller) Replace(ctx context.Context, source sources.Type, hikes []records.Hike) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.replace(source, hikes, false)
	c.settle()
	if c.snapshot != nil {
		if err := c.snapshot(ctx, hikes); err != nil {
			return errors.WrapResource("persist", resource, "", err)
		}
	}
	return nil
}

// list fetches and installs the remote snapshot. allowEmpty accepts an ok
// answer with no rows as an authoritative empty collection, which is what
// a re-list after deleting the last hike looks like.
func (c *Controller) list(ctx context.Context, allowEmpty bool) error {
	env, err := c.remote.Call(ctx, transport.OpList, nil)
	if err != nil {
		return errors.WrapResource("list", resource, "", err)
	}
	if err := env.Err(transport.OpList); err != nil {
		return errors.WrapResource("list", resource, "", err)
	}

	rows := env.Records()
	if len(rows) == 0 && !allowEmpty {
		return errors.ErrNoData
	}

	hikes := normalize.Hikes(rows)
	c.replace(sources.Remote, hikes, true)
	if c.snapshot != nil {
		if err := c.snapshot(ctx, hikes); err != nil {
			c.logger.Warn().Err(err).Msg("failed to write hike snapshot")
		}
	}
	c.logger.Debug().Int("count", len(hikes)).Msg("listed hikes")
	return nil
}

func (c *Controller) add(ctx context.Context, hike records.Hike) error {
	data, err := json.Marshal(hike.WithoutID())
	if err != nil {
		return errors.WrapParse("json", "", err)
	}
	return c.mutate(ctx, transport.OpAdd, "", url.Values{"data": {string(data)}})
}

func (c *Controller) wipe(ctx context.Context) error {
	env, err := c.remote.Call(ctx, transport.OpWipe, nil)
	if err == nil {
		err = env.Err(transport.OpWipe)
	}
	return errors.WrapResource("wipe", resource, "", err)
}

// mutate performs op and the mandatory re-list that follows it.
func (c *Controller) mutate(ctx context.Context, op transport.Op, id string, params url.Values) error {
	env, err := c.remote.Call(ctx, op, params)
	if err == nil {
		err = env.Err(op)
	}
	if err != nil {
		return errors.WrapResource(string(op), resource, id, err)
	}
	if err := c.list(ctx, true); err != nil {
		return errors.WrapResource(string(op), resource, id, err)
	}
	return nil
}

// resolve maps index to a server id. Unresolved indices are benign; with
// retry enabled one re-list is attempted first.
func (c *Controller) resolve(ctx context.Context, index int) (string, bool, error) {
	if id, ok := c.ids.IDAt(index); ok {
		return id, true, nil
	}
	if c.retry {
		if err := c.list(ctx, true); err != nil {
			return "", false, err
		}
		if id, ok := c.ids.IDAt(index); ok {
			return id, true, nil
		}
	}
	c.logger.Debug().
		Err(&errors.IdentityError{Index: index, Size: c.ids.Len()}).
		Msg("ignoring edit of unsynced hike")
	return "", false, nil
}

func (c *Controller) replace(source sources.Type, hikes []records.Hike, fromList bool) {
	previous := c.hikes.All()
	c.hikes.Load(hikes)
	if fromList {
		ids := make([]string, len(hikes))
		for i, h := range hikes {
			ids[i] = h.ID
		}
		c.ids.Rebuild(ids)
	} else {
		c.ids.Reset()
	}

	c.stMu.Lock()
	c.source = source
	c.stMu.Unlock()

	c.metrics.SetRecords(string(records.KindHikes), len(hikes))
	if c.onReload != nil {
		c.onReload(source, previous, c.hikes.All())
	}
}

func (c *Controller) setState(s State) {
	c.stMu.Lock()
	c.state = s
	c.stMu.Unlock()
}

// settle leaves Loading or Fallback for Ready, or Empty when there is
// nothing to show.
func (c *Controller) settle() {
	if c.hikes.Len() > 0 {
		c.setState(StateReady)
		return
	}
	c.setState(StateEmpty)
}
