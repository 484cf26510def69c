package trailmap

import (
	"sync"

	"github.com/trailmap/trailmap/internal/sources"
	"github.com/trailmap/trailmap/pkg/records"
)

// Compile-time interface check to ensure proper implementation.
var _ Hooks = (*client)(nil)

// Hook function types for catalog events
type (
	// HikeAddedHook is called when a reload brings in a new hike
	HikeAddedHook func(hike records.Hike)

	// HikeUpdatedHook is called when a reload changes a known hike
	HikeUpdatedHook func(old, new records.Hike)

	// HikeRemovedHook is called when a reload drops a hike
	HikeRemovedHook func(hike records.Hike)

	// ReloadHook is called after every replacement of the hike collection
	ReloadHook func(source Source, count int)

	// LocalChangedHook is called after a local-only kind is written
	LocalChangedHook func(kind records.Kind, count int)
)

// Hooks registers event callbacks.
type Hooks interface {
	OnHikeAdded(fn HikeAddedHook)
	OnHikeUpdated(fn HikeUpdatedHook)
	OnHikeRemoved(fn HikeRemovedHook)
	OnReload(fn ReloadHook)
	OnLocalChanged(fn LocalChangedHook)
}

// hooks manages event callbacks for catalog changes
type hooks struct {
	mu             sync.RWMutex
	onHikeAdded    []HikeAddedHook
	onHikeUpdated  []HikeUpdatedHook
	onHikeRemoved  []HikeRemovedHook
	onReload       []ReloadHook
	onLocalChanged []LocalChangedHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnHikeAdded registers a callback for added hikes.
func (c *client) OnHikeAdded(fn HikeAddedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onHikeAdded = append(c.hooks.onHikeAdded, fn)
}

// OnHikeUpdated registers a callback for changed hikes.
func (c *client) OnHikeUpdated(fn HikeUpdatedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onHikeUpdated = append(c.hooks.onHikeUpdated, fn)
}

// OnHikeRemoved registers a callback for removed hikes.
func (c *client) OnHikeRemoved(fn HikeRemovedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onHikeRemoved = append(c.hooks.onHikeRemoved, fn)
}

// OnReload registers a callback for collection replacements.
func (c *client) OnReload(fn ReloadHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onReload = append(c.hooks.onReload, fn)
}

// OnLocalChanged registers a callback for local-only writes.
func (c *client) OnLocalChanged(fn LocalChangedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onLocalChanged = append(c.hooks.onLocalChanged, fn)
}

// hikeKey identifies a hike across reloads: its server id, or its name and
// region when it has none.
func hikeKey(h records.Hike) string {
	if h.ID != "" {
		return "id:" + h.ID
	}
	return "name:" + h.Name + "\x00" + h.Region
}

// triggerReload compares the old and new collections and fires the
// per-hike hooks, then the reload hooks.
func (h *hooks) triggerReload(source sources.Type, previous, current []records.Hike) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	oldByKey := make(map[string]records.Hike, len(previous))
	for _, hike := range previous {
		oldByKey[hikeKey(hike)] = hike
	}
	newByKey := make(map[string]struct{}, len(current))

	for _, hike := range current {
		key := hikeKey(hike)
		newByKey[key] = struct{}{}
		if old, exists := oldByKey[key]; exists {
			if old != hike {
				for _, hook := range h.onHikeUpdated {
					hook(old, hike)
				}
			}
			continue
		}
		for _, hook := range h.onHikeAdded {
			hook(hike)
		}
	}

	for _, old := range previous {
		if _, exists := newByKey[hikeKey(old)]; !exists {
			for _, hook := range h.onHikeRemoved {
				hook(old)
			}
		}
	}

	for _, hook := range h.onReload {
		hook(source, len(current))
	}
}

func (h *hooks) triggerLocalChanged(kind records.Kind, count int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onLocalChanged {
		hook(kind, count)
	}
}
