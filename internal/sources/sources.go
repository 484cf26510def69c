// Package sources provides the fallback sources consulted, in order, when
// the remote service cannot supply hikes: the local cache snapshot, the
// bundled defaults and a static file.
package sources

import (
	"context"

	"github.com/trailmap/trailmap/internal/embedded"
	"github.com/trailmap/trailmap/internal/localcache"
	"github.com/trailmap/trailmap/pkg/normalize"
	"github.com/trailmap/trailmap/pkg/records"
)

// Type identifies where a set of hikes came from.
type Type string

// Source types, including the remote service itself.
const (
	Remote  Type = "remote"
	Cache   Type = "cache"
	Bundled Type = "bundled"
	Static  Type = "static"
	Import  Type = "import"
	None    Type = "none"
)

// String implements fmt.Stringer.
func (t Type) String() string { return string(t) }

// Source supplies raw hike rows. An empty result with a nil error means the
// source has nothing to offer.
type Source interface {
	Type() Type
	Rows(ctx context.Context) ([]normalize.Row, error)
}

// CacheSource reads the hike snapshot from the local cache.
type CacheSource struct {
	cache *localcache.Cache
}

// NewCache returns a source backed by cache.
func NewCache(cache *localcache.Cache) *CacheSource {
	return &CacheSource{cache: cache}
}

// Type implements Source.
func (s *CacheSource) Type() Type { return Cache }

// Rows implements Source.
func (s *CacheSource) Rows(ctx context.Context) ([]normalize.Row, error) {
	if s.cache == nil {
		return nil, nil
	}
	return s.cache.Rows(ctx, records.KindHikes)
}

// BundledSource returns the hikes compiled into the binary.
type BundledSource struct{}

// NewBundled returns the bundled defaults source.
func NewBundled() *BundledSource { return &BundledSource{} }

// Type implements Source.
func (s *BundledSource) Type() Type { return Bundled }

// Rows implements Source.
func (s *BundledSource) Rows(_ context.Context) ([]normalize.Row, error) {
	return embedded.DefaultHikes()
}
