// Package kvtest holds the behavior every kv.Store must share.
package kvtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailmap/trailmap/internal/kv"
	"github.com/trailmap/trailmap/pkg/errors"
)

// Run exercises a store built by open.
func Run(t *testing.T, open func(t *testing.T) kv.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		s := open(t)
		_, err := s.Get(ctx, "trailmap_hikes")
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("set and get", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Set(ctx, "trailmap_hikes", []byte(`[{"name":"a"}]`)))
		got, err := s.Get(ctx, "trailmap_hikes")
		require.NoError(t, err)
		assert.Equal(t, `[{"name":"a"}]`, string(got))
	})

	t.Run("overwrite", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Set(ctx, "k", []byte("one")))
		require.NoError(t, s.Set(ctx, "k", []byte("two")))
		got, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "two", string(got))
	})

	t.Run("empty value", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Set(ctx, "k", nil))
		got, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("delete", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Set(ctx, "k", []byte("v")))
		require.NoError(t, s.Delete(ctx, "k"))
		require.NoError(t, s.Delete(ctx, "k"))
		_, err := s.Get(ctx, "k")
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("keys", func(t *testing.T) {
		s := open(t)
		for _, k := range []string{"trailmap_hero_url", "trailmap_attractions", "odd key/with:chars"} {
			require.NoError(t, s.Set(ctx, k, []byte("v")))
		}
		keys, err := s.Keys(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"trailmap_hero_url", "trailmap_attractions", "odd key/with:chars"}, keys)
	})
}
