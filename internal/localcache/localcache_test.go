package localcache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailmap/trailmap/internal/kv"
	"github.com/trailmap/trailmap/pkg/constants"
	"github.com/trailmap/trailmap/pkg/errors"
	"github.com/trailmap/trailmap/pkg/records"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := New(kv.NewMemory())

	hikes := []records.Hike{
		{ID: "r1", Name: "Lac de Gaube", Lat: records.Degrees(42.83), Lon: records.Degrees(-0.14)},
		{ID: "r2", Name: "Unmapped"},
	}
	require.NoError(t, Save(ctx, c, records.KindHikes, hikes))

	got, err := Load[records.Hike](ctx, c, records.KindHikes)
	require.NoError(t, err)
	assert.Equal(t, hikes, got)

	rows, err := c.Rows(ctx, records.KindHikes)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Nil(t, rows[1]["lat"])
}

func TestLoadMissingIsEmpty(t *testing.T) {
	got, err := Load[records.Lodging](context.Background(), New(kv.NewMemory()), records.KindAccommodations)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadCorrupt(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, store.Set(ctx, constants.KeyAttractions, []byte("{not json")))

	_, err := Load[records.Attraction](ctx, New(store), records.KindAttractions)
	var perr *errors.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, constants.KeyAttractions, perr.File)
}

func TestSaveNilWritesEmptyArray(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, Save[records.Lodging](ctx, New(store), records.KindAccommodations, nil))

	data, err := store.Get(ctx, constants.KeyAccommodations)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestStringKeys(t *testing.T) {
	ctx := context.Background()
	c := New(kv.NewMemory())

	require.NoError(t, c.SetHeroURL(ctx, " https://img.example/hero.jpg "))
	hero, err := c.HeroURL(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/hero.jpg", hero)

	require.NoError(t, c.SetBackendURL(ctx, "https://script.example/exec"))
	require.NoError(t, c.SetBackendURL(ctx, ""))
	backend, err := c.BackendURL(ctx)
	require.NoError(t, err)
	assert.Empty(t, backend)
}

func TestClearRemovesOwnedKeys(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	c := New(store)

	require.NoError(t, Save(ctx, c, records.KindHikes, []records.Hike{{Name: "a"}}))
	require.NoError(t, c.SetHeroURL(ctx, "h"))
	require.NoError(t, store.Set(ctx, "unrelated", []byte("keep")))

	require.NoError(t, c.Clear(ctx))

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"unrelated"}, keys)
}

func TestOpenDrivers(t *testing.T) {
	ctx := context.Background()
	for _, driver := range []string{DriverFiles, DriverSQLite, DriverMemory, ""} {
		t.Run("driver "+driver, func(t *testing.T) {
			c, err := Open(ctx, driver, t.TempDir())
			require.NoError(t, err)
			defer func() { _ = c.Close() }()

			require.NoError(t, c.SetBackendURL(ctx, "https://x"))
			got, err := c.BackendURL(ctx)
			require.NoError(t, err)
			assert.Equal(t, "https://x", got)
		})
	}

	_, err := Open(ctx, "redis", t.TempDir())
	assert.True(t, errors.IsValidationError(err))
}
