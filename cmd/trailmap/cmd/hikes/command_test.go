package hikes

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailmap/trailmap"
	"github.com/trailmap/trailmap/cmd/application"
	"github.com/trailmap/trailmap/internal/localcache"
	"github.com/trailmap/trailmap/internal/remotetest"
	"github.com/trailmap/trailmap/pkg/records"
)

func newTestApp(t *testing.T, remote *remotetest.Server) *application.Mock {
	t.Helper()
	opts := []trailmap.Option{
		trailmap.WithCacheDriver(localcache.DriverMemory, ""),
		trailmap.WithStaticFiles(t.TempDir()),
		trailmap.WithCallTimeout(2 * time.Second),
	}
	if remote != nil {
		opts = append(opts, trailmap.WithBackendURL(remote.URL))
	}
	tm, err := trailmap.New(context.Background(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tm.Close() })

	return &application.Mock{
		TrailmapFunc:     func(context.Context) (trailmap.Client, error) { return tm, nil },
		OutputFormatFunc: func() string { return "json" },
	}
}

func run(t *testing.T, app application.Application, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand(app)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func listed(t *testing.T, out string) []records.Indexed[records.Hike] {
	t.Helper()
	var hikes []records.Indexed[records.Hike]
	require.NoError(t, json.Unmarshal([]byte(out), &hikes))
	return hikes
}

func TestListRefreshesFromRemote(t *testing.T) {
	remote := remotetest.New(t,
		map[string]any{"name": "Ridge", "region": "North"},
		map[string]any{"Name": "Canyon", "Region": "South"},
	)
	app := newTestApp(t, remote)

	out, err := run(t, app, "list")
	require.NoError(t, err)
	hikes := listed(t, out)
	require.Len(t, hikes, 2)
	assert.Equal(t, "Canyon", hikes[1].Record.Name)
	assert.Equal(t, 1, remote.Count("list"))
}

func TestListRegionKeepsPositions(t *testing.T) {
	remote := remotetest.New(t,
		map[string]any{"name": "Ridge", "region": "North"},
		map[string]any{"name": "Canyon", "region": "South"},
	)
	app := newTestApp(t, remote)

	out, err := run(t, app, "list", "--region", "South")
	require.NoError(t, err)
	hikes := listed(t, out)
	require.Len(t, hikes, 1)
	assert.Equal(t, 1, hikes[0].Index)
}

func TestListOfflineSkipsRemote(t *testing.T) {
	remote := remotetest.New(t, map[string]any{"name": "Ridge"})
	app := newTestApp(t, remote)

	_, err := run(t, app, "list", "--offline")
	require.NoError(t, err)
	assert.Zero(t, remote.Count("list"))
}

func TestAddUpdateDelete(t *testing.T) {
	remote := remotetest.New(t, map[string]any{"name": "Ridge", "region": "North"})
	app := newTestApp(t, remote)

	_, err := run(t, app, "add", "--name", "Falls", "--region", "West", "--lat", "32.1", "--lon", "35.2")
	require.NoError(t, err)
	require.Len(t, remote.Rows(), 2)

	_, err = run(t, app, "update", "0", "--difficulty", "hard")
	require.NoError(t, err)
	rows := remote.Rows()
	assert.Equal(t, "Ridge", rows[0]["name"])
	assert.Equal(t, "hard", rows[0]["difficulty"])

	_, err = run(t, app, "delete", "1")
	require.NoError(t, err)
	require.Len(t, remote.Rows(), 1)
	assert.Equal(t, "Ridge", remote.Rows()[0]["name"])
}

func TestAddRequiresName(t *testing.T) {
	remote := remotetest.New(t)
	app := newTestApp(t, remote)

	_, err := run(t, app, "add", "--region", "West")
	require.Error(t, err)
	assert.Zero(t, remote.Count("add"))
}

func TestUpdateOutOfRange(t *testing.T) {
	remote := remotetest.New(t, map[string]any{"name": "Ridge"})
	app := newTestApp(t, remote)

	_, err := run(t, app, "update", "5", "--name", "Nope")
	assert.Error(t, err)
	assert.Zero(t, remote.Count("update"))
}

func TestWipeNeedsConfirmation(t *testing.T) {
	remote := remotetest.New(t, map[string]any{"name": "Ridge"})
	app := newTestApp(t, remote)

	_, err := run(t, app, "wipe")
	require.Error(t, err)
	assert.Len(t, remote.Rows(), 1)
}
