package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailmap/trailmap/internal/kv"
	"github.com/trailmap/trailmap/internal/localcache"
	"github.com/trailmap/trailmap/pkg/records"
)

func TestParseLenient(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"array", `[{"name":"a"},{"name":"b"}]`, 2, false},
		{"hikes object", `{"hikes":[{"name":"a"}],"heroImageUrl":"x"}`, 1, false},
		{"rows object", `{"ok":true,"rows":[{"name":"a"}]}`, 1, false},
		{"script assignment", "window.HIKES = [\n {\"name\":\"a\"}\n];\n", 1, false},
		{"text around", "exported 2026-06-01\n[{\"name\":\"a\"},{\"name\":\"b\"}]\n-- end", 2, false},
		{"skips non objects", `[1,"x",{"name":"a"}]`, 1, false},
		{"empty", "   ", 0, false},
		{"garbage", "hello world", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := ParseLenient([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, rows, tt.want)
		})
	}
}

func TestStaticFromDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hikes.json"), []byte(`[{"Name":"Lac d'Oô"}]`), 0o644))

	s := NewStatic(dir)
	rows, err := s.Rows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Lac d'Oô", rows[0]["Name"])
}

func TestStaticPrefersFirstLocation(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hikes.ls"), []byte(`var data = [{"name":"first"}]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hikes.json"), []byte(`[{"name":"second"}]`), 0o644))

	rows, err := NewStatic(dir).Rows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "first", rows[0]["name"])
}

func TestStaticOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data/hikes.ls":
			http.NotFound(w, r)
		case "/data/hikes.json":
			_, _ = fmt.Fprint(w, `{"hikes":[{"title":"Brèche de Roland"}]}`)
		}
	}))
	defer srv.Close()

	rows, err := NewStatic(srv.URL + "/data").Rows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Brèche de Roland", rows[0]["title"])
}

func TestStaticNothingFound(t *testing.T) {
	rows, err := NewStatic(t.TempDir()).Rows(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCacheSource(t *testing.T) {
	ctx := context.Background()
	cache := localcache.New(kv.NewMemory())

	rows, err := NewCache(cache).Rows(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)

	require.NoError(t, localcache.Save(ctx, cache, records.KindHikes, []records.Hike{{ID: "r1", Name: "a"}}))
	rows, err = NewCache(cache).Rows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "r1", rows[0]["id"])
	assert.Equal(t, Cache, NewCache(cache).Type())
}

func TestBundledSource(t *testing.T) {
	rows, err := NewBundled().Rows(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, rows)
	assert.Equal(t, Bundled, NewBundled().Type())
}
