package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/trailmap/trailmap"
	"github.com/trailmap/trailmap/cmd/application"
	"github.com/trailmap/trailmap/internal/localcache"
	"github.com/trailmap/trailmap/internal/metrics"
	"github.com/trailmap/trailmap/internal/remotetest"
	"github.com/trailmap/trailmap/internal/server/middleware"
	"github.com/trailmap/trailmap/pkg/logging"
)

func seedRows() []map[string]any {
	return []map[string]any{
		{"name": "Lac de Gaube", "region": "Cauterets", "lat": 42.83, "lon": -0.14},
		{"name": "Cirque de Gavarnie", "region": "Gavarnie", "lat": 42.70, "lon": -0.01},
		{"name": "Pont d'Espagne", "region": "Cauterets"},
	}
}

// newTestApp builds a mock application around a real client talking to
// backendURL; an empty URL disables the remote.
func newTestApp(t *testing.T, backendURL string) *application.Mock {
	t.Helper()
	opts := []trailmap.Option{
		trailmap.WithCacheDriver(localcache.DriverMemory, ""),
		trailmap.WithStaticFiles(t.TempDir()),
		trailmap.WithCallTimeout(2 * time.Second),
		trailmap.WithLogger(logging.NewNopLogger()),
	}
	if backendURL != "" {
		opts = append(opts, trailmap.WithBackendURL(backendURL))
	}
	tm, err := trailmap.New(context.Background(), opts...)
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}
	t.Cleanup(func() { _ = tm.Close() })

	m := metrics.New()
	return &application.Mock{
		TrailmapFunc: func(context.Context) (trailmap.Client, error) { return tm, nil },
		MetricsFunc:  func() *metrics.Metrics { return m },
	}
}

type testServer struct {
	*Server
	http *httptest.Server
}

func startTestServer(t *testing.T, app application.Application, mutate ...func(*Config)) *testServer {
	t.Helper()
	cfg := DefaultConfig()
	cfg.AutoRefresh = false
	for _, fn := range mutate {
		fn(&cfg)
	}

	srv, err := New(context.Background(), app, cfg)
	if err != nil {
		t.Fatalf("server.New: %v", err)
	}
	srv.Start()
	hs := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		hs.Close()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return &testServer{Server: srv, http: hs}
}

// envelope is the decoded response body.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func (ts *testServer) do(t *testing.T, method, path string, body any) (int, envelope) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.http.URL+path, rd)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("%s %s: body is not an envelope: %s", method, path, raw)
	}
	return resp.StatusCode, env
}

type hikeList struct {
	Hikes []struct {
		Index  int `json:"index"`
		Record struct {
			ID     string `json:"id"`
			Name   string `json:"name"`
			Region string `json:"region"`
		} `json:"record"`
	} `json:"hikes"`
	Count  int    `json:"count"`
	Source string `json:"source"`
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("decoding data %s: %v", env.Data, err)
	}
	return v
}

func TestServerStartShutdown(t *testing.T) {
	app := newTestApp(t, "")
	srv, err := New(context.Background(), app, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	srv.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

func TestShutdownWithoutStart(t *testing.T) {
	srv, err := New(context.Background(), newTestApp(t, ""), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if err := srv.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown before Start: %v", err)
	}
}

func TestHealth(t *testing.T) {
	ts := startTestServer(t, newTestApp(t, ""))

	for _, path := range []string{"/health", "/api/v1/health", "/api/v1/ready"} {
		if code, _ := ts.do(t, http.MethodGet, path, nil); code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, code)
		}
	}
}

func TestSyncAndListHikes(t *testing.T) {
	remote := remotetest.New(t, seedRows()...)
	ts := startTestServer(t, newTestApp(t, remote.URL))

	code, env := ts.do(t, http.MethodPost, "/api/v1/sync", nil)
	if code != http.StatusOK {
		t.Fatalf("sync: expected 200, got %d", code)
	}
	res := decodeData[map[string]any](t, env)
	if res["source"] != "remote" || res["count"] != float64(3) {
		t.Errorf("unexpected sync result %v", res)
	}

	_, env = ts.do(t, http.MethodGet, "/api/v1/hikes?region=Cauterets", nil)
	list := decodeData[hikeList](t, env)
	if list.Count != 2 {
		t.Fatalf("expected 2 hikes in Cauterets, got %d", list.Count)
	}
	if list.Hikes[1].Index != 2 {
		t.Errorf("filtered hikes must keep their positions, got %d", list.Hikes[1].Index)
	}

	_, env = ts.do(t, http.MethodGet, "/api/v1/regions", nil)
	regions := decodeData[[]string](t, env)
	if strings.Join(regions, ",") != "Cauterets,Gavarnie" {
		t.Errorf("unexpected regions %v", regions)
	}
}

func TestHikeMutations(t *testing.T) {
	remote := remotetest.New(t, seedRows()...)
	ts := startTestServer(t, newTestApp(t, remote.URL))
	ts.do(t, http.MethodPost, "/api/v1/sync", nil)

	// populate the cache so the mutations must flush it
	ts.do(t, http.MethodGet, "/api/v1/hikes", nil)

	code, env := ts.do(t, http.MethodPost, "/api/v1/hikes", map[string]any{"Name": "Brèche de Roland", "region": "Gavarnie"})
	if code != http.StatusCreated {
		t.Fatalf("add: expected 201, got %d (%+v)", code, env.Error)
	}
	if n := len(remote.Rows()); n != 4 {
		t.Errorf("expected 4 remote rows, got %d", n)
	}
	_, env = ts.do(t, http.MethodGet, "/api/v1/hikes", nil)
	if list := decodeData[hikeList](t, env); list.Count != 4 {
		t.Errorf("stale cache after add: %d hikes", list.Count)
	}

	code, _ = ts.do(t, http.MethodPut, "/api/v1/hikes/0", map[string]any{"name": "Lac de Gaube (north shore)", "region": "Cauterets"})
	if code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", code)
	}
	if got := remote.Rows()[0]["name"]; got != "Lac de Gaube (north shore)" {
		t.Errorf("remote not updated: %v", got)
	}

	code, _ = ts.do(t, http.MethodDelete, "/api/v1/hikes/1", nil)
	if code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", code)
	}
	if n := len(remote.Rows()); n != 3 {
		t.Errorf("expected 3 remote rows after delete, got %d", n)
	}
}

func TestHikeMutationErrors(t *testing.T) {
	remote := remotetest.New(t, seedRows()...)
	ts := startTestServer(t, newTestApp(t, remote.URL))
	ts.do(t, http.MethodPost, "/api/v1/sync", nil)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"bad index", http.MethodDelete, "/api/v1/hikes/abc", nil, http.StatusBadRequest},
		{"out of range", http.MethodDelete, "/api/v1/hikes/99", nil, http.StatusNotFound},
		{"missing name", http.MethodPost, "/api/v1/hikes", map[string]any{"region": "Gavarnie"}, http.StatusBadRequest},
		{"not an object", http.MethodPost, "/api/v1/hikes", []int{1}, http.StatusBadRequest},
		{"unknown route", http.MethodGet, "/api/v1/trails", nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := ts.do(t, tt.method, tt.path, tt.body)
			if code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, code)
			}
			if env.Error == nil {
				t.Error("expected an error envelope")
			}
		})
	}
}

func TestUnresolvedHikeIsConflict(t *testing.T) {
	// An empty remote sends the client to the bundled hikes, which have no
	// server ids.
	remote := remotetest.New(t)
	ts := startTestServer(t, newTestApp(t, remote.URL))
	ts.do(t, http.MethodPost, "/api/v1/sync", nil)

	code, env := ts.do(t, http.MethodDelete, "/api/v1/hikes/0", nil)
	if code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", code)
	}
	if env.Error.Code != "CONFLICT" {
		t.Errorf("unexpected code %s", env.Error.Code)
	}
	if remote.Count("delete") != 0 {
		t.Error("an unresolved delete must not reach the remote")
	}
}

func TestLocalKinds(t *testing.T) {
	ts := startTestServer(t, newTestApp(t, ""))

	for _, kind := range []string{"accommodations", "attractions"} {
		t.Run(kind, func(t *testing.T) {
			base := "/api/v1/" + kind

			// warm the cache with the empty list
			_, env := ts.do(t, http.MethodGet, base, nil)
			if got := decodeData[map[string]any](t, env)["count"]; got != float64(0) {
				t.Fatalf("expected empty list, got %v", got)
			}

			code, _ := ts.do(t, http.MethodPost, base, map[string]any{"name": "Refuge des Oulettes", "lat": "42.77", "lon": -0.15})
			if code != http.StatusCreated {
				t.Fatalf("add: expected 201, got %d", code)
			}
			_, env = ts.do(t, http.MethodGet, base, nil)
			if got := decodeData[map[string]any](t, env)["count"]; got != float64(1) {
				t.Errorf("expected 1 item after add, got %v", got)
			}

			if code, _ := ts.do(t, http.MethodPut, base+"/0", map[string]any{"name": "Refuge Baysselance"}); code != http.StatusOK {
				t.Errorf("update: expected 200, got %d", code)
			}
			if code, _ := ts.do(t, http.MethodPut, base+"/5", map[string]any{"name": "x"}); code != http.StatusNotFound {
				t.Errorf("update out of range: expected 404, got %d", code)
			}
			if code, _ := ts.do(t, http.MethodDelete, base+"/0", nil); code != http.StatusOK {
				t.Errorf("delete: expected 200, got %d", code)
			}
		})
	}
}

func TestBoundsAndExport(t *testing.T) {
	remote := remotetest.New(t, seedRows()...)
	ts := startTestServer(t, newTestApp(t, remote.URL))
	ts.do(t, http.MethodPost, "/api/v1/sync", nil)

	_, env := ts.do(t, http.MethodGet, "/api/v1/bounds", nil)
	b := decodeData[map[string]any](t, env)
	if b["points"] != float64(2) {
		t.Errorf("expected 2 mappable hikes, got %v", b["points"])
	}

	resp, err := http.Get(ts.http.URL + "/api/v1/export")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var doc map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatal(err)
	}
	if hikes, ok := doc["hikes"].([]any); !ok || len(hikes) != 3 {
		t.Errorf("export should be the bare document with 3 hikes, got %v", doc["hikes"])
	}
}

func TestAuthEnabled(t *testing.T) {
	t.Setenv(middleware.APIKeyEnv, "k")
	ts := startTestServer(t, newTestApp(t, ""), func(c *Config) { c.AuthEnabled = true })

	if code, _ := ts.do(t, http.MethodGet, "/api/v1/attractions", nil); code != http.StatusUnauthorized {
		t.Errorf("expected 401 without key, got %d", code)
	}
	if code, _ := ts.do(t, http.MethodGet, "/api/v1/health", nil); code != http.StatusOK {
		t.Errorf("health must stay public, got %d", code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts := startTestServer(t, newTestApp(t, ""))
	ts.do(t, http.MethodGet, "/api/v1/attractions", nil)

	resp, err := http.Get(ts.http.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `trailmap_http_requests_total{code="200",method="GET",route="GET /api/v1/attractions"} 1`) {
		t.Errorf("request not counted:\n%s", body)
	}
}

func TestWebSocketReceivesChanges(t *testing.T) {
	ts := startTestServer(t, newTestApp(t, ""))

	wsURL := "ws" + strings.TrimPrefix(ts.http.URL, "http") + "/api/v1/updates/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for ts.WSHub().ClientCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("websocket client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	ts.do(t, http.MethodPost, "/api/v1/attractions", map[string]any{"name": "Pic du Midi"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var msg struct {
			Type string         `json:"type"`
			Data map[string]any `json:"data"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("no local.changed event: %v", err)
		}
		if msg.Type == "local.changed" {
			if msg.Data["kind"] != "attractions" || msg.Data["count"] != float64(1) {
				t.Errorf("unexpected event data %v", msg.Data)
			}
			return
		}
	}
}
