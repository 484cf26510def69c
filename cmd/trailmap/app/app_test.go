package app

import (
	"context"
	"sync"
	"testing"

	"github.com/trailmap/trailmap"
	"github.com/trailmap/trailmap/internal/localcache"
)

// newTestApp creates an app whose client keeps everything in memory.
func newTestApp(t *testing.T) *App {
	t.Helper()
	app, err := New("1.0.0", "abc123", "2026-01-01", "test",
		WithClientOptions(trailmap.WithCacheDriver(localcache.DriverMemory, "")))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() { _ = app.Shutdown(context.Background()) })
	return app
}

// TestApp_New verifies app initialization.
func TestApp_New(t *testing.T) {
	app := newTestApp(t)

	if app.Version() != "1.0.0" {
		t.Errorf("Version() = %s, want 1.0.0", app.Version())
	}
	if app.Commit() != "abc123" {
		t.Errorf("Commit() = %s, want abc123", app.Commit())
	}
	if app.Date() != "2026-01-01" {
		t.Errorf("Date() = %s, want 2026-01-01", app.Date())
	}
	if app.BuiltBy() != "test" {
		t.Errorf("BuiltBy() = %s, want test", app.BuiltBy())
	}
	if app.Logger() == nil {
		t.Error("Logger() returned nil")
	}
	if app.Config() == nil {
		t.Error("Config() returned nil")
	}
	if app.Metrics() == nil {
		t.Error("Metrics() returned nil")
	}
}

// TestApp_Trailmap_Singleton verifies that Trailmap() returns the same instance.
func TestApp_Trailmap_Singleton(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	tm1, err := app.Trailmap(ctx)
	if err != nil {
		t.Fatalf("Trailmap() failed: %v", err)
	}
	tm2, err := app.Trailmap(ctx)
	if err != nil {
		t.Fatalf("Trailmap() failed on second call: %v", err)
	}
	if tm1 != tm2 {
		t.Error("Trailmap() returned different instances, expected singleton")
	}
}

// TestApp_Trailmap_ThreadSafe verifies concurrent Trailmap() calls are safe.
func TestApp_Trailmap_ThreadSafe(t *testing.T) {
	app := newTestApp(t)

	const goroutines = 50
	var wg sync.WaitGroup
	results := make([]trailmap.Client, goroutines)
	errs := make([]error, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = app.Trailmap(context.Background())
		}(i)
	}
	wg.Wait()

	for i := 0; i < goroutines; i++ {
		if errs[i] != nil {
			t.Fatalf("goroutine %d: Trailmap() failed: %v", i, errs[i])
		}
		if results[i] != results[0] {
			t.Errorf("goroutine %d got a different instance", i)
		}
	}
}

// TestApp_Shutdown verifies shutdown releases the client and is repeatable.
func TestApp_Shutdown(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	first, err := app.Trailmap(ctx)
	if err != nil {
		t.Fatalf("Trailmap() failed: %v", err)
	}
	if err := app.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() failed: %v", err)
	}
	if err := app.Shutdown(ctx); err != nil {
		t.Fatalf("second Shutdown() failed: %v", err)
	}

	second, err := app.Trailmap(ctx)
	if err != nil {
		t.Fatalf("Trailmap() after shutdown failed: %v", err)
	}
	if first == second {
		t.Error("expected a fresh client after shutdown")
	}
}

// TestApp_WithTrailmap verifies an injected client is used as-is.
func TestApp_WithTrailmap(t *testing.T) {
	ctx := context.Background()
	tm, err := trailmap.New(ctx, trailmap.WithCacheDriver(localcache.DriverMemory, ""))
	if err != nil {
		t.Fatalf("trailmap.New() failed: %v", err)
	}

	app, err := New("dev", "", "", "", WithTrailmap(tm))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() { _ = app.Shutdown(ctx) })

	got, err := app.Trailmap(ctx)
	if err != nil {
		t.Fatalf("Trailmap() failed: %v", err)
	}
	if got != tm {
		t.Error("Trailmap() did not return the injected client")
	}
}

// TestApp_Execute_Version runs the root command end to end.
func TestApp_Execute_Version(t *testing.T) {
	app := newTestApp(t)
	if err := app.Execute(context.Background(), []string{"version"}); err != nil {
		t.Fatalf("Execute(version) failed: %v", err)
	}
}

// TestApp_RootCommand_Groups verifies every subcommand is registered.
func TestApp_RootCommand_Groups(t *testing.T) {
	app := newTestApp(t)
	root := app.createRootCommand()

	want := []string{
		"sync", "hikes", "lodgings", "attractions", "bounds",
		"import", "export", "hero", "backend", "cache", "serve", "version",
	}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			t.Errorf("command %q not registered", name)
		}
	}
}

// TestApp_Execute_RejectsUnknownFormat verifies --format is validated.
func TestApp_Execute_RejectsUnknownFormat(t *testing.T) {
	app := newTestApp(t)
	if err := app.Execute(context.Background(), []string{"version", "--format", "xml"}); err == nil {
		t.Error("expected an error for --format xml")
	}
}
