package cache

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestCache_SetGetDelete(t *testing.T) {
	c := New(5*time.Minute, 10*time.Minute)

	c.Set("hikes:", []string{"a"})
	if _, found := c.Get("hikes:"); !found {
		t.Fatal("expected hikes: to be cached")
	}

	c.Delete("hikes:")
	if _, found := c.Get("hikes:"); found {
		t.Error("expected hikes: to be deleted")
	}

	// Deleting a missing key is fine.
	c.Delete("nonexistent")
}

func TestCache_Expiry(t *testing.T) {
	c := New(20*time.Millisecond, time.Minute)
	c.Set("regions", []string{"Galilee"})

	time.Sleep(40 * time.Millisecond)
	if _, found := c.Get("regions"); found {
		t.Error("expected entry to expire")
	}
}

func TestCache_Clear(t *testing.T) {
	c := New(5*time.Minute, 10*time.Minute)
	for _, k := range []string{"hikes:", "regions", "bounds"} {
		c.Set(k, k)
	}
	if n := c.ItemCount(); n != 3 {
		t.Fatalf("expected 3 items, got %d", n)
	}

	c.Clear()
	if n := c.ItemCount(); n != 0 {
		t.Errorf("expected empty cache after Clear, got %d", n)
	}
}

func TestCache_GetOrLoad(t *testing.T) {
	c := New(5*time.Minute, 10*time.Minute)
	calls := 0
	load := func() (any, error) {
		calls++
		return calls, nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrLoad("bounds", load)
		if err != nil {
			t.Fatalf("GetOrLoad: %v", err)
		}
		if v != 1 {
			t.Errorf("expected cached value 1, got %v", v)
		}
	}
	if calls != 1 {
		t.Errorf("expected one load, got %d", calls)
	}

	stats := c.GetStats()
	if stats.Hits != 2 || stats.Misses != 1 || stats.Items != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestCache_GetOrLoadErrorNotCached(t *testing.T) {
	c := New(5*time.Minute, 10*time.Minute)
	boom := errors.New("boom")

	if _, err := c.GetOrLoad("export", func() (any, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if n := c.ItemCount(); n != 0 {
		t.Errorf("error results must not be cached, got %d items", n)
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New(5*time.Minute, 10*time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			c.Set("k", n)
			c.Get("k")
			if n%10 == 0 {
				c.Clear()
			}
		}(i)
	}
	wg.Wait()
}
