package identity

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRebuildRoundTrip(t *testing.T) {
	m := New()
	ids := []string{"a1", "b2", "c3"}
	m.Rebuild(ids)

	for i, want := range ids {
		got, ok := m.IDAt(i)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, 3, m.Len())
}

func TestIDAtOutOfRange(t *testing.T) {
	m := New()
	m.Rebuild([]string{"a1"})

	for _, i := range []int{-1, 1, 100} {
		t.Run(fmt.Sprintf("index %d", i), func(t *testing.T) {
			id, ok := m.IDAt(i)
			assert.False(t, ok)
			assert.Empty(t, id)
		})
	}
}

func TestIDAtEmptyID(t *testing.T) {
	m := New()
	m.Rebuild([]string{"a1", ""})

	_, ok := m.IDAt(1)
	assert.False(t, ok)
}

func TestRebuildCopiesInput(t *testing.T) {
	m := New()
	ids := []string{"a1", "b2"}
	m.Rebuild(ids)
	ids[0] = "mutated"

	got, _ := m.IDAt(0)
	assert.Equal(t, "a1", got)

	out := m.IDs()
	out[1] = "mutated"
	got, _ = m.IDAt(1)
	assert.Equal(t, "b2", got)
}

func TestRebuildReplacesWholesale(t *testing.T) {
	m := New()
	m.Rebuild([]string{"a", "b", "c"})
	m.Rebuild([]string{"z"})

	assert.Equal(t, []string{"z"}, m.IDs())
	_, ok := m.IDAt(2)
	assert.False(t, ok)

	m.Reset()
	assert.Equal(t, 0, m.Len())
}

func TestConcurrentAccess(t *testing.T) {
	m := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			m.Rebuild([]string{fmt.Sprint(n)})
		}(i)
		go func() {
			defer wg.Done()
			m.IDAt(0)
			m.Len()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, m.Len())
}
