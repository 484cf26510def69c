// Package identity keeps the positional mapping between the records shown to
// a user and the opaque ids the remote service assigned to them.
//
// The mapping is only valid for the snapshot produced by the most recent
// successful list, so it is replaced wholesale and never patched.
package identity

import "sync"

// Mapper maps display positions to server ids.
type Mapper struct {
	mu  sync.RWMutex
	ids []string
}

// New returns an empty mapper.
func New() *Mapper {
	return &Mapper{}
}

// Rebuild replaces the mapping with ids, index-aligned with the snapshot
// that produced them.
func (m *Mapper) Rebuild(ids []string) {
	next := make([]string, len(ids))
	copy(next, ids)

	m.mu.Lock()
	m.ids = next
	m.mu.Unlock()
}

// Reset drops the mapping. Subsequent lookups resolve nothing until the next
// Rebuild.
func (m *Mapper) Reset() {
	m.Rebuild(nil)
}

// IDAt returns the server id for display position i. It reports false when
// i is out of range or the record at i has no id.
func (m *Mapper) IDAt(i int) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if i < 0 || i >= len(m.ids) {
		return "", false
	}
	id := m.ids[i]
	return id, id != ""
}

// Len returns the number of mapped positions.
func (m *Mapper) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.ids)
}

// IDs returns a copy of the current mapping.
func (m *Mapper) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.ids))
	copy(out, m.ids)
	return out
}
