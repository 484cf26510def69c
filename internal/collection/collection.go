// Package collection holds the in-memory ordered list of one record kind.
// A record's index in the list is its display and edit position.
package collection

import (
	"strconv"
	"sync"

	"github.com/trailmap/trailmap/pkg/errors"
	"github.com/trailmap/trailmap/pkg/records"
)

// PersistFunc receives the full list after every successful mutation.
type PersistFunc[T any] func(items []T) error

// Store is an ordered, concurrency-safe list of records of one kind.
type Store[T any] struct {
	kind    records.Kind
	mu      sync.RWMutex
	items   []T
	persist PersistFunc[T]
}

// New returns an empty store. persist may be nil.
func New[T any](kind records.Kind, persist PersistFunc[T]) *Store[T] {
	return &Store[T]{kind: kind, persist: persist}
}

// Kind returns the kind the store holds.
func (s *Store[T]) Kind() records.Kind { return s.kind }

// All returns a copy of the list.
func (s *Store[T]) All() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of records.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// At returns the record at i.
func (s *Store[T]) At(i int) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.items) {
		var zero T
		return zero, s.notFound(i)
	}
	return s.items[i], nil
}

// Replace swaps the whole list. The store keeps its own copy.
func (s *Store[T]) Replace(items []T) error {
	next := make([]T, len(items))
	copy(next, items)
	return s.mutate(func([]T) ([]T, error) { return next, nil })
}

// Load swaps the whole list without persisting it. It is used when the
// list itself came from the persisted snapshot.
func (s *Store[T]) Load(items []T) {
	next := make([]T, len(items))
	copy(next, items)
	s.mu.Lock()
	s.items = next
	s.mu.Unlock()
}

// Append adds item at the end and returns its index.
func (s *Store[T]) Append(item T) (int, error) {
	var idx int
	err := s.mutate(func(cur []T) ([]T, error) {
		idx = len(cur)
		return append(cur, item), nil
	})
	return idx, err
}

// Set replaces the record at i.
func (s *Store[T]) Set(i int, item T) error {
	return s.mutate(func(cur []T) ([]T, error) {
		if i < 0 || i >= len(cur) {
			return nil, s.notFound(i)
		}
		cur[i] = item
		return cur, nil
	})
}

// Remove deletes the record at i, shifting later records down by one.
func (s *Store[T]) Remove(i int) (T, error) {
	var removed T
	err := s.mutate(func(cur []T) ([]T, error) {
		if i < 0 || i >= len(cur) {
			return nil, s.notFound(i)
		}
		removed = cur[i]
		return append(cur[:i], cur[i+1:]...), nil
	})
	return removed, err
}

// mutate applies fn to a private copy and commits it. The persist hook runs
// under the lock so snapshots are written in mutation order; when it fails
// the in-memory change is kept and the error is returned.
func (s *Store[T]) mutate(fn func(cur []T) ([]T, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := make([]T, len(s.items), len(s.items)+1)
	copy(cur, s.items)
	next, err := fn(cur)
	if err != nil {
		return err
	}
	s.items = next

	if s.persist != nil {
		snapshot := make([]T, len(next))
		copy(snapshot, next)
		if err := s.persist(snapshot); err != nil {
			return errors.WrapResource("persist", string(s.kind), "", err)
		}
	}
	return nil
}

func (s *Store[T]) notFound(i int) error {
	return errors.NewNotFoundError(s.kind.Singular(), strconv.Itoa(i))
}
