// Package memory implements an in-memory store.Store.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/matheusmosca/ecommerce-gateway/pkg/store"
)

// Store keeps records in a map guarded by a RWMutex. Ids are assigned
// in insertion order starting at 1.
type Store[T store.Entity[T]] struct {
	mu      sync.RWMutex
	records map[int]T
	nextID  int
}

// New returns an empty Store.
func New[T store.Entity[T]]() *Store[T] {
	return &Store[T]{records: make(map[int]T), nextID: 1}
}

// Insert assigns the next id unless e already carries one.
func (s *Store[T]) Insert(ctx context.Context, e T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := e.Key()
	if id <= 0 {
		id = s.nextID
		e = e.WithKey(id)
	}
	if _, ok := s.records[id]; ok {
		var zero T
		return zero, store.ErrConflict
	}
	s.records[id] = e
	if id >= s.nextID {
		s.nextID = id + 1
	}
	return e, nil
}

func (s *Store[T]) Update(ctx context.Context, e T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[e.Key()]; !ok {
		return store.ErrNotFound
	}
	s.records[e.Key()] = e
	return nil
}

func (s *Store[T]) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

func (s *Store[T]) Get(ctx context.Context, id int) (T, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.records[id]
	return e, ok, nil
}

// List returns every record ordered by id.
func (s *Store[T]) List(ctx context.Context) ([]T, error) {
	return s.Filter(ctx, store.Predicate[T]{})
}

// Filter applies p.Match; a predicate without Match selects everything.
func (s *Store[T]) Filter(ctx context.Context, p store.Predicate[T]) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0, len(s.records))
	for _, e := range s.records {
		if p.Match == nil || p.Match(e) {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b T) int { return a.Key() - b.Key() })
	return out, nil
}

// First returns the lowest-id record matching p.
func (s *Store[T]) First(ctx context.Context, p store.Predicate[T]) (T, bool, error) {
	matches, err := s.Filter(ctx, p)
	if err != nil || len(matches) == 0 {
		var zero T
		return zero, false, err
	}
	return matches[0], true, nil
}
