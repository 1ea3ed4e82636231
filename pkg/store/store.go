// Package store defines the keyed record store every service persists to.
// Backends live in the memory and sqlstore subpackages.
package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

// Entity is a record addressed by a positive integer key. WithKey returns a
// copy carrying the key the store assigned.
type Entity[T any] interface {
	Key() int
	WithKey(id int) T
}

// Predicate selects records by one field. Field and Value drive SQL
// backends; Match evaluates the same condition in memory.
type Predicate[T any] struct {
	Field string
	Value any
	Match func(T) bool
}

// Where builds a predicate. The SQL store uses field and value, the memory
// store uses match; both must agree.
func Where[T any](field string, value any, match func(T) bool) Predicate[T] {
	return Predicate[T]{Field: field, Value: value, Match: match}
}

// Store is safe for concurrent use. Missing records are reported with a
// false boolean, never with an error; errors mean the store itself failed.
type Store[T Entity[T]] interface {
	// Insert assigns a key when the entity has none and returns the stored copy.
	Insert(ctx context.Context, e T) (T, error)
	// Update replaces the record with the same key, or returns ErrNotFound.
	Update(ctx context.Context, e T) error
	// Delete removes the record, or returns ErrNotFound.
	Delete(ctx context.Context, id int) error
	Get(ctx context.Context, id int) (T, bool, error)
	// List returns every record ordered by key.
	List(ctx context.Context) ([]T, error)
	Filter(ctx context.Context, p Predicate[T]) ([]T, error)
	First(ctx context.Context, p Predicate[T]) (T, bool, error)
}
