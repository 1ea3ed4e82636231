// Package sqlstore implements store.Store on database/sql with PostgreSQL
// placeholders.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/matheusmosca/ecommerce-gateway/pkg/store"
)

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// Table maps an entity onto a table with a serial integer key.
type Table[T store.Entity[T]] struct {
	Name string
	Key  string
	// Columns lists the non-key columns in the order Values returns them.
	Columns []string
	Values  func(T) []any
	// Scan reads the key column followed by Columns.
	Scan func(Scanner) (T, error)
}

func (t Table[T]) selectColumns() string {
	return strings.Join(append([]string{t.Key}, t.Columns...), ", ")
}

func (t Table[T]) hasColumn(name string) bool {
	return name == t.Key || slices.Contains(t.Columns, name)
}

// Store maps a Table onto database/sql.
type Store[T store.Entity[T]] struct {
	db    *sql.DB
	table Table[T]
}

// New returns a Store for table over db.
func New[T store.Entity[T]](db *sql.DB, table Table[T]) *Store[T] {
	return &Store[T]{db: db, table: table}
}

// Insert lets the database assign the id and returns e with it.
func (s *Store[T]) Insert(ctx context.Context, e T) (T, error) {
	placeholders := make([]string, len(s.table.Columns))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		s.table.Name, strings.Join(s.table.Columns, ", "), strings.Join(placeholders, ", "), s.table.Key)

	var id int
	if err := s.db.QueryRowContext(ctx, query, s.table.Values(e)...).Scan(&id); err != nil {
		var zero T
		return zero, fmt.Errorf("insert into %s: %w", s.table.Name, err)
	}
	return e.WithKey(id), nil
}

// Update returns store.ErrNotFound when no row has e's id.
func (s *Store[T]) Update(ctx context.Context, e T) error {
	sets := make([]string, len(s.table.Columns))
	for i, col := range s.table.Columns {
		sets[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		s.table.Name, strings.Join(sets, ", "), s.table.Key, len(sets)+1)

	args := append(s.table.Values(e), e.Key())
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", s.table.Name, err)
	}
	return requireAffected(res)
}

// Delete returns store.ErrNotFound when no row has id.
func (s *Store[T]) Delete(ctx context.Context, id int) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", s.table.Name, s.table.Key)
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", s.table.Name, err)
	}
	return requireAffected(res)
}

func (s *Store[T]) Get(ctx context.Context, id int) (T, bool, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", s.table.selectColumns(), s.table.Name, s.table.Key)
	return s.one(ctx, query, id)
}

func (s *Store[T]) List(ctx context.Context) ([]T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s", s.table.selectColumns(), s.table.Name, s.table.Key)
	return s.many(ctx, query)
}

// Filter runs an equality query on p.Field, which must be a table column.
func (s *Store[T]) Filter(ctx context.Context, p store.Predicate[T]) ([]T, error) {
	if !s.table.hasColumn(p.Field) {
		return nil, fmt.Errorf("filter %s: unknown column %q", s.table.Name, p.Field)
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 ORDER BY %s",
		s.table.selectColumns(), s.table.Name, p.Field, s.table.Key)
	return s.many(ctx, query, p.Value)
}

func (s *Store[T]) First(ctx context.Context, p store.Predicate[T]) (T, bool, error) {
	if !s.table.hasColumn(p.Field) {
		var zero T
		return zero, false, fmt.Errorf("filter %s: unknown column %q", s.table.Name, p.Field)
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 ORDER BY %s LIMIT 1",
		s.table.selectColumns(), s.table.Name, p.Field, s.table.Key)
	return s.one(ctx, query, p.Value)
}

func (s *Store[T]) one(ctx context.Context, query string, args ...any) (T, bool, error) {
	e, err := s.table.Scan(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		var zero T
		return zero, false, nil
	}
	if err != nil {
		var zero T
		return zero, false, fmt.Errorf("query %s: %w", s.table.Name, err)
	}
	return e, true, nil
}

func (s *Store[T]) many(ctx context.Context, query string, args ...any) ([]T, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table.Name, err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		e, err := s.table.Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.table.Name, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
