package sqlstore

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheusmosca/ecommerce-gateway/pkg/store"
)

type widget struct {
	ID    int
	Owner int
	Name  string
}

func (w widget) Key() int { return w.ID }

func (w widget) WithKey(id int) widget {
	w.ID = id
	return w
}

var widgets = Table[widget]{
	Name:    "widgets",
	Key:     "id",
	Columns: []string{"owner_id", "name"},
	Values:  func(w widget) []any { return []any{w.Owner, w.Name} },
	Scan: func(s Scanner) (widget, error) {
		var w widget
		err := s.Scan(&w.ID, &w.Owner, &w.Name)
		return w, err
	},
}

var _ store.Store[widget] = (*Store[widget])(nil)

func newMockStore(t *testing.T) (*Store[widget], sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db, widgets), mock
}

func TestInsert(t *testing.T) {
	// Arrange
	s, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO widgets (owner_id, name) VALUES ($1, $2) RETURNING id")).
		WithArgs(3, "bolt").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))

	// Act
	got, err := s.Insert(context.Background(), widget{Owner: 3, Name: "bolt"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, widget{ID: 12, Owner: 3, Name: "bolt"}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate(t *testing.T) {
	s, mock := newMockStore(t)
	query := regexp.QuoteMeta("UPDATE widgets SET owner_id = $1, name = $2 WHERE id = $3")

	mock.ExpectExec(query).WithArgs(3, "nut", 12).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.Update(context.Background(), widget{ID: 12, Owner: 3, Name: "nut"}))

	mock.ExpectExec(query).WithArgs(3, "nut", 99).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, s.Update(context.Background(), widget{ID: 99, Owner: 3, Name: "nut"}), store.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	s, mock := newMockStore(t)
	query := regexp.QuoteMeta("DELETE FROM widgets WHERE id = $1")

	mock.ExpectExec(query).WithArgs(12).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.Delete(context.Background(), 12))

	mock.ExpectExec(query).WithArgs(13).WillReturnError(errors.New("connection reset"))
	err := s.Delete(context.Background(), 13)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGet(t *testing.T) {
	s, mock := newMockStore(t)
	query := regexp.QuoteMeta("SELECT id, owner_id, name FROM widgets WHERE id = $1")

	mock.ExpectQuery(query).WithArgs(12).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "name"}).AddRow(12, 3, "bolt"))
	got, ok, err := s.Get(context.Background(), 12)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "bolt", got.Name)

	mock.ExpectQuery(query).WithArgs(999).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "name"}))
	_, ok, err = s.Get(context.Background(), 999)
	require.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectQuery(query).WithArgs(5).WillReturnError(errors.New("server closed the connection"))
	_, ok, err = s.Get(context.Background(), 5)
	assert.Error(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAndFilter(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, owner_id, name FROM widgets ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "name"}).
			AddRow(1, 3, "bolt").
			AddRow(2, 4, "nut"))
	all, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, owner_id, name FROM widgets WHERE owner_id = $1 ORDER BY id")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "name"}).AddRow(1, 3, "bolt"))
	owned, err := s.Filter(context.Background(), store.Where("owner_id", 3, func(w widget) bool { return w.Owner == 3 }))
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, 1, owned[0].ID)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, owner_id, name FROM widgets WHERE name = $1 ORDER BY id LIMIT 1")).
		WithArgs("washer").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "name"}))
	_, ok, err := s.First(context.Background(), store.Where("name", "washer", func(w widget) bool { return w.Name == "washer" }))
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFilter_RejectsUnknownColumn(t *testing.T) {
	s, mock := newMockStore(t)

	_, err := s.Filter(context.Background(), store.Where("name; DROP TABLE widgets", 1, func(widget) bool { return true }))

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
