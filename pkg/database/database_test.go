package database

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/matheusmosca/ecommerce-gateway/pkg/config"
	"github.com/matheusmosca/ecommerce-gateway/pkg/store/sqlstore"
)

func TestWaitReady_SucceedsAfterRetries(t *testing.T) {
	// Arrange
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectPing()

	// Act
	err = WaitReady(context.Background(), db, 5, time.Millisecond, zap.NewNop())

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWaitReady_GivesUp(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	for range 3 {
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	}

	err = WaitReady(context.Background(), db, 3, time.Millisecond, zap.NewNop())

	assert.ErrorContains(t, err, "not ready after 3 attempts")
}

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS a (id SERIAL PRIMARY KEY)")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS b (id SERIAL PRIMARY KEY)")).
		WillReturnError(errors.New("permission denied"))

	err = EnsureSchema(context.Background(), db,
		"CREATE TABLE IF NOT EXISTS a (id SERIAL PRIMARY KEY)",
		"CREATE TABLE IF NOT EXISTS b (id SERIAL PRIMARY KEY)",
	)

	assert.ErrorContains(t, err, "permission denied")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("duplicate")))
	assert.False(t, IsUniqueViolation(nil))
}

type note struct {
	ID   int
	Text string
}

func (n note) Key() int { return n.ID }

func (n note) WithKey(id int) note {
	n.ID = id
	return n
}

func TestOpenStore_Memory(t *testing.T) {
	cfg := &config.Config{StoreBackend: "memory"}

	s, closeFn, err := OpenStore(context.Background(), cfg, zap.NewNop(), sqlstore.Table[note]{Name: "notes"})
	require.NoError(t, err)
	defer func() { assert.NoError(t, closeFn()) }()

	saved, err := s.Insert(context.Background(), note{Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, 1, saved.ID)
}
