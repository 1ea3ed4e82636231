// Package database opens the PostgreSQL handle a service's record store
// runs on.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/matheusmosca/ecommerce-gateway/pkg/config"
)

const uniqueViolation = "23505"

// DB is a database/sql handle; with the pgx driver it is backed by a pgxpool.
type DB struct {
	*sql.DB
	pool *pgxpool.Pool
}

// Close closes the database handle and, for pgx, the pool behind it.
func (d *DB) Close() error {
	err := d.DB.Close()
	if d.pool != nil {
		d.pool.Close()
	}
	return err
}

// Open connects with the configured driver and waits until the server
// answers a ping.
func Open(ctx context.Context, cfg config.Database, log *zap.Logger) (*DB, error) {
	log = log.Named("database")

	var db *DB
	switch cfg.Driver {
	case "postgres":
		sqlDB, err := sql.Open("postgres", cfg.DSN())
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		sqlDB.SetMaxOpenConns(cfg.MaxConns)
		sqlDB.SetConnMaxLifetime(time.Hour)
		sqlDB.SetConnMaxIdleTime(30 * time.Minute)
		db = &DB{DB: sqlDB}
	default:
		poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to parse database config: %w", err)
		}
		poolCfg.MaxConns = int32(cfg.MaxConns)
		poolCfg.MaxConnLifetime = time.Hour
		poolCfg.MaxConnIdleTime = 30 * time.Minute
		poolCfg.HealthCheckPeriod = time.Minute

		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create connection pool: %w", err)
		}
		db = &DB{DB: stdlib.OpenDBFromPool(pool), pool: pool}
	}

	if err := WaitReady(ctx, db.DB, cfg.ReadyAttempts, time.Second, log); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Info("connected to database", zap.String("driver", cfg.Driver), zap.String("name", cfg.Name))
	return db, nil
}

// WaitReady pings db up to attempts times, interval apart.
func WaitReady(ctx context.Context, db *sql.DB, attempts int, interval time.Duration, log *zap.Logger) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := range attempts {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		log.Info("waiting for database", zap.Int("attempt", i+1), zap.Int("of", attempts), zap.Error(err))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return fmt.Errorf("database not ready after %d attempts: %w", attempts, err)
}

// EnsureSchema runs idempotent DDL statements in order.
func EnsureSchema(ctx context.Context, db *sql.DB, statements ...string) error {
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// IsUniqueViolation reports whether err is a unique constraint failure
// from either driver.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}
