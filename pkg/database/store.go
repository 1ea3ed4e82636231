package database

import (
	"context"

	"go.uber.org/zap"

	"github.com/matheusmosca/ecommerce-gateway/pkg/config"
	"github.com/matheusmosca/ecommerce-gateway/pkg/store"
	"github.com/matheusmosca/ecommerce-gateway/pkg/store/memory"
	"github.com/matheusmosca/ecommerce-gateway/pkg/store/sqlstore"
)

// OpenStore returns the record store selected by cfg.StoreBackend. For the
// postgres backend the schema statements run first. The returned func
// releases the underlying connection, if any.
func OpenStore[T store.Entity[T]](ctx context.Context, cfg *config.Config, log *zap.Logger, table sqlstore.Table[T], schema ...string) (store.Store[T], func() error, error) {
	if cfg.StoreBackend == "memory" {
		log.Info("using in-memory store", zap.String("table", table.Name))
		return memory.New[T](), func() error { return nil }, nil
	}

	db, err := Open(ctx, cfg.Database, log)
	if err != nil {
		return nil, nil, err
	}
	if err := EnsureSchema(ctx, db.DB, schema...); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return sqlstore.New(db.DB, table), db.Close, nil
}
