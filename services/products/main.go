package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/matheusmosca/ecommerce-gateway/pkg/auth"
	"github.com/matheusmosca/ecommerce-gateway/pkg/config"
	"github.com/matheusmosca/ecommerce-gateway/pkg/database"
	"github.com/matheusmosca/ecommerce-gateway/pkg/gatewaytrust"
	"github.com/matheusmosca/ecommerce-gateway/pkg/logger"
	"github.com/matheusmosca/ecommerce-gateway/pkg/server"
	"github.com/matheusmosca/ecommerce-gateway/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("products-service", "5001")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.ServiceName, cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Error("products service stopped", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.Init(ctx, cfg.ServiceName, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Warn("telemetry shutdown", zap.Error(err))
		}
	}()

	products, closeStore, err := database.OpenStore(ctx, cfg, log, productsTable, productsSchema)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	var cache ProductCache = noCache{}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() { _ = rdb.Close() }()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, product reads go to the store", zap.Error(err))
		}
		cache = NewRedisCache(rdb, cfg.Redis.TTL)
	}

	repository := NewProductRepository(products, log)
	useCase := NewProductUseCase(repository, cache, log)
	handler := NewProductHandler(useCase)

	r := server.NewRouter(cfg.ServiceName, log)
	api := r.Group("/api", gatewaytrust.Verifier(gatewaytrust.FromConfig(cfg.Trust), log))
	handler.Register(api, auth.NewVerifier(cfg.JWT))

	return server.Run(ctx, ":"+cfg.Port, r, log)
}
