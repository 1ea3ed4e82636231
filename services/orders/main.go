package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/matheusmosca/ecommerce-gateway/pkg/auth"
	"github.com/matheusmosca/ecommerce-gateway/pkg/config"
	"github.com/matheusmosca/ecommerce-gateway/pkg/database"
	"github.com/matheusmosca/ecommerce-gateway/pkg/gatewaytrust"
	"github.com/matheusmosca/ecommerce-gateway/pkg/logger"
	"github.com/matheusmosca/ecommerce-gateway/pkg/remote"
	"github.com/matheusmosca/ecommerce-gateway/pkg/server"
	"github.com/matheusmosca/ecommerce-gateway/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("orders-service", "5002")
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
		log.Error("orders service stopped", zap.Error(err))
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

	orders, closeStore, err := database.OpenStore(ctx, cfg, log, ordersTable, ordersSchema)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	trust := gatewaytrust.FromConfig(cfg.Trust)
	client := remote.NewClient(remote.Options{
		BaseURL: cfg.Gateway.BaseURL,
		Timeout: cfg.Retry.CallTimeout,
		Token:   trust,
		Policy:  remote.PolicyFromConfig(cfg.Retry),
	}, log)
	gateway := NewGatewayClient(client)

	repository := NewOrderRepository(orders, log)
	useCase := NewOrderUseCase(repository, gateway, gateway, log)
	handler := NewOrderHandler(useCase, otel.Tracer(cfg.ServiceName))

	r := server.NewRouter(cfg.ServiceName, log)
	api := r.Group("/api",
		gatewaytrust.Verifier(trust, log),
		auth.RequireBearer(auth.NewVerifier(cfg.JWT)),
	)
	handler.Register(api)

	return server.Run(ctx, ":"+cfg.Port, r, log)
}
