package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

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
	cfg, err := config.Load("authentication-service", "5000")
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
		log.Error("authentication service stopped", zap.Error(err))
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

	users, closeStore, err := database.OpenStore(ctx, cfg, log, usersTable, usersSchema)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	useCase := NewUserUseCase(NewUserRepository(users, log), auth.NewIssuer(cfg.JWT), log)
	handler := NewAuthenticationHandler(useCase)

	r := server.NewRouter(cfg.ServiceName, log)
	api := r.Group("/api", gatewaytrust.Verifier(gatewaytrust.FromConfig(cfg.Trust), log))
	handler.Register(api, auth.NewVerifier(cfg.JWT))

	return server.Run(ctx, ":"+cfg.Port, r, log)
}
