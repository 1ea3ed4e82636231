package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/matheusmosca/ecommerce-gateway/pkg/auth"
	"github.com/matheusmosca/ecommerce-gateway/pkg/config"
	"github.com/matheusmosca/ecommerce-gateway/pkg/gatewaytrust"
	"github.com/matheusmosca/ecommerce-gateway/pkg/logger"
	"github.com/matheusmosca/ecommerce-gateway/pkg/server"
	"github.com/matheusmosca/ecommerce-gateway/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("api-gateway", "5003")
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
		log.Error("gateway stopped", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

// upstreams lists the internal services by the path segment that selects them.
func upstreams(cfg config.Gateway) []Upstream {
	return []Upstream{
		{Prefix: "authentication", URL: cfg.AuthURL},
		{Prefix: "products", URL: cfg.ProductsURL},
		{Prefix: "orders", URL: cfg.OrdersURL},
	}
}

// newRouter assembles the edge chain: failure translation, request id,
// rate limit, trust stamp, then the proxy.
func newRouter(cfg *config.Config, gw *Gateway, limiter *RateLimiter, log *zap.Logger) *gin.Engine {
	r := server.NewRouter(cfg.ServiceName, log)
	api := r.Group("/api",
		RequestID(),
		limiter.Middleware(),
		gatewaytrust.Stamper(gatewaytrust.FromConfig(cfg.Trust)),
	)
	api.Any("/*path", gw.Forward)
	return r
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

	gw, err := NewGateway(upstreams(cfg.Gateway), log)
	if err != nil {
		return err
	}

	limiter := NewRateLimiter(cfg.Gateway.RateLimitRPS, cfg.Gateway.RateLimitBurst, ByUser(auth.NewVerifier(cfg.JWT)), log)
	go limiter.RunSweeper(ctx, time.Minute)

	return server.Run(ctx, ":"+cfg.Port, newRouter(cfg, gw, limiter, log), log)
}
