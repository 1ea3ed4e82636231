// Package server holds the router and listener setup every service shares.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/matheusmosca/ecommerce-gateway/pkg/failure"
	"github.com/matheusmosca/ecommerce-gateway/pkg/logger"
)

// NewRouter returns a gin engine with request logging, failure translation
// and tracing installed, plus an unguarded GET /health.
func NewRouter(service string, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(
		logger.Middleware(log),
		failure.Translate(log),
		otelgin.Middleware(service),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": service,
		})
	})
	return r
}

// Run serves h on addr until ctx is done, then drains in-flight requests.
func Run(ctx context.Context, addr string, h http.Handler, log *zap.Logger) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
