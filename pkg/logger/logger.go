// Package logger builds the zap logger every service receives at construction.
package logger

import (
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects the log level and the optional rolling file sink.
type Config struct {
	Level      string `env:"LOG_LEVEL,default=info"`
	File       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_FILE_MAX_SIZE_MB,default=50"`
	MaxAgeDays int    `env:"LOG_FILE_MAX_AGE_DAYS,default=7"`
}

// New returns a logger writing JSON to stdout at the configured level and,
// when a file is configured, to a rotating file at info level and above.
// The returned logger must be synced by the caller on shutdown.
func New(service string, cfg Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.Lock(os.Stdout), level),
	}

	if cfg.File != "" {
		sink := &lumberjack.Logger{
			Filename:  cfg.File,
			MaxSize:   cfg.MaxSizeMB,
			MaxAge:    cfg.MaxAgeDays,
			LocalTime: true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(sink), zapcore.InfoLevel))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()).With(zap.String("service", service)), nil
}

// Middleware logs one line per request once the handler chain has finished.
func Middleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetHeader(RequestIDHeader)),
		)
	}
}

// RequestIDHeader carries the id the gateway assigns to every inbound request.
const RequestIDHeader = "X-Request-ID"
