// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"

	"github.com/matheusmosca/ecommerce-gateway/pkg/logger"
)

// Config is shared by every service; each process reads the sections it needs.
type Config struct {
	ServiceName string `env:"SERVICE_NAME"`
	Port        string `env:"PORT"`

	// StoreBackend selects the record store: "postgres" or "memory".
	StoreBackend string `env:"STORE_BACKEND,default=postgres"`

	Log       logger.Config
	Database  Database
	Redis     Redis
	Telemetry Telemetry
	Trust     Trust
	JWT       JWT
	Gateway   Gateway
	Retry     Retry
}

// Database holds the connection settings of the record store.
type Database struct {
	// Driver is "pgx" (pgxpool) or "postgres" (lib/pq).
	Driver   string `env:"DATABASE_DRIVER,default=pgx"`
	Host     string `env:"DATABASE_HOST,default=localhost"`
	Port     string `env:"DATABASE_PORT,default=5432"`
	User     string `env:"DATABASE_USER,default=root"`
	Password string `env:"DATABASE_PASSWORD,default=pass"`
	Name     string `env:"DATABASE_NAME"`
	MaxConns int    `env:"DATABASE_MAX_CONNS,default=10"`
	// ReadyAttempts bounds the startup ping loop, one attempt per second.
	ReadyAttempts int `env:"DATABASE_READY_ATTEMPTS,default=30"`
}

// DSN returns a postgres URL understood by both drivers.
func (d Database) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", d.User, d.Password, d.Host, d.Port, d.Name)
}

// Redis configures the product cache.
type Redis struct {
	// Addr enables the product cache when set.
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,default=0"`
	TTL      time.Duration `env:"REDIS_CACHE_TTL,default=1m"`
}

// Telemetry configures the OTLP exporters.
type Telemetry struct {
	Enabled  bool   `env:"OTEL_ENABLED,default=false"`
	Endpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT,default=localhost:4318"`
	Version  string `env:"SERVICE_VERSION,default=1.0.0"`
}

// Trust names the header the gateway stamps on forwarded requests.
type Trust struct {
	Header string `env:"GATEWAY_TRUST_HEADER,default=Api-Gateway"`
	Value  string `env:"GATEWAY_TRUST_VALUE,default=Signed"`
}

// JWT configures token signing and verification.
type JWT struct {
	Secret   string        `env:"JWT_SECRET,default=change-me-in-production-please-32b"`
	Issuer   string        `env:"JWT_ISSUER,default=ecommerce-authentication"`
	Audience string        `env:"JWT_AUDIENCE,default=ecommerce"`
	TTL      time.Duration `env:"JWT_TTL,default=24h"`
}

// Gateway holds the edge settings and where the internal services live.
type Gateway struct {
	// BaseURL is how internal services reach the gateway.
	BaseURL        string  `env:"GATEWAY_BASE_URL,default=http://localhost:5003"`
	AuthURL        string  `env:"AUTHENTICATION_SERVICE_URL,default=http://localhost:5000"`
	ProductsURL    string  `env:"PRODUCTS_SERVICE_URL,default=http://localhost:5001"`
	OrdersURL      string  `env:"ORDERS_SERVICE_URL,default=http://localhost:5002"`
	RateLimitRPS   float64 `env:"GATEWAY_RATE_LIMIT_RPS,default=10"`
	RateLimitBurst int     `env:"GATEWAY_RATE_LIMIT_BURST,default=20"`
}

// Retry configures remote calls made through the gateway.
type Retry struct {
	MaxAttempts int           `env:"RETRY_MAX_ATTEMPTS,default=4"`
	BaseDelay   time.Duration `env:"RETRY_BASE_DELAY,default=500ms"`
	Backoff     string        `env:"RETRY_BACKOFF,default=constant"`
	Jitter      bool          `env:"RETRY_JITTER,default=true"`
	CallTimeout time.Duration `env:"REMOTE_CALL_TIMEOUT,default=1s"`
}

// Load reads an optional .env file and decodes the environment. Service
// name, port and database name fall back to the given defaults.
func Load(service, port string) (*Config, error) {
	// .env is optional; a missing file is fine.
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = service
	}
	if cfg.Port == "" {
		cfg.Port = port
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = cfg.ServiceName
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	switch c.Database.Driver {
	case "pgx", "postgres":
	default:
		return fmt.Errorf("unknown DATABASE_DRIVER %q", c.Database.Driver)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("RETRY_MAX_ATTEMPTS must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	if c.Trust.Header == "" || c.Trust.Value == "" {
		return errors.New("gateway trust header and value are required")
	}
	return nil
}
