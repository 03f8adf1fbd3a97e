package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Auth          AuthConfig
	Authz         AuthzConfig
	Observability ObservabilityConfig
	RateLimit     RateLimitConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port         string        `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"15s"`
	IdleTimeout  time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"60s"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `envconfig:"DB_HOST" default:"localhost"`
	Port            string        `envconfig:"DB_PORT" default:"5432"`
	User            string        `envconfig:"DB_USER" default:"troopdeck"`
	Password        string        `envconfig:"DB_PASSWORD" required:"true"`
	Database        string        `envconfig:"DB_NAME" default:"troopdeck"`
	SSLMode         string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
}

// AuthConfig holds token verification configuration
type AuthConfig struct {
	TokenSecret   string        `envconfig:"AUTH_TOKEN_SECRET" required:"true"`
	TokenIssuer   string        `envconfig:"AUTH_TOKEN_ISSUER" default:"troopdeck"`
	TokenLifetime time.Duration `envconfig:"AUTH_TOKEN_LIFETIME" default:"1h"`
}

// AuthzConfig holds permission evaluator configuration
type AuthzConfig struct {
	CacheSize int `envconfig:"AUTHZ_CACHE_SIZE" default:"4096"`
}

// ObservabilityConfig holds logging and tracing configuration
type ObservabilityConfig struct {
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat      string `envconfig:"LOG_FORMAT" default:"json"`
	OTELEnabled    bool   `envconfig:"OTEL_ENABLED" default:"false"`
	ServiceName    string `envconfig:"OTEL_SERVICE_NAME" default:"troopdeck"`
	ServiceVersion string `envconfig:"OTEL_SERVICE_VERSION" default:"0.1.0"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerSecond float64 `envconfig:"RATELIMIT_RPS" default:"10"`
	Burst             int     `envconfig:"RATELIMIT_BURST" default:"20"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.Auth.TokenSecret) < 32 {
		return fmt.Errorf("AUTH_TOKEN_SECRET must be at least 32 bytes")
	}
	if c.Authz.CacheSize <= 0 {
		return fmt.Errorf("AUTHZ_CACHE_SIZE must be positive")
	}
	return nil
}
