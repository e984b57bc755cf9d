package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the demo service configuration.
type Config struct {
	Port        string `env:"PORT"         envDefault:"3000"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"my-service"`
	Version     string `env:"VERSION"      envDefault:"1.0.0"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL"    envDefault:"info"`

	WarmupDelay         time.Duration `env:"WARMUP_DELAY"          envDefault:"1s"`
	WarmupRetryInterval time.Duration `env:"WARMUP_RETRY_INTERVAL" envDefault:"1s"`
	ShutdownTimeout     time.Duration `env:"SHUTDOWN_TIMEOUT"      envDefault:"10s"`

	// Optional dependencies. Each one left empty is not probed during warm-up.
	PostgresDSN string           `env:"POSTGRES_DSN"`
	ClickHouse  ClickHouseConfig `envPrefix:"CLICKHOUSE_"`
	MinIO       MinIOConfig      `envPrefix:"MINIO_"`
	UpstreamURL string           `env:"UPSTREAM_URL"`
}

type ClickHouseConfig struct {
	Host     string `env:"HOST"`
	Port     string `env:"PORT"     envDefault:"9000"`
	User     string `env:"USER"     envDefault:"default"`
	Password string `env:"PASSWORD"`
	Database string `env:"DATABASE" envDefault:"default"`
}

type MinIOConfig struct {
	Endpoint  string `env:"ENDPOINT"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Bucket    string `env:"BUCKET"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
	Region    string `env:"REGION"`
}

// ScaffoldConfig holds the values a generated skeleton service is parameterized with.
type ScaffoldConfig struct {
	Port            string        `env:"PORT"             envDefault:"3000"`
	Name            string        `env:"NAME"             envDefault:"my-service"`
	Description     string        `env:"DESCRIPTION"`
	Version         string        `env:"VERSION"          envDefault:"1.0.0"`
	Environment     string        `env:"ENVIRONMENT"      envDefault:"development"`
	LogLevel        string        `env:"LOG_LEVEL"        envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type ErrInvalidValue struct {
	Name   string
	Reason string
}

func (e *ErrInvalidValue) Error() string {
	return fmt.Sprintf("invalid value for environment variable %q: %s", e.Name, e.Reason)
}

// Load reads the demo service configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadScaffold reads the scaffold service configuration from environment variables.
func LoadScaffold() (*ScaffoldConfig, error) {
	var cfg ScaffoldConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.ShutdownTimeout <= 0 {
		return nil, &ErrInvalidValue{Name: "SHUTDOWN_TIMEOUT", Reason: "must be positive"}
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.WarmupDelay < 0 {
		return &ErrInvalidValue{Name: "WARMUP_DELAY", Reason: "must not be negative"}
	}
	if c.WarmupRetryInterval <= 0 {
		return &ErrInvalidValue{Name: "WARMUP_RETRY_INTERVAL", Reason: "must be positive"}
	}
	if c.ShutdownTimeout <= 0 {
		return &ErrInvalidValue{Name: "SHUTDOWN_TIMEOUT", Reason: "must be positive"}
	}
	if c.MinIO.Endpoint != "" && c.MinIO.Bucket == "" {
		return &ErrInvalidValue{Name: "MINIO_BUCKET", Reason: "required when MINIO_ENDPOINT is set"}
	}

	return nil
}
