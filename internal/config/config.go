package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/DannyJSullivan/card-inventory-api/pkg/config"
	"github.com/DannyJSullivan/card-inventory-api/pkg/database"
	"github.com/DannyJSullivan/card-inventory-api/pkg/tracing"
)

// ServiceName identifies this process in logs, metrics and traces.
const ServiceName = "cardinventory"

const minProductionSecretLen = 32

// Config holds all configuration for the card inventory API.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8000"`

	// PostgreSQL
	DatabaseURL           string `env:"DATABASE_URL,required,notEmpty"`
	DBMaxConns            int32  `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns            int32  `env:"DB_MIN_CONNS" envDefault:"2"`
	DBMaxConnLifetimeMins int    `env:"DB_MAX_CONN_LIFETIME_MINS" envDefault:"60"`
	DBMaxConnIdleTimeMins int    `env:"DB_MAX_CONN_IDLE_TIME_MINS" envDefault:"30"`
	SlowQueryThresholdMS  int    `env:"SLOW_QUERY_THRESHOLD_MS" envDefault:"0"`

	// Tokens and credentials
	SecretKey                string `env:"SECRET_KEY,required,notEmpty"`
	Algorithm                string `env:"ALGORITHM" envDefault:"HS256"`
	AccessTokenExpireMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"30"`
	BcryptCost               int    `env:"BCRYPT_COST" envDefault:"12"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173,http://127.0.0.1:5173" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// TokenConfig is the subset of Config the token codec is built from.
type TokenConfig struct {
	SecretKey string
	Algorithm string
	TTL       time.Duration
}

// Load reads configuration from the process environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFrom is like Load but reads from vars instead of the environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.LoadFrom(cfg, vars); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and cross-field constraints.
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	switch c.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("ALGORITHM must be one of HS256, HS384, HS512, got %q", c.Algorithm)
	}
	if c.AccessTokenExpireMinutes <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive, got %d", c.AccessTokenExpireMinutes)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost)
	}
	if c.DBMaxConns < 1 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("invalid pool bounds: min %d, max %d", c.DBMinConns, c.DBMaxConns)
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be within [0, 1], got %v", c.OTELSampleRate)
	}

	// Outside development, require a strong secret.
	if !c.IsDevelopment() && len(c.SecretKey) < minProductionSecretLen {
		return fmt.Errorf("SECRET_KEY must be at least %d characters in %q mode, got %d",
			minProductionSecretLen, c.Environment, len(c.SecretKey))
	}
	return nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Token returns the token codec settings.
func (c *Config) Token() TokenConfig {
	return TokenConfig{
		SecretKey: c.SecretKey,
		Algorithm: c.Algorithm,
		TTL:       time.Duration(c.AccessTokenExpireMinutes) * time.Minute,
	}
}

// Postgres returns the connection pool settings.
func (c *Config) Postgres() database.PostgresConfig {
	return database.PostgresConfig{
		URL:             c.DatabaseURL,
		MaxConns:        c.DBMaxConns,
		MinConns:        c.DBMinConns,
		MaxConnLifetime: time.Duration(c.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime: time.Duration(c.DBMaxConnIdleTimeMins) * time.Minute,
	}
}

// SlowQueryThreshold returns the slow-query log threshold; zero disables it.
func (c *Config) SlowQueryThreshold() time.Duration {
	return time.Duration(c.SlowQueryThresholdMS) * time.Millisecond
}

// Tracing returns the OpenTelemetry settings.
func (c *Config) Tracing(version string) tracing.Config {
	return tracing.Config{
		ServiceName:    ServiceName,
		ServiceVersion: version,
		Environment:    c.Environment,
		OTLPEndpoint:   c.OTELEndpoint,
		SampleRate:     c.OTELSampleRate,
		Enabled:        c.OTELEnabled,
	}
}
