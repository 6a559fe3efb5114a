package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/doltnamn-se/doltnamn/pkg/config"
	"github.com/doltnamn-se/doltnamn/pkg/database"
	"github.com/doltnamn-se/doltnamn/pkg/middleware"
	"github.com/doltnamn-se/doltnamn/pkg/tracing"
)

// ServiceName identifies the privacy service in logs, metrics and traces.
const ServiceName = "privacy-service"

const defaultJWTSecret = "change-this-to-a-secure-secret"

// Config holds all configuration for the privacy service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Version     string `env:"SERVICE_VERSION" envDefault:"dev"`

	// HTTP server
	HTTPPort        int           `env:"PRIVACY_HTTP_PORT" envDefault:"8010"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	// PostgreSQL
	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"doltnamn"`
	PostgresPass     string `env:"POSTGRES_PASSWORD" envDefault:"doltnamn_secret"`
	PostgresDB       string `env:"PRIVACY_DB_NAME" envDefault:"privacy_db"`
	PostgresSSL      string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`
	PostgresMaxConns int32  `env:"POSTGRES_MAX_CONNS" envDefault:"20"`

	// Redis
	RedisHost string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka
	KafkaBrokers      []string      `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	KafkaMaxRetries   int           `env:"KAFKA_CONSUMER_MAX_RETRIES" envDefault:"3"`
	KafkaRetryBackoff time.Duration `env:"KAFKA_CONSUMER_RETRY_BACKOFF" envDefault:"1s"`

	// JWT
	JWTSecret string        `env:"JWT_SECRET" envDefault:"change-this-to-a-secure-secret"`
	JWTIssuer string        `env:"JWT_ISSUER" envDefault:""`
	JWTLeeway time.Duration `env:"JWT_LEEWAY" envDefault:"30s"`

	// Guide catalog
	GuideCatalogURL     string        `env:"GUIDE_CATALOG_URL,required"`
	GuideCatalogTimeout time.Duration `env:"GUIDE_CATALOG_TIMEOUT" envDefault:"3s"`

	// Store access
	StoreTimeout       time.Duration `env:"STORE_TIMEOUT" envDefault:"3s"`
	ViewCacheTTL       time.Duration `env:"VIEW_CACHE_TTL" envDefault:"5m"`
	SlowQueryThreshold time.Duration `env:"SLOW_QUERY_THRESHOLD" envDefault:"200ms"`

	// Write rate limit per customer
	WriteRateLimit float64 `env:"WRITE_RATE_LIMIT_RPS" envDefault:"5"`
	WriteRateBurst int     `env:"WRITE_RATE_LIMIT_BURST" envDefault:"10"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Tracing
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"0.1"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load privacy config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT must be positive, got %s", c.StoreTimeout)
	}
	if c.WriteRateLimit <= 0 || c.WriteRateBurst < 1 {
		return fmt.Errorf("invalid write rate limit: %g/s burst %d", c.WriteRateLimit, c.WriteRateBurst)
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be within [0,1], got %g", c.OTELSampleRate)
	}

	// Outside development, require an explicitly set, strong JWT secret.
	if !c.IsDevelopment() {
		if c.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be explicitly set via environment variable in %q mode", c.Environment)
		}
		if len(c.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters long, got %d", len(c.JWTSecret))
		}
	}
	return nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Postgres returns the connection pool settings.
func (c *Config) Postgres() *database.PostgresConfig {
	pg := database.DefaultPostgresConfig()
	pg.Host = c.PostgresHost
	pg.Port = c.PostgresPort
	pg.User = c.PostgresUser
	pg.Password = c.PostgresPass
	pg.DBName = c.PostgresDB
	pg.SSLMode = c.PostgresSSL
	if c.PostgresMaxConns > 0 {
		pg.MaxConns = c.PostgresMaxConns
	}
	return &pg
}

// Redis returns the Redis client settings.
func (c *Config) Redis() database.RedisConfig {
	r := database.DefaultRedisConfig()
	r.Host = c.RedisHost
	r.Port = c.RedisPort
	r.Password = c.RedisPass
	r.DB = c.RedisDB
	r.OpTimeout = c.StoreTimeout
	return r
}

// Tracing returns the OpenTelemetry settings.
func (c *Config) Tracing() tracing.Config {
	t := tracing.DefaultConfig(ServiceName)
	t.ServiceVersion = c.Version
	t.Environment = c.Environment
	t.OTLPEndpoint = c.OTELEndpoint
	t.SampleRate = c.OTELSampleRate
	t.Enabled = c.OTELEnabled
	return t
}

// CORS returns the CORS policy.
func (c *Config) CORS() middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = c.CORSAllowedOrigins
	cors.Environment = c.Environment
	return cors
}

// WriteRateLimitConfig returns the per-customer limit applied to writes.
func (c *Config) WriteRateLimitConfig() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		RequestsPerSecond: c.WriteRateLimit,
		Burst:             c.WriteRateBurst,
	}
}
