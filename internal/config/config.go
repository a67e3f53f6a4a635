package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/afmejia23/reviews-and-ratings/pkg/config"
)

// Config holds all configuration for the reviews widget service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"WIDGET_HTTP_PORT" envDefault:"8012"`

	// Upstream catalog reviews API
	CatalogAPIURL     string        `env:"CATALOG_API_URL" envDefault:"http://localhost:8001"`
	CatalogAPITimeout time.Duration `env:"CATALOG_API_TIMEOUT" envDefault:"10s"`

	// Redis (widget session store)
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Widget session TTL
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"1h"`

	// Kafka (analytics events)
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// CORS: storefront origins allowed to embed the widget
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Rate limiting
	RateLimitRPS   int `env:"RATE_LIMIT_RPS" envDefault:"50"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST" envDefault:"100"`

	// Tracing
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"0.1"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load widget config: %w", err)
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
	if c.CatalogAPIURL == "" {
		return fmt.Errorf("CATALOG_API_URL is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.OTELSampleRate < 0.0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0")
	}
	return nil
}
