package config

import (
	"fmt"
	"net/url"
	"time"

	pkgconfig "github.com/pnll1991/expedicion-andina/pkg/config"
)

// Config holds all configuration for the reviews service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8080"`

	// Google Places. An empty key switches the endpoint to degraded mode.
	PlacesAPIKey  string        `env:"GOOGLE_PLACES_API_KEY"`
	PlacesBaseURL string        `env:"PLACES_BASE_URL" envDefault:"https://maps.googleapis.com"`
	PlacesTimeout time.Duration `env:"PLACES_TIMEOUT" envDefault:"10s"`

	// Circuit breaker around the Places client
	BreakerEnabled      bool          `env:"PLACES_BREAKER_ENABLED" envDefault:"true"`
	BreakerTimeout      time.Duration `env:"PLACES_BREAKER_TIMEOUT" envDefault:"30s"`
	BreakerFailureRatio float64       `env:"PLACES_BREAKER_FAILURE_RATIO" envDefault:"0.5"`
	BreakerMinRequests  uint32        `env:"PLACES_BREAKER_MIN_REQUESTS" envDefault:"5"`

	// Rate limiting on /api
	RateLimitRPS   int  `env:"RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst int  `env:"RATE_LIMIT_BURST" envDefault:"20"`
	TrustProxy     bool `env:"RATE_LIMIT_TRUST_PROXY" envDefault:"false"`

	// CORS
	CORSAllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	CORSAllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`
	CORSMaxAge           int      `env:"CORS_MAX_AGE" envDefault:"3600"`

	// OpenTelemetry
	OTELEnabled     bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint    string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELInsecure    bool    `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"true"`
	OTELSampleRate  float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
	OTELServiceName string  `env:"OTEL_SERVICE_NAME" envDefault:"reviews-gateway"`
	ServiceVersion  string  `env:"SERVICE_VERSION" envDefault:"0.1.0"`

	// Operational endpoints
	MetricsAllowedCIDRs []string `env:"METRICS_ALLOWED_CIDRS" envSeparator:"," envDefault:"127.0.0.0/8,10.0.0.0/8,172.16.0.0/12,192.168.0.0/16,::1/128"`
	PprofAllowedCIDRs   []string `env:"PPROF_ALLOWED_CIDRS" envSeparator:"," envDefault:"127.0.0.0/8,::1/128"`

	GoogleMapsURL string `env:"GOOGLE_MAPS_URL" envDefault:"https://maps.app.goo.gl/DjfZtzKqLkPWHVVg8"`
}

// Load reads configuration from an optional .env file and the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.LoadWithDotenv(cfg); err != nil {
		return nil, fmt.Errorf("load reviews config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// PlacesConfigured reports whether live Google calls are possible.
func (c *Config) PlacesConfigured() bool {
	return c.PlacesAPIKey != ""
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.HTTPPort)
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0 and 1, got %g", c.OTELSampleRate)
	}
	if c.BreakerFailureRatio <= 0 || c.BreakerFailureRatio > 1 {
		return fmt.Errorf("PLACES_BREAKER_FAILURE_RATIO must be in (0, 1], got %g", c.BreakerFailureRatio)
	}
	if c.PlacesTimeout <= 0 {
		return fmt.Errorf("PLACES_TIMEOUT must be positive, got %s", c.PlacesTimeout)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	if u, err := url.Parse(c.PlacesBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("PLACES_BASE_URL must be an absolute URL, got %q", c.PlacesBaseURL)
	}
	return nil
}
