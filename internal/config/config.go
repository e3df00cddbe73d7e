// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Health provider names accepted by HEALTH_PROVIDER.
const (
	HealthProviderStatic     = "static"
	HealthProviderPrometheus = "prometheus"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// GRPCAddr is the address the gRPC server listens on (e.g. :8080).
	GRPCAddr string `mapstructure:"GRPC_ADDR"`
	// OpsHTTPAddr serves /healthz, /readyz and /metrics.
	OpsHTTPAddr string `mapstructure:"OPS_HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN. Empty means in-memory repositories.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// RedisURL enables the assignment cache and the distributed rollout lock (e.g. redis://localhost:6379/0).
	RedisURL string `mapstructure:"REDIS_URL"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// OTLPEndpoint is the OTLP gRPC collector (e.g. http://localhost:4317). Empty disables export.
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPInsecure bool   `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
	ServiceName  string `mapstructure:"OTEL_SERVICE_NAME"`

	// Telemetry (optional). When Kafka brokers are set, lifecycle events are also written to Kafka.
	// TelemetryKafkaBrokers is a comma-separated list of Kafka broker addresses (e.g. "localhost:9092").
	TelemetryKafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	TelemetryKafkaTopic   string `mapstructure:"TELEMETRY_KAFKA_TOPIC"`

	// HealthProvider selects where rollout health readings come from: static or prometheus.
	HealthProvider string `mapstructure:"HEALTH_PROVIDER"`
	// PrometheusURL is required when HealthProvider is prometheus.
	PrometheusURL string `mapstructure:"PROMETHEUS_URL"`
	// PromErrorRateQuery, PromLatencyQuery and PromAccuracyQuery override the default PromQL templates.
	PromErrorRateQuery string `mapstructure:"PROM_ERROR_RATE_QUERY"`
	PromLatencyQuery   string `mapstructure:"PROM_LATENCY_QUERY"`
	PromAccuracyQuery  string `mapstructure:"PROM_ACCURACY_QUERY"`

	HealthCheckTimeout    time.Duration `mapstructure:"HEALTH_CHECK_TIMEOUT"`
	EvaluationInterval    time.Duration `mapstructure:"EVALUATION_INTERVAL"`
	EvaluationConcurrency int           `mapstructure:"EVALUATION_CONCURRENCY"`
	EvaluationTimeout     time.Duration `mapstructure:"EVALUATION_TIMEOUT"`
	RolloutLockTTL        time.Duration `mapstructure:"ROLLOUT_LOCK_TTL"`
	AssignmentCacheTTL    time.Duration `mapstructure:"ASSIGNMENT_CACHE_TTL"`
	// ShutdownDrain is how long the server reports NOT_SERVING before it stops accepting calls.
	ShutdownDrain time.Duration `mapstructure:"SHUTDOWN_DRAIN"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("GRPC_ADDR", ":8080")
	v.SetDefault("OPS_HTTP_ADDR", ":9090")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("APP_ENV", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("OTEL_SERVICE_NAME", "ecp")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("TELEMETRY_KAFKA_TOPIC", "ecp-telemetry")
	v.SetDefault("HEALTH_PROVIDER", HealthProviderStatic)
	v.SetDefault("PROMETHEUS_URL", "")
	v.SetDefault("PROM_ERROR_RATE_QUERY", "")
	v.SetDefault("PROM_LATENCY_QUERY", "")
	v.SetDefault("PROM_ACCURACY_QUERY", "")
	v.SetDefault("HEALTH_CHECK_TIMEOUT", "5s")
	v.SetDefault("EVALUATION_INTERVAL", "1m")
	v.SetDefault("EVALUATION_CONCURRENCY", 4)
	v.SetDefault("EVALUATION_TIMEOUT", "30s")
	v.SetDefault("ROLLOUT_LOCK_TTL", "1m")
	v.SetDefault("ASSIGNMENT_CACHE_TTL", "720h")
	v.SetDefault("SHUTDOWN_DRAIN", "5s")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.GRPCAddr == "" {
		return errors.New("config: GRPC_ADDR must be set")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: LOG_LEVEL %q must be one of debug, info, warn, error", c.LogLevel)
	}
	switch c.HealthProvider {
	case HealthProviderStatic:
	case HealthProviderPrometheus:
		if c.PrometheusURL == "" {
			return errors.New("config: PROMETHEUS_URL must be set when HEALTH_PROVIDER=prometheus")
		}
	default:
		return fmt.Errorf("config: HEALTH_PROVIDER %q must be static or prometheus", c.HealthProvider)
	}
	if c.HealthProvider == HealthProviderStatic && c.Env == "production" {
		return errors.New("config: HEALTH_PROVIDER=static must not be used when APP_ENV=production")
	}
	durations := []struct {
		name string
		d    time.Duration
	}{
		{"HEALTH_CHECK_TIMEOUT", c.HealthCheckTimeout},
		{"EVALUATION_INTERVAL", c.EvaluationInterval},
		{"EVALUATION_TIMEOUT", c.EvaluationTimeout},
		{"ROLLOUT_LOCK_TTL", c.RolloutLockTTL},
		{"ASSIGNMENT_CACHE_TTL", c.AssignmentCacheTTL},
	}
	for _, d := range durations {
		if d.d <= 0 {
			return fmt.Errorf("config: %s must be positive", d.name)
		}
	}
	// a lease must outlive the evaluation it guards
	if c.RolloutLockTTL <= c.EvaluationTimeout || c.RolloutLockTTL <= c.HealthCheckTimeout {
		return fmt.Errorf("config: ROLLOUT_LOCK_TTL (%s) must exceed EVALUATION_TIMEOUT (%s) and HEALTH_CHECK_TIMEOUT (%s)",
			c.RolloutLockTTL, c.EvaluationTimeout, c.HealthCheckTimeout)
	}
	if c.ShutdownDrain < 0 {
		return errors.New("config: SHUTDOWN_DRAIN must not be negative")
	}
	if c.EvaluationConcurrency < 1 {
		return errors.New("config: EVALUATION_CONCURRENCY must be at least 1")
	}
	return nil
}

// TelemetryKafkaBrokersList returns Kafka broker addresses from the comma-separated config.
// Used to decide if Kafka telemetry is enabled (non-empty list) and to create the producer.
func (c *Config) TelemetryKafkaBrokersList() []string {
	if c == nil || c.TelemetryKafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.TelemetryKafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
