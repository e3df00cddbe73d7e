package config

import (
	"os"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load returned nil config")
	}
	if cfg.GRPCAddr != ":8080" {
		t.Errorf("GRPCAddr = %q, want %q", cfg.GRPCAddr, ":8080")
	}
	if cfg.OpsHTTPAddr != ":9090" {
		t.Errorf("OpsHTTPAddr = %q, want %q", cfg.OpsHTTPAddr, ":9090")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.ServiceName != "ecp" {
		t.Errorf("ServiceName = %q, want ecp", cfg.ServiceName)
	}
	if cfg.TelemetryKafkaTopic != "ecp-telemetry" {
		t.Errorf("TelemetryKafkaTopic = %q, want ecp-telemetry", cfg.TelemetryKafkaTopic)
	}
	if cfg.HealthProvider != HealthProviderStatic {
		t.Errorf("HealthProvider = %q, want static", cfg.HealthProvider)
	}
	durations := map[string][2]time.Duration{
		"HealthCheckTimeout": {cfg.HealthCheckTimeout, 5 * time.Second},
		"EvaluationInterval": {cfg.EvaluationInterval, time.Minute},
		"EvaluationTimeout":  {cfg.EvaluationTimeout, 30 * time.Second},
		"RolloutLockTTL":     {cfg.RolloutLockTTL, time.Minute},
		"AssignmentCacheTTL": {cfg.AssignmentCacheTTL, 30 * 24 * time.Hour},
		"ShutdownDrain":      {cfg.ShutdownDrain, 5 * time.Second},
	}
	for name, d := range durations {
		if d[0] != d[1] {
			t.Errorf("%s = %v, want %v", name, d[0], d[1])
		}
	}
	if cfg.EvaluationConcurrency != 4 {
		t.Errorf("EvaluationConcurrency = %d, want 4", cfg.EvaluationConcurrency)
	}
	if cfg.DatabaseURL != "" || cfg.RedisURL != "" {
		t.Error("DATABASE_URL and REDIS_URL should default to empty")
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	os.Clearenv()
	os.Setenv("GRPC_ADDR", ":7070")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("EVALUATION_INTERVAL", "15s")
	os.Setenv("EVALUATION_CONCURRENCY", "8")
	os.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "true")
	os.Setenv("HEALTH_PROVIDER", "prometheus")
	os.Setenv("PROMETHEUS_URL", "http://prometheus:9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GRPCAddr != ":7070" {
		t.Errorf("GRPCAddr = %q, want %q", cfg.GRPCAddr, ":7070")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.EvaluationInterval != 15*time.Second {
		t.Errorf("EvaluationInterval = %v, want 15s", cfg.EvaluationInterval)
	}
	if cfg.EvaluationConcurrency != 8 {
		t.Errorf("EvaluationConcurrency = %d, want 8", cfg.EvaluationConcurrency)
	}
	if !cfg.OTLPInsecure {
		t.Error("OTLPInsecure should be true")
	}
	if cfg.HealthProvider != HealthProviderPrometheus || cfg.PrometheusURL != "http://prometheus:9090" {
		t.Errorf("health provider = %q at %q", cfg.HealthProvider, cfg.PrometheusURL)
	}
}

func TestLoad_Invalid(t *testing.T) {
	testCases := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"bad log level", map[string]string{"LOG_LEVEL": "verbose"}, "LOG_LEVEL"},
		{"unknown provider", map[string]string{"HEALTH_PROVIDER": "datadog"}, "HEALTH_PROVIDER"},
		{"prometheus without url", map[string]string{"HEALTH_PROVIDER": "prometheus"}, "PROMETHEUS_URL"},
		{"static in production", map[string]string{"APP_ENV": "production"}, "APP_ENV=production"},
		{"zero interval", map[string]string{"EVALUATION_INTERVAL": "0s"}, "EVALUATION_INTERVAL"},
		{"negative timeout", map[string]string{"HEALTH_CHECK_TIMEOUT": "-1s"}, "HEALTH_CHECK_TIMEOUT"},
		{"zero concurrency", map[string]string{"EVALUATION_CONCURRENCY": "0"}, "EVALUATION_CONCURRENCY"},
		{"negative drain", map[string]string{"SHUTDOWN_DRAIN": "-1s"}, "SHUTDOWN_DRAIN"},
		{"unparseable duration", map[string]string{"ROLLOUT_LOCK_TTL": "soon"}, "config:"},
		{"lock ttl below evaluation timeout", map[string]string{"ROLLOUT_LOCK_TTL": "20s"}, "ROLLOUT_LOCK_TTL"},
		{"lock ttl equal to evaluation timeout", map[string]string{"ROLLOUT_LOCK_TTL": "30s"}, "EVALUATION_TIMEOUT"},
		{"lock ttl below health timeout", map[string]string{
			"ROLLOUT_LOCK_TTL": "40s", "EVALUATION_TIMEOUT": "10s", "HEALTH_CHECK_TIMEOUT": "45s",
		}, "HEALTH_CHECK_TIMEOUT"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			os.Clearenv()
			for k, v := range tc.env {
				os.Setenv(k, v)
			}
			cfg, err := Load()
			if err == nil {
				t.Fatal("Load should return error")
			}
			if cfg != nil {
				t.Error("Load should return nil config on error")
			}
			if !strings.HasPrefix(err.Error(), "config:") {
				t.Errorf("error = %q, want config: prefix", err.Error())
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error = %q, want mention of %s", err.Error(), tc.wantErr)
			}
		})
	}
}

func TestLoad_PrometheusInProduction(t *testing.T) {
	os.Clearenv()
	os.Setenv("APP_ENV", "production")
	os.Setenv("HEALTH_PROVIDER", "prometheus")
	os.Setenv("PROMETHEUS_URL", "http://prometheus:9090")

	if _, err := Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestTelemetryKafkaBrokersList(t *testing.T) {
	testCases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"localhost:9092", []string{"localhost:9092"}},
		{" a:9092, b:9092 ,,", []string{"a:9092", "b:9092"}},
	}
	for _, tc := range testCases {
		cfg := &Config{TelemetryKafkaBrokers: tc.in}
		got := cfg.TelemetryKafkaBrokersList()
		if len(got) == 0 && len(tc.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("TelemetryKafkaBrokersList(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	var nilCfg *Config
	if nilCfg.TelemetryKafkaBrokersList() != nil {
		t.Error("nil config should return nil")
	}
}
