package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"experimentation-control-plane/internal/db"
	"experimentation-control-plane/internal/telemetry"
	telemetryotel "experimentation-control-plane/internal/telemetry/otel"
	"experimentation-control-plane/internal/telemetry/producer"
)

const redisPingTimeout = 5 * time.Second

func (a *App) openDB() error {
	if a.Cfg.DatabaseURL == "" {
		a.Log.Warn("DATABASE_URL not set; using in-memory stores")
		return nil
	}
	conn, err := db.Open(a.Cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("app: postgres: %w", err)
	}
	a.DB = conn
	a.onClose(func(context.Context) error { return conn.Close() })
	return nil
}

func (a *App) openRedis(ctx context.Context) error {
	if a.Cfg.RedisURL == "" {
		return nil
	}
	opts, err := redis.ParseURL(a.Cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("app: redis url: %w", err)
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("app: redis ping: %w", err)
	}
	a.Redis = client
	a.onClose(func(context.Context) error { return client.Close() })
	return nil
}

func (a *App) openTelemetry(ctx context.Context) error {
	providers, err := telemetryotel.NewProviders(ctx, telemetryotel.Config{
		Endpoint:    a.Cfg.OTLPEndpoint,
		ServiceName: a.Cfg.ServiceName,
		Environment: a.Cfg.Env,
		Insecure:    a.Cfg.OTLPInsecure,
	})
	if err != nil {
		return fmt.Errorf("app: otel: %w", err)
	}
	providers.SetGlobal()
	a.otel = providers
	a.onClose(providers.Shutdown)
	return nil
}

// emitter fans lifecycle events out to OTel logs and, when brokers are configured, Kafka.
func (a *App) emitter() telemetry.EventEmitter {
	emitters := []telemetry.EventEmitter{telemetryotel.NewEventEmitter(a.otel.LoggerProvider)}
	if kp := a.kafkaProducer(); kp != nil {
		emitters = append(emitters, kp)
		a.onClose(func(context.Context) error { return kp.Close() })
	}
	return telemetry.Fanout(emitters...)
}

// kafkaProducer returns nil when KAFKA_BROKERS is empty.
func (a *App) kafkaProducer() producer.Producer {
	kp := producer.NewKafkaProducer(a.Cfg.TelemetryKafkaBrokersList(), a.Cfg.TelemetryKafkaTopic)
	if kp == nil {
		return nil
	}
	a.Log.Info("telemetry to kafka enabled", "topic", a.Cfg.TelemetryKafkaTopic)
	return kp
}
