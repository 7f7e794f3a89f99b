package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timeouts, batch sizes, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server ServerConfig
	DB     DBConfig
	Redis  RedisConfig
	Kafka  KafkaConfig
	Lock   LockConfig
	Outbox OutboxConfig
	CORS   CORSConfig
	Log    LogConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type KafkaConfig struct {
	Brokers []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	Topic   string   `envconfig:"KAFKA_ORDER_TOPIC" default:"order-events"`
}

// Lease must exceed the expected critical-section duration; there is no
// heartbeat or renewal, so a section that outlives its lease may run
// concurrently with the next holder.
type LockConfig struct {
	Lease         time.Duration `envconfig:"LOCK_LEASE" default:"3s"`
	MaxWait       time.Duration `envconfig:"LOCK_MAX_WAIT" default:"1s"`
	RetryInterval time.Duration `envconfig:"LOCK_RETRY_INTERVAL" default:"50ms"`
}

type OutboxConfig struct {
	PollInterval  time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"500ms"`
	BatchSize     int           `envconfig:"OUTBOX_BATCH_SIZE" default:"100"`
	MaxRetry      int           `envconfig:"OUTBOX_MAX_RETRY" default:"5"`
	PurgeInterval time.Duration `envconfig:"OUTBOX_PURGE_INTERVAL" default:"1h"`
	PurgeAge      time.Duration `envconfig:"OUTBOX_PURGE_AGE" default:"168h"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Idempotency-Key"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Redis: RedisConfig{
			Addr: "localhost:16379",
		},
		Lock: LockConfig{
			Lease:         3 * time.Second,
			MaxWait:       time.Second,
			RetryInterval: 50 * time.Millisecond,
		},
		Outbox: OutboxConfig{
			PollInterval:  100 * time.Millisecond,
			BatchSize:     10,
			MaxRetry:      3,
			PurgeInterval: time.Hour,
			PurgeAge:      24 * time.Hour,
		},
		Log: LogConfig{
			Level: "error", // Error level only for tests
		},
	}
}
