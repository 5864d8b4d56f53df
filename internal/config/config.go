// Package config defines the settings shared by the API gateway and the batch
// processor: HTTP server, PostgreSQL journal store, MongoDB payment store,
// Kafka pipeline, and the posting worker pool.
package config

import (
	"errors"
	"strings"
	"time"
)

// Config is the full application configuration. It is built once at startup
// by LoadConfig and treated as read-only afterwards.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	Kafka       KafkaConfig
	Postgres    PostgresConfig
	MongoDB     MongoDBConfig
	WorkerPool  WorkerPoolConfig
}

// ApplicationConfig identifies the running service. Env switches gin into
// release mode when set to "production".
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig controls the slog handler
type LoggingConfig struct {
	Level string
}

// ServerConfig holds HTTP listener settings for the API gateway
type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
}

// KafkaConfig holds settings for the bulk posting pipeline. PostingTopic
// carries posting instructions from the gateway to the batch processor;
// DLQTopic receives messages that cannot be decoded.
type KafkaConfig struct {
	Brokers           string
	PostingTopic      string
	NumPartitions     int
	ReplicationFactor int
	ConsumerGroup     string
	MinBytes          int
	MaxBytes          int
	MaxWait           time.Duration
	StartOffset       int64
	DLQTopic          string
}

// PostgresConfig holds pool settings for the journal and account store
type PostgresConfig struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	MigrationsPath  string
}

// MongoDBConfig holds pool settings for the payment record store
type MongoDBConfig struct {
	URI             string
	Database        string
	Timeout         time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
}

// WorkerPoolConfig sizes the batch processor's posting pool
type WorkerPoolConfig struct {
	Size int
}

// validate checks every section and reports all problems at once, so a
// misconfigured deployment fails fast with the complete list
func (c *Config) validate() error {
	var problems []string

	fail := func(msg string) { problems = append(problems, msg) }
	requirePositiveDuration := func(d time.Duration, key string) {
		if d <= 0 {
			fail(key + " must be greater than 0")
		}
	}

	if c.Server.Port <= 0 {
		fail("SERVER_PORT must be greater than 0")
	}
	requirePositiveDuration(c.Server.ShutdownTimeout, "SERVER_SHUTDOWN_TIMEOUT")
	requirePositiveDuration(c.Server.ReadTimeout, "SERVER_READ_TIMEOUT")
	requirePositiveDuration(c.Server.WriteTimeout, "SERVER_WRITE_TIMEOUT")
	requirePositiveDuration(c.Server.IdleTimeout, "SERVER_IDLE_TIMEOUT")

	if c.Kafka.Brokers == "" {
		fail("KAFKA_BROKERS is required")
	}
	if c.Kafka.PostingTopic == "" {
		fail("KAFKA_POSTING_TOPIC is required")
	}
	if c.Kafka.ConsumerGroup == "" {
		fail("KAFKA_CONSUMER_GROUP is required")
	}
	if c.Kafka.MinBytes <= 0 {
		fail("KAFKA_CONSUMER_MIN_BYTES must be greater than 0")
	}
	if c.Kafka.MaxBytes <= 0 {
		fail("KAFKA_CONSUMER_MAX_BYTES must be greater than 0")
	}
	requirePositiveDuration(c.Kafka.MaxWait, "KAFKA_CONSUMER_MAX_WAIT")
	if c.Kafka.DLQTopic == "" {
		fail("KAFKA_DLQ_TOPIC is required")
	}

	if c.Postgres.URL == "" {
		fail("POSTGRES_URL is required")
	}
	if c.Postgres.MaxConns <= 0 {
		fail("POSTGRES_MAX_CONNS must be greater than 0")
	}
	if c.Postgres.MinConns <= 0 {
		fail("POSTGRES_MIN_CONNS must be greater than 0")
	}
	requirePositiveDuration(c.Postgres.ConnMaxLifetime, "POSTGRES_MAX_CONN_LIFETIME")
	requirePositiveDuration(c.Postgres.ConnMaxIdleTime, "POSTGRES_MAX_CONN_IDLE_TIME")

	if c.MongoDB.URI == "" {
		fail("MONGO_URI is required")
	}
	if c.MongoDB.Database == "" {
		fail("MONGO_DATABASE is required")
	}
	requirePositiveDuration(c.MongoDB.Timeout, "MONGO_TIMEOUT")
	if c.MongoDB.MaxPoolSize == 0 {
		fail("MONGO_MAX_POOL_SIZE must be greater than 0")
	}
	if c.MongoDB.MinPoolSize == 0 {
		fail("MONGO_MIN_POOL_SIZE must be greater than 0")
	}
	requirePositiveDuration(c.MongoDB.MaxConnIdleTime, "MONGO_MAX_CONN_IDLE_TIME")

	if c.WorkerPool.Size <= 0 {
		fail("WORKER_POOL_SIZE must be greater than 0")
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, ", "))
	}
	return nil
}
