package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EventDeliveryDirect = "direct"
	EventDeliveryOutbox = "outbox"
)

type Config struct {
	Port     string
	GinMode  string
	LogLevel string
	// Database
	DBUrl      string
	DBMaxConns int
	DBMinConns int
	// Kafka
	KafkaBrokers          []string
	KafkaClientID         string
	KafkaTopicPartitions  int
	KafkaTopicReplication int
	KafkaEnsureTopics     bool          // create missing topics at startup; disable where the cluster forbids it
	KafkaPublishTimeout   time.Duration // upper bound on one publish, retries included
	EventDelivery         string        // "direct" publishes after commit, "outbox" stages events in the mutation tx
	OutboxPollInterval    time.Duration
	OutboxBatchSize       int
	// File service
	FileServiceURL     string
	FileServiceTimeout time.Duration
	// Redis
	RedisURL            string
	RedisPassword       string
	DownloadURLCacheTTL time.Duration
}

func LoadConfig() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		GinMode:  getEnv("GIN_MODE", "release"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DBUrl:      getEnv("DATABASE_URL", ""),
		DBMaxConns: getEnvInt("DB_MAX_CONNS", 25),
		DBMinConns: getEnvInt("DB_MIN_CONNS", 5),

		KafkaBrokers:          getEnvList("KAFKA_BROKERS", nil),
		KafkaClientID:         getEnv("KAFKA_CLIENT_ID", "candidate-service"),
		KafkaTopicPartitions:  getEnvInt("KAFKA_TOPIC_PARTITIONS", 3),
		KafkaTopicReplication: getEnvInt("KAFKA_TOPIC_REPLICATION", 1),
		KafkaEnsureTopics:     getEnvBool("KAFKA_ENSURE_TOPICS", true),
		KafkaPublishTimeout:   getEnvDuration("KAFKA_PUBLISH_TIMEOUT", 10*time.Second),
		EventDelivery:         strings.ToLower(getEnv("EVENT_DELIVERY", EventDeliveryDirect)),
		OutboxPollInterval:    getEnvDuration("OUTBOX_POLL_INTERVAL", 2*time.Second),
		OutboxBatchSize:       getEnvInt("OUTBOX_BATCH_SIZE", 100),

		// Trailing slash would produce //files/download-url
		FileServiceURL:     strings.TrimRight(getEnv("FILE_SERVICE_URL", "http://file-service:8000"), "/"),
		FileServiceTimeout: getEnvDuration("FILE_SERVICE_TIMEOUT", 10*time.Second),

		RedisURL:            getEnv("REDIS_URL", ""),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		DownloadURLCacheTTL: getEnvDuration("DOWNLOAD_URL_CACHE_TTL", 5*time.Minute),
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}

	if len(cfg.KafkaBrokers) == 0 {
		log.Println("WARNING: KAFKA_BROKERS not configured. Change events will not be delivered.")
	}

	if cfg.EventDelivery != EventDeliveryDirect && cfg.EventDelivery != EventDeliveryOutbox {
		log.Printf("WARNING: unknown EVENT_DELIVERY %q, using %q", cfg.EventDelivery, EventDeliveryDirect)
		cfg.EventDelivery = EventDeliveryDirect
	}

	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Download links will not be cached.")
	}

	return cfg, nil
}

// UsesOutbox reports whether change events are staged in the outbox table.
func (c *Config) UsesOutbox() bool {
	return c.EventDelivery == EventDeliveryOutbox
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration syntax ("10s", "2m") or a bare number of seconds
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping empty entries
func getEnvList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
