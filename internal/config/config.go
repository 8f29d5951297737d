package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr     string
	DBPath   string
	LogLevel string

	JudgeURL              string
	JudgeAPIKey           string
	JudgeAPIHost          string
	JudgeTimeoutSeconds   int
	JudgeBreakerThreshold int
	JudgeBreakerCooldown  int

	EventWorkerCount int
	EventQueueSize   int
	RabbitMQURL      string
	RabbitMQExchange string

	RedisAddr             string
	RedisPassword         string
	RedisDB               int
	SessionLockTTLSeconds int

	RandomSeed int64
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                  envOr("ADDR", ":8080"),
		DBPath:                envOr("DB_PATH", "file:banishment.db"),
		LogLevel:              envOr("LOG_LEVEL", "INFO"),
		JudgeURL:              envOr("JUDGE_URL", ""),
		JudgeAPIKey:           envOr("JUDGE_API_KEY", ""),
		JudgeAPIHost:          envOr("JUDGE_API_HOST", ""),
		JudgeTimeoutSeconds:   envIntOr("JUDGE_TIMEOUT_SECONDS", 10),
		JudgeBreakerThreshold: envIntOr("JUDGE_BREAKER_THRESHOLD", 3),
		JudgeBreakerCooldown:  envIntOr("JUDGE_BREAKER_COOLDOWN_SECONDS", 30),
		EventWorkerCount:      envIntOr("EVENT_WORKER_COUNT", 2),
		EventQueueSize:        envIntOr("EVENT_QUEUE_SIZE", 64),
		RabbitMQURL:           envOr("RABBITMQ_URL", ""),
		RabbitMQExchange:      envOr("RABBITMQ_EXCHANGE", "gauntlet.events"),
		RedisAddr:             envOr("REDIS_ADDR", ""),
		RedisPassword:         envOr("REDIS_PASSWORD", ""),
		RedisDB:               envIntOr("REDIS_DB", 0),
		SessionLockTTLSeconds: envIntOr("SESSION_LOCK_TTL_SECONDS", 15),
		RandomSeed:            int64(envIntOr("RANDOM_SEED", 0)),
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR (got %q)", c.LogLevel)
	}
	if c.JudgeTimeoutSeconds < 1 || c.JudgeTimeoutSeconds > 120 {
		return fmt.Errorf("JUDGE_TIMEOUT_SECONDS must be between 1 and 120 (got %d)", c.JudgeTimeoutSeconds)
	}
	if c.JudgeBreakerThreshold < 1 {
		return fmt.Errorf("JUDGE_BREAKER_THRESHOLD must be positive (got %d)", c.JudgeBreakerThreshold)
	}
	if c.JudgeBreakerCooldown < 0 {
		return fmt.Errorf("JUDGE_BREAKER_COOLDOWN_SECONDS cannot be negative (got %d)", c.JudgeBreakerCooldown)
	}
	if c.EventWorkerCount < 1 {
		return fmt.Errorf("EVENT_WORKER_COUNT must be positive (got %d)", c.EventWorkerCount)
	}
	if c.EventQueueSize < 1 {
		return fmt.Errorf("EVENT_QUEUE_SIZE must be positive (got %d)", c.EventQueueSize)
	}
	if c.RabbitMQURL != "" && strings.TrimSpace(c.RabbitMQExchange) == "" {
		return fmt.Errorf("RABBITMQ_EXCHANGE cannot be empty when RABBITMQ_URL is set")
	}
	if c.RedisDB < 0 {
		return fmt.Errorf("REDIS_DB cannot be negative (got %d)", c.RedisDB)
	}
	if c.SessionLockTTLSeconds < 1 {
		return fmt.Errorf("SESSION_LOCK_TTL_SECONDS must be positive (got %d)", c.SessionLockTTLSeconds)
	}
	// a redis lock must outlive the judge call it guards
	if c.RedisAddr != "" && c.SessionLockTTLSeconds <= c.JudgeTimeoutSeconds {
		return fmt.Errorf("SESSION_LOCK_TTL_SECONDS must exceed JUDGE_TIMEOUT_SECONDS when REDIS_ADDR is set (got %d <= %d)",
			c.SessionLockTTLSeconds, c.JudgeTimeoutSeconds)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
