package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort    string
	Environment   string
	JWTSecret     string
	JWTExpiry     int64
	SessionSecret string

	StorageDriver string
	BoltPath      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	OrderCancelWindow       time.Duration
	FulfilmentEnabled       bool
	FulfilmentSchedule      string
	FulfilmentCompleteAfter time.Duration

	MessageRatePerMinute int

	LogLevel string
	LogFile  string

	TracingEnabled bool
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		JWTSecret:     getEnv("JWT_SECRET", "your-secret-key"),
		JWTExpiry:     getEnvAsInt64("JWT_EXPIRY", 24*60*60), // 24 hours
		SessionSecret: getEnv("SESSION_SECRET", "vira-session-secret"),

		StorageDriver: getEnv("STORAGE_DRIVER", "bolt"),
		BoltPath:      getEnv("BOLT_PATH", "vira.db"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       int(getEnvAsInt64("REDIS_DB", 0)),

		OrderCancelWindow:       getEnvAsDuration("ORDER_CANCEL_WINDOW", time.Hour),
		FulfilmentEnabled:       getEnvAsBool("FULFILMENT_ENABLED", true),
		FulfilmentSchedule:      getEnv("FULFILMENT_SCHEDULE", "@every 5m"),
		FulfilmentCompleteAfter: getEnvAsDuration("FULFILMENT_COMPLETE_AFTER", 72*time.Hour),

		MessageRatePerMinute: int(getEnvAsInt64("MESSAGE_RATE_PER_MINUTE", 30)),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),

		TracingEnabled: getEnvAsBool("TRACING_ENABLED", false),
	}

	return config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		boolValue, err := strconv.ParseBool(value)
		if err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
