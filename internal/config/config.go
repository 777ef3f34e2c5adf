package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string

	DatabaseURL string

	RedisURL            string
	RedisConnectTimeout time.Duration

	JWTSecret string

	CORSOrigins string

	ResendAPIKey string
	FromEmail    string

	PushQueueSize   int
	StreamKeepalive time.Duration
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisURL:            getEnv("REDIS_URL", "redis://localhost:6379"),
		RedisConnectTimeout: getDurationEnv("REDIS_CONNECT_TIMEOUT", 5*time.Second),

		JWTSecret: getEnv("JWT_SECRET", ""),

		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:5173"),

		ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		FromEmail:    getEnv("FROM_EMAIL", "noreply@example.com"),

		PushQueueSize:   getIntEnv("PUSH_QUEUE_SIZE", 256),
		StreamKeepalive: getDurationEnv("STREAM_KEEPALIVE", 25*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
