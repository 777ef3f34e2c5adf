package config

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis and verifies the connection within the
// configured timeout. Callers fall back to in-memory delivery on error.
func NewRedisClient(cfg *Config) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RedisConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}
