package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/contoso/university/internal/infra/config"
	"github.com/redis/go-redis/v9"
)

// ErrRedisDisabled is returned when no redis address is configured.
var ErrRedisDisabled = errors.New("redis is not configured")

// NewRedisClient creates a Redis client and verifies the connection.
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (redis.UniversalClient, error) {
	if cfg == nil || cfg.Address == "" {
		return nil, ErrRedisDisabled
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Address,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 2 * time.Second,
	})

	// Verify connection
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Address, err)
	}

	return client, nil
}
