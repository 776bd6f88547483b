package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/contoso/university/internal/model"
	"github.com/contoso/university/internal/port/outbound"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
	"github.com/vmihailenco/msgpack/v5"
)

const statsKey = "contoso:stats:enrollment-dates"

// statsCache implements outbound.StatsCachePort on redis. Calls go through a
// circuit breaker so an unreachable redis does not slow every page.
type statsCache struct {
	client  redis.UniversalClient
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// NewStatsCache creates a new redis-backed statistics cache.
func NewStatsCache(client redis.UniversalClient) outbound.StatsCachePort {
	settings := gobreaker.Settings{
		Name:        "redis-stats-cache",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, outbound.ErrCacheMiss)
		},
	}

	return &statsCache{
		client:  client,
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

func (c *statsCache) Get(ctx context.Context) ([]model.EnrollmentDateGroup, error) {
	data, err := c.breaker.Execute(func() ([]byte, error) {
		b, err := c.client.Get(ctx, statsKey).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, outbound.ErrCacheMiss
		}
		return b, err
	})
	if err != nil {
		return nil, err
	}

	var groups []model.EnrollmentDateGroup
	if err := msgpack.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}
	return groups, nil
}

func (c *statsCache) Set(ctx context.Context, groups []model.EnrollmentDateGroup, ttl time.Duration) error {
	data, err := msgpack.Marshal(groups)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}

	_, err = c.breaker.Execute(func() ([]byte, error) {
		return nil, c.client.Set(ctx, statsKey, data, ttl).Err()
	})
	return err
}

func (c *statsCache) Invalidate(ctx context.Context) error {
	_, err := c.breaker.Execute(func() ([]byte, error) {
		return nil, c.client.Del(ctx, statsKey).Err()
	})
	return err
}
