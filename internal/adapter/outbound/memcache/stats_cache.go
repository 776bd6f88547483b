// Package memcache holds in-process cache adapters used when redis is not configured.
package memcache

import (
	"context"
	"time"

	"github.com/contoso/university/internal/model"
	"github.com/contoso/university/internal/port/outbound"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const statsKey = "enrollment-dates"

type statsEntry struct {
	groups    []model.EnrollmentDateGroup
	expiresAt time.Time
}

// statsCache implements outbound.StatsCachePort in memory.
type statsCache struct {
	lru *expirable.LRU[string, statsEntry]
	now func() time.Time
}

// NewStatsCache creates an in-process statistics cache. maxTTL bounds how long
// any entry is kept regardless of the TTL passed to Set.
func NewStatsCache(size int, maxTTL time.Duration) outbound.StatsCachePort {
	if size <= 0 {
		size = 1
	}
	return &statsCache{
		lru: expirable.NewLRU[string, statsEntry](size, nil, maxTTL),
		now: time.Now,
	}
}

func (c *statsCache) Get(_ context.Context) ([]model.EnrollmentDateGroup, error) {
	entry, ok := c.lru.Get(statsKey)
	if !ok {
		return nil, outbound.ErrCacheMiss
	}
	if !entry.expiresAt.IsZero() && !c.now().Before(entry.expiresAt) {
		c.lru.Remove(statsKey)
		return nil, outbound.ErrCacheMiss
	}
	return append([]model.EnrollmentDateGroup(nil), entry.groups...), nil
}

func (c *statsCache) Set(_ context.Context, groups []model.EnrollmentDateGroup, ttl time.Duration) error {
	entry := statsEntry{groups: append([]model.EnrollmentDateGroup(nil), groups...)}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}
	c.lru.Add(statsKey, entry)
	return nil
}

func (c *statsCache) Invalidate(_ context.Context) error {
	c.lru.Remove(statsKey)
	return nil
}
