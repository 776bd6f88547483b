package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/contoso/university/internal/model"
)

// ErrCacheMiss is returned when a cache holds no value for the key.
var ErrCacheMiss = errors.New("cache miss")

// StatsCachePort caches the enrollment date statistics.
type StatsCachePort interface {
	// Get returns the cached statistics or ErrCacheMiss.
	Get(ctx context.Context) ([]model.EnrollmentDateGroup, error)

	// Set stores the statistics with TTL.
	Set(ctx context.Context, groups []model.EnrollmentDateGroup, ttl time.Duration) error

	// Invalidate drops the cached statistics.
	Invalidate(ctx context.Context) error
}
