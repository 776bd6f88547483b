package outbound

import (
	"context"
	"time"

	"github.com/contoso/university/internal/utils/requestctx"
)

// TokenPort issues and verifies bearer tokens.
type TokenPort interface {
	// Issue creates a signed token for subject with roles.
	Issue(subject string, roles []string) (string, error)

	// Parse validates a token and returns its principal.
	Parse(token string) (*requestctx.Principal, error)
}

// RateLimiterPort decides whether a client may make another request.
type RateLimiterPort interface {
	// Allow reports whether key may proceed and, if not, how long to wait.
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}
