// Package requestctx carries per-request values through context.Context.
package requestctx

import (
	"context"
	"slices"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	principalKey
)

// Principal is the authenticated caller of a request.
type Principal struct {
	Subject string
	Roles   []string
}

// HasRole reports whether the principal carries role.
func (p *Principal) HasRole(role string) bool {
	if p == nil {
		return false
	}
	return slices.Contains(p.Roles, role)
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if s, ok := ctx.Value(requestIDKey).(string); ok {
		return s
	}
	return ""
}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFrom returns the principal bound to ctx, or nil for anonymous requests.
func PrincipalFrom(ctx context.Context) *Principal {
	if ctx == nil {
		return nil
	}
	p, _ := ctx.Value(principalKey).(*Principal)
	return p
}
