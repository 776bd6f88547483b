package middleware

import (
	"net/http"
	"strings"

	"github.com/contoso/university/internal/port/outbound"
	"github.com/contoso/university/internal/utils/requestctx"
	"github.com/gin-gonic/gin"
)

const (
	// AuthorizationHeader is the header key for authorization.
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens.
	BearerPrefix = "Bearer "
	// TokenCookie is the cookie that may carry the token for browser sessions.
	TokenCookie = "contoso_token"
)

// Authenticate returns a middleware that resolves the caller from a bearer
// token or the token cookie. Missing or invalid tokens leave the request
// anonymous; authorization decides what anonymous callers may do.
func Authenticate(tokens outbound.TokenPort) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokens == nil {
			c.Next()
			return
		}

		raw := extractToken(c)
		if raw == "" {
			c.Next()
			return
		}

		p, err := tokens.Parse(raw)
		if err != nil {
			_ = c.Error(err).SetType(gin.ErrorTypePublic)
			c.Next()
			return
		}

		c.Request = c.Request.WithContext(requestctx.WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

// RequireRole returns a middleware that rejects callers without role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := requestctx.PrincipalFrom(c.Request.Context())
		switch {
		case p == nil:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Authentication required",
				},
			})
		case !p.HasRole(role):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Insufficient role",
				},
			})
		default:
			c.Next()
		}
	}
}

// extractToken extracts the bearer token from the Authorization header or cookie.
func extractToken(c *gin.Context) string {
	if authHeader := c.GetHeader(AuthorizationHeader); strings.HasPrefix(authHeader, BearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, BearerPrefix))
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie
	}
	return ""
}
