package middleware

import (
	"time"

	"github.com/contoso/university/internal/utils/logger"
	"github.com/contoso/university/internal/utils/requestctx"
	"github.com/gin-gonic/gin"
)

// RouteKey is the gin context key holding the route label of the matched
// endpoint, such as "Students/Details".
const RouteKey = "route"

// Logging returns a middleware that logs HTTP requests.
func Logging(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.New(nil)
	}

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery
		c.Request = c.Request.WithContext(logger.ContextWithLogger(c.Request.Context(), log))

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"status", status,
			"method", c.Request.Method,
			"path", path,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}

		if route := RouteLabel(c); route != "" {
			attrs = append(attrs, "route", route)
		}
		if query != "" {
			attrs = append(attrs, "query", query)
		}
		if userAgent := c.Request.UserAgent(); userAgent != "" {
			attrs = append(attrs, "user_agent", userAgent)
		}
		if requestID := GetRequestID(c); requestID != "" {
			attrs = append(attrs, "request_id", requestID)
		}
		if p := requestctx.PrincipalFrom(c.Request.Context()); p != nil {
			attrs = append(attrs, "subject", p.Subject)
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}

		msg := "HTTP Request"
		switch {
		case status >= 500:
			log.Error(msg, attrs...)
		case status >= 400:
			log.Warn(msg, attrs...)
		default:
			log.Info(msg, attrs...)
		}
	}
}

// RouteLabel returns the route label set by the router, the gin route
// pattern, or "" when neither matched.
func RouteLabel(c *gin.Context) string {
	if route := c.GetString(RouteKey); route != "" {
		return route
	}
	return c.FullPath()
}
