package mvc

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/contoso/university/internal/utils/logger"
	"github.com/gin-gonic/gin"
)

// isHTTPS reports whether the request arrived over TLS, directly or through
// a terminating proxy.
func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

func isLoopbackHost(host string) bool {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.Trim(host, "[]")
	return strings.EqualFold(host, "localhost") || host == "127.0.0.1" || host == "::1"
}

// HSTS returns a stage that sets Strict-Transport-Security on HTTPS
// responses. Loopback hosts are excluded.
func HSTS(maxAge time.Duration) gin.HandlerFunc {
	if maxAge <= 0 {
		maxAge = 30 * 24 * time.Hour
	}
	value := fmt.Sprintf("max-age=%d", int64(maxAge.Seconds()))

	return func(c *gin.Context) {
		if isHTTPS(c.Request) && !isLoopbackHost(c.Request.Host) {
			c.Header("Strict-Transport-Security", value)
		}
		c.Next()
	}
}

// HTTPSRedirection returns a stage that redirects plain HTTP requests to
// HTTPS on port with 307. When port is zero the stage warns once and lets
// requests through.
func HTTPSRedirection(port int, log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.New(nil)
	}
	var warnOnce sync.Once

	return func(c *gin.Context) {
		if isHTTPS(c.Request) {
			c.Next()
			return
		}
		if port <= 0 {
			warnOnce.Do(func() {
				log.Warn("Failed to determine the https port for redirect.")
			})
			c.Next()
			return
		}

		host := c.Request.Host
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}
		if strings.Contains(host, ":") {
			host = "[" + strings.Trim(host, "[]") + "]"
		}
		if port != 443 {
			host += ":" + strconv.Itoa(port)
		}

		target := "https://" + host + c.Request.URL.RequestURI()
		c.Redirect(http.StatusTemporaryRedirect, target)
		c.Abort()
	}
}
