package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/contoso/university/internal/infra/config"
	"github.com/contoso/university/internal/infra/database"
	"github.com/contoso/university/internal/utils/logger"
	"github.com/contoso/university/internal/utils/metrics"
	"github.com/contoso/university/internal/utils/requestctx"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	newRouter := func() *gin.Engine {
		router := gin.New()
		router.Use(RequestID())
		router.GET("/test", func(c *gin.Context) {
			assert.Equal(t, GetRequestID(c), requestctx.RequestID(c.Request.Context()))
			c.String(http.StatusOK, GetRequestID(c))
		})
		return router
	}

	t.Run("generates new request ID when not provided", func(t *testing.T) {
		w := serve(newRouter(), httptest.NewRequest("GET", "/test", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		headerID := w.Header().Get(RequestIDHeader)
		assert.NotEmpty(t, headerID)
		assert.Equal(t, headerID, w.Body.String())
	})

	t.Run("uses existing request ID from header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, "existing-request-id-123")
		w := serve(newRouter(), req)

		assert.Equal(t, "existing-request-id-123", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "existing-request-id-123", w.Body.String())
	})

	t.Run("replaces unusable request ID", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("x", 200))
		w := serve(newRouter(), req)

		assert.Len(t, w.Header().Get(RequestIDHeader), 36)
	})
}

func TestLogging(t *testing.T) {
	newLogger := func(buf *bytes.Buffer) *logger.Logger {
		return logger.New(&logger.Config{Level: "info", Format: "json", Output: buf})
	}

	t.Run("logs successful requests", func(t *testing.T) {
		buf := &bytes.Buffer{}
		router := gin.New()
		router.Use(RequestID(), Logging(newLogger(buf)))
		router.GET("/test", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

		req := httptest.NewRequest("GET", "/test?sortOrder=name_desc", nil)
		req.Header.Set("User-Agent", "TestAgent/1.0")
		serve(router, req)

		out := buf.String()
		assert.Contains(t, out, "HTTP Request")
		assert.Contains(t, out, `"route":"/test"`)
		assert.Contains(t, out, "sortOrder=name_desc")
		assert.Contains(t, out, "TestAgent/1.0")
		assert.Contains(t, out, "request_id")
	})

	t.Run("logs by status class", func(t *testing.T) {
		tests := []struct {
			status int
			level  string
		}{
			{http.StatusNotFound, "WARN"},
			{http.StatusInternalServerError, "ERROR"},
		}
		for _, tt := range tests {
			buf := &bytes.Buffer{}
			router := gin.New()
			router.Use(Logging(newLogger(buf)))
			router.GET("/test", func(c *gin.Context) { c.Status(tt.status) })

			serve(router, httptest.NewRequest("GET", "/test", nil))
			assert.Contains(t, buf.String(), tt.level)
		}
	})

	t.Run("includes principal subject", func(t *testing.T) {
		buf := &bytes.Buffer{}
		router := gin.New()
		router.Use(func(c *gin.Context) {
			c.Request = c.Request.WithContext(requestctx.WithPrincipal(c.Request.Context(), &requestctx.Principal{Subject: "registrar"}))
		}, Logging(newLogger(buf)))
		router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

		serve(router, httptest.NewRequest("GET", "/test", nil))
		assert.Contains(t, buf.String(), `"subject":"registrar"`)
	})

	t.Run("stores request logger in context", func(t *testing.T) {
		buf := &bytes.Buffer{}
		router := gin.New()
		router.Use(RequestID(), Logging(newLogger(buf)))
		router.GET("/test", func(c *gin.Context) {
			logger.FromContext(c.Request.Context()).Info("handler ran")
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, "req-42")
		serve(router, req)

		line, _, _ := strings.Cut(buf.String(), "\n")
		assert.Contains(t, line, "handler ran")
		assert.Contains(t, line, `"request_id":"req-42"`)
	})
}

func TestMetrics(t *testing.T) {
	m := metrics.New("test", prometheus.NewRegistry())

	router := gin.New()
	router.Use(Metrics(m))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.NoRoute(func(c *gin.Context) {
		if c.Request.URL.Path == "/Students/Details/3" {
			c.Set(RouteKey, "Students/Details")
			c.Status(http.StatusOK)
			return
		}
		c.Status(http.StatusNotFound)
	})

	serve(router, httptest.NewRequest("GET", "/health", nil))
	serve(router, httptest.NewRequest("GET", "/Students/Details/3", nil))
	serve(router, httptest.NewRequest("GET", "/nope/at/all/really", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/health", "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "Students/Details", "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "4xx")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.HTTPRequestsInFlight))
}

func TestRecovery(t *testing.T) {
	t.Run("recovers from panic", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(&logger.Config{Level: "error", Format: "json", Output: buf})

		router := gin.New()
		router.Use(Recovery(log))
		router.GET("/panic", func(c *gin.Context) { panic("test panic") })

		w := serve(router, httptest.NewRequest("GET", "/panic", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Internal Server Error", w.Body.String())
		assert.Contains(t, buf.String(), "Panic recovered")
		assert.Contains(t, buf.String(), "test panic")
	})

	t.Run("keeps partial response", func(t *testing.T) {
		router := gin.New()
		router.Use(Recovery(logger.New(&logger.Config{Output: &bytes.Buffer{}})))
		router.GET("/panic", func(c *gin.Context) {
			c.String(http.StatusOK, "partial")
			panic("late panic")
		})

		w := serve(router, httptest.NewRequest("GET", "/panic", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "partial", w.Body.String())
	})
}

func TestCORS(t *testing.T) {
	router := gin.New()
	router.Use(CORS(DefaultCORSConfig([]string{"https://contoso.example"})))
	router.GET("/api/v1/courses", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest("GET", "/api/v1/courses", nil)
	req.Header.Set("Origin", "https://contoso.example")
	w := serve(router, req)
	assert.Equal(t, "https://contoso.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest("GET", "/api/v1/courses", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = serve(router, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

type stubLimiter struct {
	allowed    bool
	retryAfter time.Duration
	err        error
	keys       []string
}

func (s *stubLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	s.keys = append(s.keys, key)
	return s.allowed, s.retryAfter, s.err
}

func TestRateLimit(t *testing.T) {
	newRouter := func(l *stubLimiter, cfg RateLimitConfig) *gin.Engine {
		router := gin.New()
		router.Use(RateLimit(l, cfg))
		router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })
		return router
	}

	t.Run("allows", func(t *testing.T) {
		l := &stubLimiter{allowed: true}
		w := serve(newRouter(l, RateLimitConfig{}), httptest.NewRequest("GET", "/test", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		require.Len(t, l.keys, 1)
		assert.True(t, strings.HasPrefix(l.keys[0], "ip:"))
	})

	t.Run("rejects with retry-after", func(t *testing.T) {
		l := &stubLimiter{retryAfter: 1500 * time.Millisecond}
		w := serve(newRouter(l, RateLimitConfig{}), httptest.NewRequest("GET", "/test", nil))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "2", w.Header().Get(RetryAfter))
	})

	t.Run("fails open on limiter error", func(t *testing.T) {
		l := &stubLimiter{err: errors.New("boom")}
		w := serve(newRouter(l, RateLimitConfig{}), httptest.NewRequest("GET", "/test", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("skip func", func(t *testing.T) {
		l := &stubLimiter{}
		w := serve(newRouter(l, RateLimitConfig{SkipFunc: func(*gin.Context) bool { return true }}), httptest.NewRequest("GET", "/test", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, l.keys)
	})
}

type stubTokens struct{}

func (stubTokens) Issue(subject string, roles []string) (string, error) {
	return subject + ":" + strings.Join(roles, ","), nil
}

func (stubTokens) Parse(token string) (*requestctx.Principal, error) {
	subject, roles, ok := strings.Cut(token, ":")
	if !ok {
		return nil, errors.New("invalid token")
	}
	return &requestctx.Principal{Subject: subject, Roles: strings.Split(roles, ",")}, nil
}

func TestAuthenticate(t *testing.T) {
	router := gin.New()
	router.Use(Authenticate(stubTokens{}))
	router.GET("/whoami", func(c *gin.Context) {
		if p := requestctx.PrincipalFrom(c.Request.Context()); p != nil {
			c.String(http.StatusOK, p.Subject)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	router.POST("/admin", RequireRole("admin"), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	tests := []struct {
		name   string
		method string
		path   string
		header string
		cookie string
		status int
		body   string
	}{
		{"anonymous", "GET", "/whoami", "", "", http.StatusOK, "anonymous"},
		{"bearer", "GET", "/whoami", "Bearer registrar:admin", "", http.StatusOK, "registrar"},
		{"cookie", "GET", "/whoami", "", "clerk:staff", http.StatusOK, "clerk"},
		{"invalid token stays anonymous", "GET", "/whoami", "Bearer garbage", "", http.StatusOK, "anonymous"},
		{"role required", "POST", "/admin", "", "", http.StatusUnauthorized, ""},
		{"wrong role", "POST", "/admin", "Bearer clerk:staff", "", http.StatusForbidden, ""},
		{"admin", "POST", "/admin", "Bearer registrar:admin", "", http.StatusNoContent, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(AuthorizationHeader, tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: TokenCookie, Value: tt.cookie})
			}
			w := serve(router, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestSchoolContextScope(t *testing.T) {
	cfg := &config.Config{}
	cfg.ConnectionStrings.DefaultConnection = ":memory:"
	cfg.Database.Provider = "sqlite"
	factory, err := database.New(cfg, nil)
	require.NoError(t, err)
	defer factory.Close()

	var seen []*database.SchoolContext
	router := gin.New()
	router.Use(Recovery(logger.New(&logger.Config{Output: &bytes.Buffer{}})), SchoolContextScope(factory))
	router.GET("/ok", func(c *gin.Context) {
		sc := database.FromContext(c.Request.Context())
		require.NotNil(t, sc)
		assert.False(t, sc.Closed())
		seen = append(seen, sc)
		c.Status(http.StatusOK)
	})
	router.GET("/panic", func(c *gin.Context) {
		seen = append(seen, database.FromContext(c.Request.Context()))
		panic("boom")
	})

	serve(router, httptest.NewRequest("GET", "/ok", nil))
	serve(router, httptest.NewRequest("GET", "/ok", nil))
	serve(router, httptest.NewRequest("GET", "/panic", nil))

	require.Len(t, seen, 3)
	assert.NotSame(t, seen[0], seen[1], "one context per request")
	for _, sc := range seen {
		assert.True(t, sc.Closed())
	}
}
