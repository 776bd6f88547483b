package app

import (
	"context"
	"strings"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	// Domains
	"github.com/contoso/university/internal/domain/course"
	"github.com/contoso/university/internal/domain/student"

	// Inbound adapters
	apihttp "github.com/contoso/university/internal/adapter/inbound/http/api"
	courseshttp "github.com/contoso/university/internal/adapter/inbound/http/courses"
	homehttp "github.com/contoso/university/internal/adapter/inbound/http/home"
	studentshttp "github.com/contoso/university/internal/adapter/inbound/http/students"

	// Ports
	"github.com/contoso/university/internal/port/outbound"

	// Outbound adapters
	"github.com/contoso/university/internal/adapter/outbound/memcache"
	redisadapter "github.com/contoso/university/internal/adapter/outbound/redis"
	"github.com/contoso/university/internal/adapter/outbound/sqldb"
	"github.com/contoso/university/internal/adapter/outbound/token"

	// Infrastructure
	"github.com/contoso/university/internal/infra/cache"
	"github.com/contoso/university/internal/infra/config"
	"github.com/contoso/university/internal/infra/database"
	"github.com/contoso/university/internal/infra/seed"

	// Utils
	"github.com/contoso/university/internal/utils/logger"
	"github.com/contoso/university/internal/utils/metrics"
)

// AdminRole is the role required by mutating Students actions and the
// metrics endpoint when authorization is enabled.
const AdminRole = "admin"

// rateLimitKeys bounds the number of clients tracked by the local limiter.
const rateLimitKeys = 10000

// ===== Infrastructure Providers =====

// InfraSet provides infrastructure dependencies.
var InfraSet = wire.NewSet(
	ProvideLogger,
	ProvideZapLogger,
	ProvideRegistry,
	ProvideMetrics,
	ProvideContextFactory,
	ProvideRedisClient,
	ProvideStatsCache,
	ProvideRateLimiter,
	ProvideTokenManager,
	ProvideSeeder,
)

// ProvideLogger creates the request logger. Development forces debug level
// and text output.
func ProvideLogger(cfg *config.Config) *logger.Logger {
	return logger.New(logConfig(cfg))
}

// ProvideZapLogger creates the zap logger used by startup, domains and adapters.
func ProvideZapLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.NewZapLogger(logConfig(cfg))
}

func logConfig(cfg *config.Config) *logger.Config {
	lc := &logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	}
	if cfg.IsDevelopment() {
		lc.Level = "debug"
		lc.Format = "text"
	}
	return lc
}

// ProvideRegistry creates the metrics registry served on /metrics.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideMetrics creates a metrics instance.
func ProvideMetrics(reg *prometheus.Registry) *metrics.Metrics {
	return metrics.New("contoso", reg)
}

// ProvideContextFactory registers the school database context. No
// connection is made.
func ProvideContextFactory(cfg *config.Config, zapLog *zap.Logger) (*database.ContextFactory, func(), error) {
	factory, err := database.New(cfg, zapLog)
	if err != nil {
		return nil, nil, err
	}
	return factory, func() { _ = factory.Close() }, nil
}

// ProvideRedisClient creates a Redis client. Redis is optional.
func ProvideRedisClient(cfg *config.Config, zapLog *zap.Logger) (goredis.UniversalClient, func()) {
	if cfg.Redis.Address == "" {
		return nil, func() {}
	}
	client, err := cache.NewRedisClient(context.Background(), &cfg.Redis)
	if err != nil {
		zapLog.Warn("Redis connection failed, continuing with the in-process cache", zap.Error(err))
		return nil, func() {}
	}
	return client, func() { _ = client.Close() }
}

// ProvideStatsCache creates the enrollment statistics cache.
func ProvideStatsCache(cfg *config.Config, redis goredis.UniversalClient) outbound.StatsCachePort {
	if redis != nil {
		return redisadapter.NewStatsCache(redis)
	}
	return memcache.NewStatsCache(cfg.Cache.LocalSize, cfg.Cache.StatsTTL)
}

// ProvideRateLimiter creates a rate limiter, or nil when rate limiting is off.
func ProvideRateLimiter(cfg *config.Config) outbound.RateLimiterPort {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	return memcache.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, rateLimitKeys)
}

// ProvideTokenManager creates the bearer token manager, or nil when
// authorization is off. Enabling authorization without a secret is an error.
func ProvideTokenManager(cfg *config.Config) (outbound.TokenPort, error) {
	if !cfg.Auth.Enabled {
		return nil, nil
	}
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return nil, config.ErrMissingJWTSecret
	}
	return token.NewJWTManager(&token.Config{
		Secret: cfg.Auth.JWTSecret,
		Issuer: cfg.Auth.Issuer,
		Expiry: cfg.Auth.TokenExpiry,
	}), nil
}

// ProvideSeeder creates the startup seeder.
func ProvideSeeder(zapLog *zap.Logger) seed.Seeder {
	return seed.NewDbInitializer(zapLog)
}

// ===== School Domain Providers =====

// SchoolSet provides the school domains and their persistence adapters.
var SchoolSet = wire.NewSet(
	sqldb.NewStudentAdapter,
	sqldb.NewCourseAdapter,
	ProvideStudentDomain,
	ProvideCourseDomain,
)

// ProvideStudentDomain creates the student domain.
func ProvideStudentDomain(
	studentDB outbound.StudentDatabasePort,
	statsCache outbound.StatsCachePort,
	cfg *config.Config,
	m *metrics.Metrics,
	zapLog *zap.Logger,
) student.StudentDomain {
	return student.NewStudentDomain(
		studentDB,
		statsCache,
		&student.Config{
			PageSize: student.DefaultConfig().PageSize,
			StatsTTL: cfg.Cache.StatsTTL,
		},
		m,
		zapLog,
	)
}

// ProvideCourseDomain creates the course domain.
func ProvideCourseDomain(courseDB outbound.CourseDatabasePort, zapLog *zap.Logger) course.CourseDomain {
	return course.NewCourseDomain(courseDB, zapLog)
}

// ===== HTTP Handler Providers =====

// HandlerSet provides all HTTP handlers.
var HandlerSet = wire.NewSet(
	homehttp.NewHandler,
	ProvideStudentsHandler,
	courseshttp.NewHandler,
	apihttp.NewHandler,
)

// ProvideStudentsHandler creates the Students controller. Mutations require
// the admin role when authorization is enabled.
func ProvideStudentsHandler(domain student.StudentDomain, cfg *config.Config, zapLog *zap.Logger) *studentshttp.Handler {
	if cfg.Auth.Enabled {
		return studentshttp.NewHandler(domain, zapLog, AdminRole)
	}
	return studentshttp.NewHandler(domain, zapLog)
}

// ===== Master Set =====

// AppSet is the master provider set that includes all dependencies.
var AppSet = wire.NewSet(
	InfraSet,
	SchoolSet,
	HandlerSet,
)
