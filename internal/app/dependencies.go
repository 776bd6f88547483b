package app

import (
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/contoso/university/internal/domain/course"
	"github.com/contoso/university/internal/domain/student"

	apihttp "github.com/contoso/university/internal/adapter/inbound/http/api"
	courseshttp "github.com/contoso/university/internal/adapter/inbound/http/courses"
	homehttp "github.com/contoso/university/internal/adapter/inbound/http/home"
	studentshttp "github.com/contoso/university/internal/adapter/inbound/http/students"
	"github.com/contoso/university/internal/adapter/outbound/sqldb"

	"github.com/contoso/university/internal/port/outbound"

	"github.com/contoso/university/internal/infra/config"
	"github.com/contoso/university/internal/infra/database"
	"github.com/contoso/university/internal/infra/seed"

	"github.com/contoso/university/internal/utils/logger"
	"github.com/contoso/university/internal/utils/metrics"
)

// Dependencies is the service registry the application is built from.
type Dependencies struct {
	Config      *config.Config
	Logger      *logger.Logger
	ZapLogger   *zap.Logger
	Registry    *prometheus.Registry
	Metrics     *metrics.Metrics
	Factory     *database.ContextFactory
	Redis       goredis.UniversalClient
	StatsCache  outbound.StatsCachePort
	RateLimiter outbound.RateLimiterPort
	Tokens      outbound.TokenPort
	Seeder      seed.Seeder

	// Domains
	StudentDomain student.StudentDomain
	CourseDomain  course.CourseDomain

	// HTTP Handlers
	HomeHandler     *homehttp.Handler
	StudentsHandler *studentshttp.Handler
	CoursesHandler  *courseshttp.Handler
	APIHandler      *apihttp.Handler
}

// NewDependencies builds the registry from AppSet's providers in dependency
// order. The returned cleanup releases what the providers opened.
func NewDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	zapLog, err := ProvideZapLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	tokens, err := ProvideTokenManager(cfg)
	if err != nil {
		_ = zapLog.Sync()
		return nil, nil, err
	}
	factory, closeFactory, err := ProvideContextFactory(cfg, zapLog)
	if err != nil {
		_ = zapLog.Sync()
		return nil, nil, err
	}
	redis, closeRedis := ProvideRedisClient(cfg, zapLog)

	reg := ProvideRegistry()
	m := ProvideMetrics(reg)
	statsCache := ProvideStatsCache(cfg, redis)

	studentDomain := ProvideStudentDomain(sqldb.NewStudentAdapter(factory), statsCache, cfg, m, zapLog)
	courseDomain := ProvideCourseDomain(sqldb.NewCourseAdapter(factory), zapLog)

	deps := &Dependencies{
		Config:          cfg,
		Logger:          ProvideLogger(cfg),
		ZapLogger:       zapLog,
		Registry:        reg,
		Metrics:         m,
		Factory:         factory,
		Redis:           redis,
		StatsCache:      statsCache,
		RateLimiter:     ProvideRateLimiter(cfg),
		Tokens:          tokens,
		Seeder:          ProvideSeeder(zapLog),
		StudentDomain:   studentDomain,
		CourseDomain:    courseDomain,
		HomeHandler:     homehttp.NewHandler(studentDomain),
		StudentsHandler: ProvideStudentsHandler(studentDomain, cfg, zapLog),
		CoursesHandler:  courseshttp.NewHandler(courseDomain),
		APIHandler:      apihttp.NewHandler(studentDomain, courseDomain),
	}

	cleanup := func() {
		closeRedis()
		closeFactory()
		_ = zapLog.Sync()
	}
	return deps, cleanup, nil
}
