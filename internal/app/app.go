package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/contoso/university/cmd/server/docs" // swagger docs
	studentshttp "github.com/contoso/university/internal/adapter/inbound/http/students"
	"github.com/contoso/university/internal/infra/config"
	"github.com/contoso/university/internal/infra/seed"
	"github.com/contoso/university/internal/transport/mvc"
	"github.com/contoso/university/internal/utils/middleware"
	"github.com/contoso/university/web"
)

// DefaultRoute is the conventional MVC route.
const DefaultRoute = "{controller=Home}/{action=Index}/{id?}"

// App represents the application.
type App struct {
	config *config.Config
	deps   *Dependencies
	mvc    *mvc.Router
	views  *mvc.Views
	router *gin.Engine
}

// New creates a new application instance. Controllers are registered first,
// then the database is created and seeded under the configured policy, then
// the request pipeline is assembled. Nothing listens until the router is
// served.
func New(deps *Dependencies) (*App, error) {
	app := &App{
		config: deps.Config,
		deps:   deps,
	}

	if err := app.registerControllers(); err != nil {
		return nil, fmt.Errorf("register controllers: %w", err)
	}

	if err := app.InitializeDatabase(context.Background()); err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	app.router = app.configurePipeline()

	return app, nil
}

// Build creates the dependencies and the application in one step. The
// returned cleanup releases the dependencies; it is already called when
// Build fails.
func Build(cfg *config.Config) (*App, func(), error) {
	deps, cleanup, err := NewDependencies(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init dependencies: %w", err)
	}

	app, err := New(deps)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return app, cleanup, nil
}

// registerControllers maps controllers onto the conventional route and loads
// their views.
func (a *App) registerControllers() error {
	router, err := mvc.NewRouter(DefaultRoute)
	if err != nil {
		return err
	}

	if err := studentshttp.RegisterValidators(); err != nil {
		return err
	}

	a.deps.HomeHandler.RegisterRoutes(router)
	a.deps.StudentsHandler.RegisterRoutes(router)
	a.deps.CoursesHandler.RegisterRoutes(router)

	views, err := mvc.LoadViews(web.Views(), router.Funcs())
	if err != nil {
		return fmt.Errorf("load views: %w", err)
	}
	for _, e := range router.Endpoints() {
		if e.Method == http.MethodGet && !views.Has(e.Name()) {
			return fmt.Errorf("%w: %s", mvc.ErrViewNotFound, e.Name())
		}
	}

	a.mvc = router
	a.views = views
	return nil
}

// InitializeDatabase ensures the database exists and holds the seed data.
// Under the fatal seed policy failures are returned.
func (a *App) InitializeDatabase(ctx context.Context) error {
	policy, err := seed.ParsePolicy(a.config.Database.SeedPolicy)
	if err != nil {
		return err
	}
	return seed.CreateDbIfNotExists(ctx, a.deps.Factory, a.deps.Seeder, policy, a.deps.ZapLogger, a.deps.Metrics)
}

// configurePipeline creates the Gin engine. Stage order matters: error
// handling wraps everything after it, static files short-circuit before a
// database scope is opened, and authorization needs the routed endpoint.
func (a *App) configurePipeline() *gin.Engine {
	if gin.Mode() != gin.TestMode {
		if a.config.IsDevelopment() {
			gin.SetMode(gin.DebugMode)
		} else {
			gin.SetMode(gin.ReleaseMode)
		}
	}

	log := a.deps.Logger
	r := gin.New()
	r.HTMLRender = a.views

	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logging(log))
	r.Use(middleware.Metrics(a.deps.Metrics))
	if len(a.config.CORS.AllowOrigins) > 0 {
		r.Use(middleware.CORS(middleware.DefaultCORSConfig(a.config.CORS.AllowOrigins)))
	}
	if a.deps.RateLimiter != nil {
		r.Use(middleware.RateLimit(a.deps.RateLimiter, middleware.RateLimitConfig{}))
	}

	// Error handling
	if a.config.IsDevelopment() {
		r.Use(mvc.DeveloperExceptionPage(log))
	} else {
		r.Use(mvc.ExceptionHandler(a.mvc, log))
		r.Use(mvc.HSTS(a.config.Server.HSTSMaxAge))
	}

	r.Use(mvc.HTTPSRedirection(a.config.Server.HTTPSPort, log))
	r.Use(mvc.StaticFiles(web.Static()))
	r.Use(middleware.SchoolContextScope(a.deps.Factory))
	r.Use(a.mvc.Routing())
	if a.deps.Tokens != nil {
		r.Use(middleware.Authenticate(a.deps.Tokens))
	}
	r.Use(mvc.Authorization())

	// Health check endpoints
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", a.ready)

	// Metrics endpoint, admin only when authorization is on
	metricsHandler := gin.WrapH(promhttp.HandlerFor(a.deps.Registry, promhttp.HandlerOpts{}))
	if a.deps.Tokens != nil {
		r.GET("/metrics", middleware.RequireRole(AdminRole), metricsHandler)
	} else {
		r.GET("/metrics", metricsHandler)
	}

	// Swagger documentation endpoint
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	a.deps.APIHandler.RegisterRoutes(r.Group("/api/v1"))

	// Conventional MVC endpoints
	r.NoRoute(a.mvc.Dispatch())

	return r
}

func (a *App) ready(c *gin.Context) {
	if err := a.deps.Factory.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Router returns the Gin router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// MVC returns the conventional route table.
func (a *App) MVC() *mvc.Router {
	return a.mvc
}

// Config returns the configuration the application was built with.
func (a *App) Config() *config.Config {
	return a.config
}

// Server creates the HTTP server for the configured address and timeouts.
func (a *App) Server() *http.Server {
	return &http.Server{
		Addr:         a.config.Server.Address,
		Handler:      a.router,
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
		IdleTimeout:  a.config.Server.IdleTimeout,
	}
}

// Stop releases application resources that are not owned by the
// dependency cleanup.
func (a *App) Stop() {
	a.deps.ZapLogger.Info("application stopped")
}
