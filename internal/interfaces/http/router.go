package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/imRyuukii/LoginPage/internal/application/dto"
	"github.com/imRyuukii/LoginPage/internal/application/service"
	"github.com/imRyuukii/LoginPage/internal/config"
	domainService "github.com/imRyuukii/LoginPage/internal/domain/service"
	"github.com/imRyuukii/LoginPage/internal/interfaces/http/handlers"
	"github.com/imRyuukii/LoginPage/internal/interfaces/http/middleware"
	"github.com/imRyuukii/LoginPage/pkg/constants"
	"github.com/imRyuukii/LoginPage/pkg/errors"
	"github.com/imRyuukii/LoginPage/pkg/logger"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	AuthService      service.AuthAppService
	UserAdminService service.UserAdminService
	StatusService    service.RateLimitStatusService
	Limiter          domainService.RateLimiter
	Metrics          domainService.Metrics
	Tracer           trace.Tracer
	Gatherer         prometheus.Gatherer
	HealthChecks     map[string]handlers.Pinger
}

// Router HTTP router
type Router struct {
	engine *gin.Engine
	config *config.Config
	logger logger.Logger
	deps   Dependencies
}

// NewRouter creates the router and registers every route.
func NewRouter(cfg *config.Config, log logger.Logger, deps Dependencies) *Router {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine: gin.New(),
		config: cfg,
		logger: log,
		deps:   deps,
	}
	r.setupRoutes()
	return r
}

// Handler returns the http.Handler serving the API.
func (r *Router) Handler() http.Handler {
	return r.engine
}

func (r *Router) setupRoutes() {
	r.engine.Use(middleware.Recovery(r.logger))
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.ObservabilityMiddleware(r.deps.Tracer, r.deps.Metrics))
	r.engine.Use(middleware.Logging(r.logger))

	if len(r.config.Server.AllowedOrigins) > 0 {
		r.engine.Use(cors.New(cors.Config{
			AllowOrigins:     r.config.Server.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", constants.HeaderRequestID},
			ExposeHeaders:    []string{constants.HeaderRequestID, constants.HeaderRetryAfter},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	health := handlers.NewHealthHandler(r.deps.HealthChecks, r.logger)
	r.engine.GET("/health", health.HealthCheck)
	r.engine.GET("/ready", health.ReadinessCheck)
	r.engine.GET("/live", health.LivenessCheck)

	gatherer := r.deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	if !r.config.IsProduction() {
		pprof.Register(r.engine)
	}

	authHandler := handlers.NewAuthHandler(r.deps.AuthService, r.config.Session)
	adminHandler := handlers.NewAdminHandler(r.deps.UserAdminService)
	rateLimitHandler := handlers.NewRateLimitHandler(r.deps.StatusService)
	requireSession := middleware.RequireSession(r.deps.AuthService, r.config.Session.CookieName)

	v1 := r.engine.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", middleware.RateLimitGuard(r.deps.Limiter, constants.ActionRegister, r.logger), authHandler.Register)
			auth.POST("/login", middleware.RateLimitGuard(r.deps.Limiter, constants.ActionLogin, r.logger), authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", requireSession, authHandler.Me)
			auth.POST("/heartbeat", requireSession, authHandler.Heartbeat)
		}

		v1.GET("/rate-limits/:action", rateLimitHandler.Status)

		admin := v1.Group("/admin")
		admin.Use(requireSession, middleware.RequireAdmin())
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/users/activity", adminHandler.UserActivity)
			admin.POST("/users/:id/make-admin", adminHandler.MakeAdmin)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)
		}
	}

	r.engine.NoRoute(func(c *gin.Context) {
		dto.SendError(c, errors.ErrNotFound("The requested resource was not found."))
	})
}
