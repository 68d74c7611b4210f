package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	appservice "github.com/imRyuukii/LoginPage/internal/application/service"
	"github.com/imRyuukii/LoginPage/internal/config"
	"github.com/imRyuukii/LoginPage/internal/infrastructure/monitoring"
	"github.com/imRyuukii/LoginPage/internal/infrastructure/persistence/postgres"
	"github.com/imRyuukii/LoginPage/internal/infrastructure/persistence/redis"
	"github.com/imRyuukii/LoginPage/internal/infrastructure/ratelimit"
	httpapi "github.com/imRyuukii/LoginPage/internal/interfaces/http"
	"github.com/imRyuukii/LoginPage/internal/interfaces/http/handlers"
	"github.com/imRyuukii/LoginPage/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := monitoring.NewZapLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Error(context.Background(), "Server exited with error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, appLogger logger.Logger) error {
	tracing, err := monitoring.NewTracingManager(cfg, appLogger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		_ = tracing.Shutdown(shutdownCtx)
	}()

	db, err := postgres.NewDBConnection(ctx, &cfg.Database, appLogger)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		return err
	}

	redisConn, err := redis.NewRedisConnection(ctx, &cfg.Redis, appLogger)
	if err != nil {
		return err
	}
	defer redisConn.Close()

	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)

	rateLimitRepo := postgres.NewRateLimitRepository(db.DB(), db.Dialect(), metrics, appLogger)
	limiter := ratelimit.NewSlidingWindowLimiter(rateLimitRepo, ratelimit.LimitsFromConfig(cfg.RateLimit), metrics, appLogger)
	userRepo := postgres.NewUserRepository(db.DB(), db.Dialect(), appLogger)
	sessions := redis.NewSessionStore(redisConn.GetClient(), cfg.Session.TTL, appLogger)

	router := httpapi.NewRouter(cfg, appLogger, httpapi.Dependencies{
		AuthService:      appservice.NewAuthAppService(userRepo, sessions, limiter, metrics, appLogger),
		UserAdminService: appservice.NewUserAdminService(userRepo, sessions, appLogger),
		StatusService:    appservice.NewRateLimitStatusService(limiter),
		Limiter:          limiter,
		Metrics:          metrics,
		Tracer:           tracing.Tracer(),
		Gatherer:         prometheus.DefaultGatherer,
		HealthChecks: map[string]handlers.Pinger{
			"database": db,
			"redis":    redisConn,
		},
	})

	server := &http.Server{
		Addr:           cfg.Server.Addr(),
		Handler:        router.Handler(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
	cleanup := appservice.NewCleanupJob(limiter, cfg.RateLimit.CleanupInterval, cfg.RateLimit.CleanupMaxAgeDays, appLogger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appLogger.Info(gctx, "Starting HTTP server", logger.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return cleanup.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info(context.Background(), "Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
