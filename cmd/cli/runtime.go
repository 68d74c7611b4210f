package cli

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	appservice "github.com/imRyuukii/LoginPage/internal/application/service"
	"github.com/imRyuukii/LoginPage/internal/config"
	domainService "github.com/imRyuukii/LoginPage/internal/domain/service"
	"github.com/imRyuukii/LoginPage/internal/infrastructure/monitoring"
	"github.com/imRyuukii/LoginPage/internal/infrastructure/persistence/postgres"
	"github.com/imRyuukii/LoginPage/internal/infrastructure/ratelimit"
	"github.com/imRyuukii/LoginPage/pkg/logger"
)

// runtime is the store-backed environment shared by the commands.
type runtime struct {
	cfg     *config.Config
	log     logger.Logger
	db      *postgres.DBConnection
	limiter domainService.RateLimiter
	status  appservice.RateLimitStatusService
}

// openRuntime loads configuration and connects to the store. Logs go to
// stderr so command output stays parseable.
func openRuntime(ctx context.Context, configPath string) (*runtime, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	cfg.Log.OutputPath = "stderr"
	log, err := monitoring.NewZapLogger(&cfg.Log)
	if err != nil {
		return nil, err
	}

	db, err := postgres.NewDBConnection(ctx, &cfg.Database, log)
	if err != nil {
		return nil, err
	}

	metrics := monitoring.NewMetrics(prometheus.NewRegistry())
	repo := postgres.NewRateLimitRepository(db.DB(), db.Dialect(), metrics, log)
	limiter := ratelimit.NewSlidingWindowLimiter(repo, ratelimit.LimitsFromConfig(cfg.RateLimit), metrics, log)

	return &runtime{
		cfg:     cfg,
		log:     log,
		db:      db,
		limiter: limiter,
		status:  appservice.NewRateLimitStatusService(limiter),
	}, nil
}

func (r *runtime) Close() {
	r.db.Close()
}
