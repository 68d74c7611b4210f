package service

import (
	"context"
	"time"

	domainService "github.com/imRyuukii/LoginPage/internal/domain/service"
	"github.com/imRyuukii/LoginPage/pkg/constants"
	"github.com/imRyuukii/LoginPage/pkg/logger"
)

// CleanupJob periodically removes stale rate limit rows.
type CleanupJob struct {
	limiter    domainService.RateLimiter
	interval   time.Duration
	maxAgeDays int
	logger     logger.Logger
}

// NewCleanupJob creates a cleanup job. Non-positive values fall back to the defaults.
func NewCleanupJob(limiter domainService.RateLimiter, interval time.Duration, maxAgeDays int, log logger.Logger) *CleanupJob {
	if interval <= 0 {
		interval = constants.DefaultCleanupInterval
	}
	if maxAgeDays <= 0 {
		maxAgeDays = constants.DefaultCleanupMaxAgeDays
	}
	return &CleanupJob{
		limiter:    limiter,
		interval:   interval,
		maxAgeDays: maxAgeDays,
		logger:     log.WithComponent("cleanup_job"),
	}
}

// RunOnce performs a single cleanup pass and returns the number of rows removed.
func (j *CleanupJob) RunOnce(ctx context.Context) int {
	return j.limiter.Cleanup(ctx, j.maxAgeDays)
}

// Run blocks until ctx is cancelled, cleaning up once per interval.
// It always returns nil so it can run inside an errgroup without
// tearing the server down.
func (j *CleanupJob) Run(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.logger.Info(ctx, "Rate limit cleanup scheduled",
		logger.Duration("interval", j.interval),
		logger.Int("max_age_days", j.maxAgeDays),
	)
	for {
		select {
		case <-ctx.Done():
			j.logger.Info(context.Background(), "Rate limit cleanup stopped")
			return nil
		case <-ticker.C:
			j.RunOnce(ctx)
		}
	}
}
