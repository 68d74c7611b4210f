package ratelimit

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/imRyuukii/LoginPage/internal/domain/models"
	"github.com/imRyuukii/LoginPage/internal/domain/repository"
	"github.com/imRyuukii/LoginPage/internal/domain/service"
	"github.com/imRyuukii/LoginPage/pkg/constants"
	"github.com/imRyuukii/LoginPage/pkg/logger"
)

var _ service.RateLimiter = (*SlidingWindowLimiter)(nil)

// SlidingWindowLimiter counts attempts per (ip, action) in the relational
// store and blocks a pair once its in-window total reaches the action's
// maximum. It holds no state of its own: every decision is a fresh read.
//
// Persistence failures never reach the caller. Each method logs the error
// and falls back to its permissive default.
type SlidingWindowLimiter struct {
	repo    repository.RateLimitRepository
	limits  Limits
	metrics service.Metrics
	tracer  trace.Tracer
	logger  logger.Logger
}

// NewSlidingWindowLimiter creates a limiter. A nil limits table selects
// DefaultLimits; metrics may be nil.
func NewSlidingWindowLimiter(repo repository.RateLimitRepository, limits Limits, metrics service.Metrics, log logger.Logger) *SlidingWindowLimiter {
	if limits == nil {
		limits = DefaultLimits()
	}
	return &SlidingWindowLimiter{
		repo:    repo,
		limits:  limits,
		metrics: metrics,
		tracer:  otel.Tracer(constants.ServiceName + "/ratelimit"),
		logger:  log.WithComponent("rate_limiter"),
	}
}

// Limit returns the thresholds of action.
func (l *SlidingWindowLimiter) Limit(action constants.Action) (models.ActionLimit, bool) {
	limit, ok := l.limits[action]
	return limit, ok
}

func (l *SlidingWindowLimiter) startSpan(ctx context.Context, op, ip string, action constants.Action) (context.Context, trace.Span) {
	return l.tracer.Start(ctx, "ratelimit."+op, trace.WithAttributes(
		attribute.String("ratelimit.action", action.String()),
		attribute.String("client.address", ip),
	))
}

// storeFailed logs a swallowed persistence error with its operation context.
func (l *SlidingWindowLimiter) storeFailed(ctx context.Context, span trace.Span, op, ip string, action constants.Action, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, "rate limit store failure")
	l.logger.Error(ctx, "Rate limit store failure, failing open", err,
		logger.String("operation", op),
		logger.String("client_ip", ip),
		logger.String("action", action.String()),
	)
	if l.metrics != nil {
		l.metrics.RecordRateLimitStoreError(op)
	}
}

// IsBlocked reports whether ip may not perform action right now.
// A pair whose attempts in the window already reach the maximum is blocked
// on the spot.
func (l *SlidingWindowLimiter) IsBlocked(ctx context.Context, ip string, action constants.Action) bool {
	limit, ok := l.Limit(action)
	if !ok {
		return false
	}
	ctx, span := l.startSpan(ctx, "is_blocked", ip, action)
	defer span.End()

	blocked, err := l.isBlocked(ctx, ip, action, limit)
	if err != nil {
		l.storeFailed(ctx, span, "is_blocked", ip, action, err)
		return false
	}
	span.SetAttributes(attribute.Bool("ratelimit.blocked", blocked))
	if l.metrics != nil {
		l.metrics.RecordRateLimitDecision(action.String(), blocked)
	}
	return blocked
}

func (l *SlidingWindowLimiter) isBlocked(ctx context.Context, ip string, action constants.Action, limit models.ActionLimit) (bool, error) {
	active, err := l.repo.FindActiveBlock(ctx, ip, action)
	if err != nil {
		return false, err
	}
	if active != nil {
		return true, nil
	}

	total, err := l.repo.SumAttemptsInWindow(ctx, ip, action, limit.WindowMinutes)
	if err != nil {
		return false, err
	}
	if total < limit.MaxAttempts {
		return false, nil
	}

	if err := l.block(ctx, ip, action, limit); err != nil {
		return false, err
	}
	return true, nil
}

// RecordAttempt counts one attempt of action by ip and blocks the pair when
// the attempt reaches the maximum.
//
// The new count is derived from the row as read before the increment, so two
// concurrent calls may both miss the threshold by one. The next IsBlocked
// catches up through the window sum.
func (l *SlidingWindowLimiter) RecordAttempt(ctx context.Context, ip string, action constants.Action) {
	limit, ok := l.Limit(action)
	if !ok {
		return
	}
	ctx, span := l.startSpan(ctx, "record_attempt", ip, action)
	defer span.End()

	attempts, err := l.recordAttempt(ctx, ip, action, limit)
	if err != nil {
		l.storeFailed(ctx, span, "record_attempt", ip, action, err)
		return
	}
	span.SetAttributes(attribute.Int("ratelimit.attempts", attempts))
	if l.metrics != nil {
		l.metrics.RecordRateLimitAttempt(action.String())
	}
}

func (l *SlidingWindowLimiter) recordAttempt(ctx context.Context, ip string, action constants.Action, limit models.ActionLimit) (int, error) {
	latest, err := l.repo.FindLatestInWindow(ctx, ip, action, limit.WindowMinutes)
	if err != nil {
		return 0, err
	}

	attempts := 1
	if latest != nil {
		attempts = latest.Attempts + 1
		err = l.repo.IncrementAttempts(ctx, latest.ID)
	} else {
		err = l.repo.Insert(ctx, ip, action)
	}
	if err != nil {
		return 0, err
	}

	if attempts >= limit.MaxAttempts {
		if err := l.block(ctx, ip, action, limit); err != nil {
			return attempts, err
		}
	}
	return attempts, nil
}

// Block puts the pair under a block of the action's length unless a block
// is already active. A pair without a row in the current window gets one,
// counted as an attempt, to carry the block.
func (l *SlidingWindowLimiter) Block(ctx context.Context, ip string, action constants.Action) {
	limit, ok := l.Limit(action)
	if !ok {
		return
	}
	ctx, span := l.startSpan(ctx, "block", ip, action)
	defer span.End()

	if err := l.ensureRow(ctx, ip, action, limit); err != nil {
		l.storeFailed(ctx, span, "block", ip, action, err)
		return
	}
	if err := l.block(ctx, ip, action, limit); err != nil {
		l.storeFailed(ctx, span, "block", ip, action, err)
	}
}

func (l *SlidingWindowLimiter) ensureRow(ctx context.Context, ip string, action constants.Action, limit models.ActionLimit) error {
	latest, err := l.repo.FindLatestInWindow(ctx, ip, action, limit.WindowMinutes)
	if err != nil || latest != nil {
		return err
	}
	return l.repo.Insert(ctx, ip, action)
}

func (l *SlidingWindowLimiter) block(ctx context.Context, ip string, action constants.Action, limit models.ActionLimit) error {
	rows, err := l.repo.Block(ctx, ip, action, limit.BlockMinutes)
	if err != nil {
		return err
	}
	if rows == 0 {
		return nil
	}

	l.logger.Warn(ctx, "Client blocked",
		logger.String("client_ip", ip),
		logger.String("action", action.String()),
		logger.Int("block_minutes", limit.BlockMinutes),
	)
	if l.metrics != nil {
		l.metrics.RecordRateLimitBlock(action.String())
	}
	return nil
}

// ClearAttempts forgets every attempt and block of the pair.
func (l *SlidingWindowLimiter) ClearAttempts(ctx context.Context, ip string, action constants.Action) {
	if _, ok := l.Limit(action); !ok {
		return
	}
	ctx, span := l.startSpan(ctx, "clear_attempts", ip, action)
	defer span.End()

	removed, err := l.repo.DeleteByIPAndAction(ctx, ip, action)
	if err != nil {
		l.storeFailed(ctx, span, "clear_attempts", ip, action, err)
		return
	}
	if removed > 0 {
		l.logger.Debug(ctx, "Attempts cleared",
			logger.String("client_ip", ip),
			logger.String("action", action.String()),
			logger.Int64("rows", removed),
		)
	}
}

// RemainingAttempts reports how many attempts are left in the current window.
func (l *SlidingWindowLimiter) RemainingAttempts(ctx context.Context, ip string, action constants.Action) models.RemainingAttempts {
	limit, ok := l.Limit(action)
	if !ok {
		return models.UnlimitedAttempts()
	}
	ctx, span := l.startSpan(ctx, "remaining_attempts", ip, action)
	defer span.End()

	total, err := l.repo.SumAttemptsInWindow(ctx, ip, action, limit.WindowMinutes)
	if err != nil {
		l.storeFailed(ctx, span, "remaining_attempts", ip, action, err)
		return models.UnlimitedAttempts()
	}

	result := models.RemainingAttempts{Remaining: limit.MaxAttempts - total}
	if result.Remaining < 0 {
		result.Remaining = 0
	}
	result.Blocked = result.Remaining <= 0

	if total > 0 {
		latest, err := l.repo.FindLatestInWindow(ctx, ip, action, limit.WindowMinutes)
		if err != nil {
			l.storeFailed(ctx, span, "remaining_attempts", ip, action, err)
			return models.UnlimitedAttempts()
		}
		if latest != nil {
			resetAt := latest.LastAttempt.Add(limit.Window())
			result.ResetAt = &resetAt
		}
	}
	return result
}

// BlockedTimeRemaining returns the seconds left on the pair's active block
// as measured by the store's clock, or nil when it is not blocked.
func (l *SlidingWindowLimiter) BlockedTimeRemaining(ctx context.Context, ip string, action constants.Action) *int {
	if _, ok := l.Limit(action); !ok {
		return nil
	}
	ctx, span := l.startSpan(ctx, "blocked_time_remaining", ip, action)
	defer span.End()

	seconds, err := l.repo.SecondsUntilUnblocked(ctx, ip, action)
	if err != nil {
		l.storeFailed(ctx, span, "blocked_time_remaining", ip, action, err)
		return nil
	}
	if seconds == nil {
		return nil
	}

	remaining := int(*seconds)
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}

// Cleanup deletes rows idle for longer than maxAgeDays that carry no active
// block, returning how many were removed. maxAgeDays <= 0 selects the
// default retention.
func (l *SlidingWindowLimiter) Cleanup(ctx context.Context, maxAgeDays int) int {
	if maxAgeDays <= 0 {
		maxAgeDays = constants.DefaultCleanupMaxAgeDays
	}
	ctx, span := l.tracer.Start(ctx, "ratelimit.cleanup", trace.WithAttributes(
		attribute.Int("ratelimit.max_age_days", maxAgeDays),
	))
	defer span.End()

	start := time.Now()
	removed, err := l.repo.DeleteStale(ctx, maxAgeDays)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rate limit cleanup failed")
		l.logger.Error(ctx, "Rate limit cleanup failed", err, logger.Int("max_age_days", maxAgeDays))
		if l.metrics != nil {
			l.metrics.RecordRateLimitStoreError("cleanup")
		}
		return 0
	}

	l.logger.Info(ctx, "Rate limit cleanup finished",
		logger.Int64("removed", removed),
		logger.Int("max_age_days", maxAgeDays),
	)
	if l.metrics != nil {
		l.metrics.RecordCleanup(int(removed), time.Since(start))
	}
	return int(removed)
}
