package postgres

import (
	"context"
	stderrors "errors"
	"time"

	"gorm.io/gorm"

	"github.com/imRyuukii/LoginPage/internal/domain/models"
	"github.com/imRyuukii/LoginPage/internal/domain/repository"
	"github.com/imRyuukii/LoginPage/internal/domain/service"
	"github.com/imRyuukii/LoginPage/pkg/constants"
	"github.com/imRyuukii/LoginPage/pkg/errors"
	"github.com/imRyuukii/LoginPage/pkg/logger"
)

const (
	notActivelyBlocked = "(blocked_until IS NULL OR blocked_until <= ?)"
	insertAttemptSQL   = "INSERT INTO rate_limits (ip_address, action, attempts, first_attempt, last_attempt) VALUES (?, ?, 1, ?, ?)"
)

// RateLimitRepoImpl implements RateLimitRepository with gorm.
// Time arithmetic is delegated to the Dialect so the database clock is the
// only clock involved.
type RateLimitRepoImpl struct {
	db      *gorm.DB
	dialect Dialect
	metrics service.Metrics
	logger  logger.Logger
}

// NewRateLimitRepository creates a new rate limit repository instance.
// metrics may be nil.
func NewRateLimitRepository(db *gorm.DB, dialect Dialect, metrics service.Metrics, log logger.Logger) repository.RateLimitRepository {
	return &RateLimitRepoImpl{
		db:      db,
		dialect: dialect,
		metrics: metrics,
		logger:  log.WithComponent("rate_limit_repository"),
	}
}

func (r *RateLimitRepoImpl) pair(ctx context.Context, ip string, action constants.Action) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.AttemptRecord{}).
		Where("ip_address = ? AND action = ?", ip, action)
}

func (r *RateLimitRepoImpl) observe(operation string, start time.Time) {
	if r.metrics != nil {
		r.metrics.RecordDBQuery(operation, time.Since(start))
	}
}

// FindActiveBlock returns the row carrying the latest future blocked_until.
func (r *RateLimitRepoImpl) FindActiveBlock(ctx context.Context, ip string, action constants.Action) (*models.AttemptRecord, error) {
	defer r.observe("rate_limit_find_active_block", time.Now())

	var record models.AttemptRecord
	err := r.pair(ctx, ip, action).
		Where("blocked_until > ?", r.dialect.Now()).
		Order("blocked_until DESC").
		First(&record).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.ErrInternal("failed to query active block").WithCause(err)
	}
	return &record, nil
}

// SumAttemptsInWindow sums attempts whose last_attempt is inside the window.
func (r *RateLimitRepoImpl) SumAttemptsInWindow(ctx context.Context, ip string, action constants.Action, windowMinutes int) (int, error) {
	defer r.observe("rate_limit_sum_window", time.Now())

	var total int64
	err := r.pair(ctx, ip, action).
		Where("last_attempt >= ?", r.dialect.MinutesAgo(windowMinutes)).
		Select("COALESCE(SUM(attempts), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, errors.ErrInternal("failed to sum attempts").WithCause(err)
	}
	return int(total), nil
}

// FindLatestInWindow returns the most recently touched row inside the window.
func (r *RateLimitRepoImpl) FindLatestInWindow(ctx context.Context, ip string, action constants.Action, windowMinutes int) (*models.AttemptRecord, error) {
	defer r.observe("rate_limit_find_latest", time.Now())

	var record models.AttemptRecord
	err := r.pair(ctx, ip, action).
		Where("last_attempt >= ?", r.dialect.MinutesAgo(windowMinutes)).
		Order("last_attempt DESC").
		Order("id DESC").
		First(&record).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.ErrInternal("failed to query latest attempt").WithCause(err)
	}
	return &record, nil
}

// Insert creates a fresh row stamped with the database clock.
func (r *RateLimitRepoImpl) Insert(ctx context.Context, ip string, action constants.Action) error {
	defer r.observe("rate_limit_insert", time.Now())

	now := r.dialect.Now()
	if err := r.db.WithContext(ctx).Exec(insertAttemptSQL, ip, action, now, now).Error; err != nil {
		return errors.ErrInternal("failed to insert attempt").WithCause(err)
	}
	return nil
}

// IncrementAttempts bumps a row in place.
func (r *RateLimitRepoImpl) IncrementAttempts(ctx context.Context, id uint64) error {
	defer r.observe("rate_limit_increment", time.Now())

	err := r.db.WithContext(ctx).
		Model(&models.AttemptRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts":     gorm.Expr("attempts + 1"),
			"last_attempt": r.dialect.Now(),
		}).Error
	if err != nil {
		return errors.ErrInternal("failed to increment attempts").WithCause(err)
	}
	return nil
}

// Block writes blocked_until on rows that are not actively blocked, so an
// existing block is never shortened or extended.
func (r *RateLimitRepoImpl) Block(ctx context.Context, ip string, action constants.Action, blockMinutes int) (int64, error) {
	defer r.observe("rate_limit_block", time.Now())

	result := r.pair(ctx, ip, action).
		Where(notActivelyBlocked, r.dialect.Now()).
		Update("blocked_until", r.dialect.MinutesAhead(blockMinutes))
	if result.Error != nil {
		return 0, errors.ErrInternal("failed to block pair").WithCause(result.Error)
	}
	if result.RowsAffected > 0 {
		r.logger.Debug(ctx, "Rate limit block written",
			logger.String("client_ip", ip),
			logger.String("action", action.String()),
			logger.Int64("rows", result.RowsAffected),
		)
	}
	return result.RowsAffected, nil
}

// SecondsUntilUnblocked asks the database for the remaining block time.
func (r *RateLimitRepoImpl) SecondsUntilUnblocked(ctx context.Context, ip string, action constants.Action) (*int64, error) {
	defer r.observe("rate_limit_seconds_remaining", time.Now())

	var seconds []int64
	err := r.pair(ctx, ip, action).
		Where("blocked_until > ?", r.dialect.Now()).
		Order("blocked_until DESC").
		Limit(1).
		Pluck(r.dialect.SecondsUntil("blocked_until"), &seconds).Error
	if err != nil {
		return nil, errors.ErrInternal("failed to compute block time").WithCause(err)
	}
	if len(seconds) == 0 {
		return nil, nil
	}
	return &seconds[0], nil
}

// DeleteByIPAndAction forgets every row of the pair.
func (r *RateLimitRepoImpl) DeleteByIPAndAction(ctx context.Context, ip string, action constants.Action) (int64, error) {
	defer r.observe("rate_limit_delete_pair", time.Now())

	result := r.db.WithContext(ctx).
		Where("ip_address = ? AND action = ?", ip, action).
		Delete(&models.AttemptRecord{})
	if result.Error != nil {
		return 0, errors.ErrInternal("failed to clear attempts").WithCause(result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteStale removes idle rows that carry no active block.
func (r *RateLimitRepoImpl) DeleteStale(ctx context.Context, maxAgeDays int) (int64, error) {
	defer r.observe("rate_limit_delete_stale", time.Now())

	result := r.db.WithContext(ctx).
		Where("last_attempt < ?", r.dialect.DaysAgo(maxAgeDays)).
		Where(notActivelyBlocked, r.dialect.Now()).
		Delete(&models.AttemptRecord{})
	if result.Error != nil {
		return 0, errors.ErrInternal("failed to delete stale rows").WithCause(result.Error)
	}
	return result.RowsAffected, nil
}
