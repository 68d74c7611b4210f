// Package repository defines the persistence contracts of the domain.
package repository

import (
	"context"

	"github.com/imRyuukii/LoginPage/internal/domain/models"
	"github.com/imRyuukii/LoginPage/pkg/constants"
)

// RateLimitRepository persists sliding-window attempt rows.
// Every time comparison is evaluated by the database clock, so implementations
// receive window and block lengths in minutes rather than Go timestamps.
// Implementation: internal/infrastructure/persistence/postgres/rate_limit_repo_impl.go
type RateLimitRepository interface {
	// FindActiveBlock returns a row whose blocked_until is still in the future,
	// or nil when the pair is not blocked.
	FindActiveBlock(ctx context.Context, ip string, action constants.Action) (*models.AttemptRecord, error)

	// SumAttemptsInWindow sums attempts of rows whose last_attempt falls inside
	// the trailing window.
	SumAttemptsInWindow(ctx context.Context, ip string, action constants.Action, windowMinutes int) (int, error)

	// FindLatestInWindow returns the most recent row inside the window, or nil.
	FindLatestInWindow(ctx context.Context, ip string, action constants.Action, windowMinutes int) (*models.AttemptRecord, error)

	// Insert creates a row with attempts = 1 and both timestamps set to now.
	Insert(ctx context.Context, ip string, action constants.Action) error

	// IncrementAttempts bumps attempts by one and refreshes last_attempt.
	IncrementAttempts(ctx context.Context, id uint64) error

	// Block sets blocked_until = now + blockMinutes on every row of the pair
	// that is not already actively blocked. Returns the number of rows written.
	Block(ctx context.Context, ip string, action constants.Action, blockMinutes int) (int64, error)

	// SecondsUntilUnblocked returns the seconds left on the active block as
	// computed by the database, or nil when the pair is not blocked.
	SecondsUntilUnblocked(ctx context.Context, ip string, action constants.Action) (*int64, error)

	// DeleteByIPAndAction removes every row of the pair.
	DeleteByIPAndAction(ctx context.Context, ip string, action constants.Action) (int64, error)

	// DeleteStale removes rows idle for more than maxAgeDays that are not
	// actively blocked.
	DeleteStale(ctx context.Context, maxAgeDays int) (int64, error)
}
