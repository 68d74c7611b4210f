package service

import (
	"context"

	"github.com/imRyuukii/LoginPage/internal/domain/models"
	"github.com/imRyuukii/LoginPage/pkg/constants"
)

// RateLimiter decides whether an (ip, action) pair may proceed.
// Implementations fail open: a store failure is logged and the permissive
// default is returned, so no method reports an error.
type RateLimiter interface {
	// IsBlocked reports whether the pair is blocked, escalating to a block
	// when the attempts in the current window already reach the maximum.
	IsBlocked(ctx context.Context, ip string, action constants.Action) bool

	// RecordAttempt registers one failed or throttled attempt.
	RecordAttempt(ctx context.Context, ip string, action constants.Action)

	// Block applies the action's block to the pair unless one is already active.
	Block(ctx context.Context, ip string, action constants.Action)

	// ClearAttempts forgets the pair, typically after a successful action.
	ClearAttempts(ctx context.Context, ip string, action constants.Action)

	RemainingAttempts(ctx context.Context, ip string, action constants.Action) models.RemainingAttempts

	// BlockedTimeRemaining returns the seconds left on an active block, or nil.
	BlockedTimeRemaining(ctx context.Context, ip string, action constants.Action) *int

	// Cleanup removes idle rows older than maxAgeDays and returns how many went.
	Cleanup(ctx context.Context, maxAgeDays int) int

	// Limit returns the thresholds configured for action.
	Limit(action constants.Action) (models.ActionLimit, bool)
}
