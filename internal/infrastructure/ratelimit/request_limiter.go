package ratelimit

import (
	"context"
	"net/http"

	"github.com/imRyuukii/LoginPage/internal/domain/models"
	"github.com/imRyuukii/LoginPage/internal/domain/service"
	"github.com/imRyuukii/LoginPage/pkg/constants"
	"github.com/imRyuukii/LoginPage/pkg/utils"
)

// RequestLimiter binds a limiter to the client of one request so callers
// only name the action.
type RequestLimiter struct {
	limiter service.RateLimiter
	ctx     context.Context
	ip      string
}

// ForRequest resolves the client address of r and binds limiter to it.
func ForRequest(limiter service.RateLimiter, r *http.Request) *RequestLimiter {
	return &RequestLimiter{
		limiter: limiter,
		ctx:     r.Context(),
		ip:      utils.ClientIP(r),
	}
}

// ForRequest binds the limiter to the client of r.
func (l *SlidingWindowLimiter) ForRequest(r *http.Request) *RequestLimiter {
	return ForRequest(l, r)
}

// ClientIP returns the resolved client address.
func (r *RequestLimiter) ClientIP() string {
	return r.ip
}

func (r *RequestLimiter) IsBlocked(action constants.Action) bool {
	return r.limiter.IsBlocked(r.ctx, r.ip, action)
}

func (r *RequestLimiter) RecordAttempt(action constants.Action) {
	r.limiter.RecordAttempt(r.ctx, r.ip, action)
}

func (r *RequestLimiter) ClearAttempts(action constants.Action) {
	r.limiter.ClearAttempts(r.ctx, r.ip, action)
}

func (r *RequestLimiter) RemainingAttempts(action constants.Action) models.RemainingAttempts {
	return r.limiter.RemainingAttempts(r.ctx, r.ip, action)
}

func (r *RequestLimiter) BlockedTimeRemaining(action constants.Action) *int {
	return r.limiter.BlockedTimeRemaining(r.ctx, r.ip, action)
}

// BlockedMessage returns a user-facing message for a blocked action.
func (r *RequestLimiter) BlockedMessage(action constants.Action) string {
	return service.BlockedMessage(r.BlockedTimeRemaining(action))
}
