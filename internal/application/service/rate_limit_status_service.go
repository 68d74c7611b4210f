package service

import (
	"context"

	"github.com/imRyuukii/LoginPage/internal/application/dto"
	domainService "github.com/imRyuukii/LoginPage/internal/domain/service"
	"github.com/imRyuukii/LoginPage/pkg/constants"
)

// RateLimitStatusService reports and adjusts the standing of an IP.
type RateLimitStatusService interface {
	Status(ctx context.Context, ip string, action constants.Action) *dto.RateLimitStatusResponse
	Clear(ctx context.Context, ip string, action constants.Action)
	Block(ctx context.Context, ip string, action constants.Action) *dto.RateLimitStatusResponse
}

type rateLimitStatusServiceImpl struct {
	limiter domainService.RateLimiter
}

// NewRateLimitStatusService creates a new instance of RateLimitStatusService
func NewRateLimitStatusService(limiter domainService.RateLimiter) RateLimitStatusService {
	return &rateLimitStatusServiceImpl{limiter: limiter}
}

// Status is read-only; it never writes a block even when the window is full.
func (s *rateLimitStatusServiceImpl) Status(ctx context.Context, ip string, action constants.Action) *dto.RateLimitStatusResponse {
	resp := &dto.RateLimitStatusResponse{Action: action.String()}
	limit, ok := s.limiter.Limit(action)
	if !ok {
		resp.Remaining = constants.UnlimitedRemainingAttempts
		return resp
	}
	resp.Limited = true
	resp.MaxAttempts = limit.MaxAttempts
	resp.WindowMinutes = limit.WindowMinutes

	remaining := s.limiter.RemainingAttempts(ctx, ip, action)
	resp.Remaining = remaining.Remaining
	resp.ResetAt = remaining.ResetAt
	resp.Blocked = remaining.Blocked

	if seconds := s.limiter.BlockedTimeRemaining(ctx, ip, action); seconds != nil {
		resp.Blocked = true
		resp.BlockedSecondsLeft = seconds
		resp.BlockedTimeRemaining = domainService.FormatTimeRemaining(*seconds)
	}
	return resp
}

func (s *rateLimitStatusServiceImpl) Clear(ctx context.Context, ip string, action constants.Action) {
	s.limiter.ClearAttempts(ctx, ip, action)
}

func (s *rateLimitStatusServiceImpl) Block(ctx context.Context, ip string, action constants.Action) *dto.RateLimitStatusResponse {
	s.limiter.Block(ctx, ip, action)
	return s.Status(ctx, ip, action)
}
