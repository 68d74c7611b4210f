package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/imRyuukii/LoginPage/internal/domain/models"
	"github.com/imRyuukii/LoginPage/pkg/constants"
)

// MockRateLimiter is a mock implementation of service.RateLimiter
type MockRateLimiter struct {
	mock.Mock
}

func (m *MockRateLimiter) IsBlocked(ctx context.Context, ip string, action constants.Action) bool {
	args := m.Called(ctx, ip, action)
	return args.Bool(0)
}

func (m *MockRateLimiter) RecordAttempt(ctx context.Context, ip string, action constants.Action) {
	m.Called(ctx, ip, action)
}

func (m *MockRateLimiter) Block(ctx context.Context, ip string, action constants.Action) {
	m.Called(ctx, ip, action)
}

func (m *MockRateLimiter) ClearAttempts(ctx context.Context, ip string, action constants.Action) {
	m.Called(ctx, ip, action)
}

func (m *MockRateLimiter) RemainingAttempts(ctx context.Context, ip string, action constants.Action) models.RemainingAttempts {
	args := m.Called(ctx, ip, action)
	return args.Get(0).(models.RemainingAttempts)
}

func (m *MockRateLimiter) BlockedTimeRemaining(ctx context.Context, ip string, action constants.Action) *int {
	args := m.Called(ctx, ip, action)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*int)
}

func (m *MockRateLimiter) Cleanup(ctx context.Context, maxAgeDays int) int {
	args := m.Called(ctx, maxAgeDays)
	return args.Int(0)
}

func (m *MockRateLimiter) Limit(action constants.Action) (models.ActionLimit, bool) {
	args := m.Called(action)
	return args.Get(0).(models.ActionLimit), args.Bool(1)
}
