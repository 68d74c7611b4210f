// Package ratelimit implements the per-IP sliding-window limiter that guards
// login, registration, password reset and email verification.
package ratelimit

import (
	"github.com/imRyuukii/LoginPage/internal/config"
	"github.com/imRyuukii/LoginPage/internal/domain/models"
	"github.com/imRyuukii/LoginPage/pkg/constants"
)

// Limits maps each guarded action to its thresholds. Actions missing from
// the table are not rate limited.
type Limits map[constants.Action]models.ActionLimit

// DefaultLimits returns the built-in action table.
func DefaultLimits() Limits {
	return Limits{
		constants.ActionLogin:             {MaxAttempts: 5, WindowMinutes: 15, BlockMinutes: 30},
		constants.ActionRegister:          {MaxAttempts: 3, WindowMinutes: 60, BlockMinutes: 60},
		constants.ActionPasswordReset:     {MaxAttempts: 3, WindowMinutes: 60, BlockMinutes: 60},
		constants.ActionEmailVerification: {MaxAttempts: 5, WindowMinutes: 60, BlockMinutes: 30},
	}
}

// LimitsFromConfig applies configured overrides on top of the defaults.
// Overrides may also introduce new actions.
func LimitsFromConfig(cfg config.RateLimitConfig) Limits {
	limits := DefaultLimits()
	for name, override := range cfg.Actions {
		limits[constants.Action(name)] = models.ActionLimit{
			MaxAttempts:   override.MaxAttempts,
			WindowMinutes: override.WindowMinutes,
			BlockMinutes:  override.BlockMinutes,
		}
	}
	return limits
}
