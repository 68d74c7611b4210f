package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/imRyuukii/LoginPage/internal/config"
	"github.com/imRyuukii/LoginPage/internal/domain/models"
	"github.com/imRyuukii/LoginPage/pkg/constants"
)

func TestLimitsFromConfig(t *testing.T) {
	limits := LimitsFromConfig(config.RateLimitConfig{
		Actions: map[string]config.ActionLimitConfig{
			"login":         {MaxAttempts: 10, WindowMinutes: 5, BlockMinutes: 15},
			"contact_sales": {MaxAttempts: 2, WindowMinutes: 60, BlockMinutes: 120},
		},
	})

	assert.Equal(t, models.ActionLimit{MaxAttempts: 10, WindowMinutes: 5, BlockMinutes: 15}, limits[constants.ActionLogin])
	assert.Equal(t, models.ActionLimit{MaxAttempts: 3, WindowMinutes: 60, BlockMinutes: 60}, limits[constants.ActionRegister])
	assert.Contains(t, limits, constants.Action("contact_sales"))
	assert.Len(t, DefaultLimits(), 4)
}
