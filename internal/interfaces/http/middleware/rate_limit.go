package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/imRyuukii/LoginPage/internal/application/dto"
	"github.com/imRyuukii/LoginPage/internal/domain/service"
	"github.com/imRyuukii/LoginPage/internal/infrastructure/ratelimit"
	"github.com/imRyuukii/LoginPage/pkg/constants"
	"github.com/imRyuukii/LoginPage/pkg/errors"
	"github.com/imRyuukii/LoginPage/pkg/logger"
)

// RateLimitGuard rejects the request with 429 when the client IP is blocked
// for action. It only performs the pre-check; recording attempts is left to
// the handler, which knows whether the action failed.
func RateLimitGuard(limiter service.RateLimiter, action constants.Action, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rl := ratelimit.ForRequest(limiter, c.Request)
		if !rl.IsBlocked(action) {
			c.Next()
			return
		}

		seconds := rl.BlockedTimeRemaining(action)
		log.Warn(c.Request.Context(), "Request blocked by rate limit",
			logger.String("action", action.String()),
			logger.String("client_ip", rl.ClientIP()),
		)
		dto.SendError(c, errors.ErrRateLimited(action.String(), seconds, service.BlockedMessage(seconds)))
	}
}
