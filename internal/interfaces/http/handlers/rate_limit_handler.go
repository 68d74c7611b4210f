package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imRyuukii/LoginPage/internal/application/dto"
	"github.com/imRyuukii/LoginPage/internal/application/service"
	"github.com/imRyuukii/LoginPage/pkg/constants"
	"github.com/imRyuukii/LoginPage/pkg/utils"
)

// RateLimitHandler reports the caller's rate limit standing.
type RateLimitHandler struct {
	status service.RateLimitStatusService
}

// NewRateLimitHandler creates a new RateLimitHandler.
func NewRateLimitHandler(status service.RateLimitStatusService) *RateLimitHandler {
	return &RateLimitHandler{status: status}
}

// Status handles GET /api/v1/rate-limits/:action.
func (h *RateLimitHandler) Status(c *gin.Context) {
	action := constants.Action(c.Param("action"))
	dto.SendSuccess(c, http.StatusOK, h.status.Status(c.Request.Context(), utils.ClientIP(c.Request), action))
}
