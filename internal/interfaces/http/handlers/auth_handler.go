package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imRyuukii/LoginPage/internal/application/dto"
	"github.com/imRyuukii/LoginPage/internal/application/service"
	"github.com/imRyuukii/LoginPage/internal/config"
	"github.com/imRyuukii/LoginPage/internal/interfaces/http/middleware"
	"github.com/imRyuukii/LoginPage/pkg/errors"
	"github.com/imRyuukii/LoginPage/pkg/utils"
)

// AuthHandler handles HTTP requests for registration and sessions.
type AuthHandler struct {
	authService service.AuthAppService
	cookie      config.SessionConfig
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthAppService, cookie config.SessionConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookie:      cookie,
	}
}

// fail records err on the gin context for the request logger and renders it.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	dto.SendError(c, err)
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, errors.ErrInvalidRequest("Malformed request body.").WithCause(err))
		return
	}

	user, err := h.authService.Register(c.Request.Context(), utils.ClientIP(c.Request), &req)
	if err != nil {
		fail(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusCreated, user)
}

// Login handles POST /api/v1/auth/login and sets the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, errors.ErrInvalidRequest("Malformed request body.").WithCause(err))
		return
	}

	result, err := h.authService.Login(c.Request.Context(), utils.ClientIP(c.Request), &req)
	if err != nil {
		fail(c, err)
		return
	}
	h.setCookie(c, result.SessionID, int(h.cookie.TTL.Seconds()))
	dto.SendSuccess(c, http.StatusOK, result.Session)
}

// Logout handles POST /api/v1/auth/logout. It succeeds without a session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if id, err := c.Cookie(h.cookie.CookieName); err == nil && id != "" {
		if err := h.authService.Logout(c.Request.Context(), id); err != nil {
			fail(c, err)
			return
		}
	}
	h.setCookie(c, "", -1)
	dto.SendSuccess(c, http.StatusOK, gin.H{"status": "logged_out"})
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	dto.SendSuccess(c, http.StatusOK, dto.NewSessionResponse(middleware.SessionFrom(c)))
}

// Heartbeat handles POST /api/v1/auth/heartbeat.
func (h *AuthHandler) Heartbeat(c *gin.Context) {
	if err := h.authService.Heartbeat(c.Request.Context(), middleware.SessionFrom(c)); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, value, maxAge, "/", h.cookie.CookieDomain, h.cookie.CookieSecure, true)
}
