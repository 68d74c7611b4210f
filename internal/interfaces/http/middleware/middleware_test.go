package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.opentelemetry.io/otel"

	"github.com/imRyuukii/LoginPage/internal/domain/models"
	"github.com/imRyuukii/LoginPage/internal/domain/service/mocks"
	"github.com/imRyuukii/LoginPage/internal/infrastructure/monitoring"
	"github.com/imRyuukii/LoginPage/pkg/constants"
	"github.com/imRyuukii/LoginPage/pkg/errors"
	"github.com/imRyuukii/LoginPage/pkg/logger"
)

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func ok(c *gin.Context) { c.Status(http.StatusOK) }

func TestRateLimitGuard(t *testing.T) {
	gin.SetMode(gin.TestMode)
	const ip = "203.0.113.50"

	t.Run("AllowsWhenNotBlocked", func(t *testing.T) {
		limiter := new(mocks.MockRateLimiter)
		limiter.On("IsBlocked", mock.Anything, ip, constants.ActionLogin).Return(false).Once()

		router := gin.New()
		router.POST("/login", RateLimitGuard(limiter, constants.ActionLogin, logger.NewNoopLogger()), ok)
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.Header.Set(constants.HeaderCFConnectingIP, ip)

		assert.Equal(t, http.StatusOK, serve(router, req).Code)
		limiter.AssertExpectations(t)
	})

	t.Run("RejectsWhenBlocked", func(t *testing.T) {
		limiter := new(mocks.MockRateLimiter)
		seconds := 45
		limiter.On("IsBlocked", mock.Anything, ip, constants.ActionLogin).Return(true).Once()
		limiter.On("BlockedTimeRemaining", mock.Anything, ip, constants.ActionLogin).Return(&seconds).Once()

		reached := false
		router := gin.New()
		router.POST("/login", RateLimitGuard(limiter, constants.ActionLogin, logger.NewNoopLogger()), func(c *gin.Context) {
			reached = true
		})
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.Header.Set(constants.HeaderCFConnectingIP, ip)

		w := serve(router, req)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "45", w.Header().Get(constants.HeaderRetryAfter))
		assert.Contains(t, w.Body.String(), "Too many attempts. Please try again in 45 seconds.")
		assert.False(t, reached)
		limiter.AssertNotCalled(t, "RecordAttempt", mock.Anything, mock.Anything, mock.Anything)
	})
}

type stubAuth struct {
	session *models.Session
}

func (s stubAuth) CurrentUser(_ context.Context, id string) (*models.Session, error) {
	if s.session == nil || id != s.session.ID {
		return nil, errors.ErrUnauthorized("Session expired.")
	}
	return s.session, nil
}

func TestRequireSessionAndAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	user := &models.Session{ID: "u1", UserID: 2, Role: constants.RoleUser}

	svc := stubAuth{session: user}

	router := gin.New()
	router.GET("/me", RequireSession(svc, "sid"), func(c *gin.Context) {
		assert.Equal(t, user, SessionFrom(c))
		c.Status(http.StatusOK)
	})
	router.GET("/admin", RequireSession(svc, "sid"), RequireAdmin(), ok)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, serve(router, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "stale"})
	assert.Equal(t, http.StatusUnauthorized, serve(router, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "u1"})
	assert.Equal(t, http.StatusOK, serve(router, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "u1"})
	assert.Equal(t, http.StatusForbidden, serve(router, req).Code)

	user.Role = constants.RoleAdmin
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "u1"})
	assert.Equal(t, http.StatusOK, serve(router, req).Code)
}

func TestRequestIDAndRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Recovery(logger.NewNoopLogger()), RequestID(), Logging(logger.NewNoopLogger()))
	router.GET("/id", func(c *gin.Context) {
		id, _ := c.Request.Context().Value(constants.ContextKeyRequestID).(string)
		c.String(http.StatusOK, id)
	})
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(constants.HeaderRequestID, "req-123")
	w := serve(router, req)
	assert.Equal(t, "req-123", w.Header().Get(constants.HeaderRequestID))
	assert.Equal(t, "req-123", w.Body.String())

	w = serve(router, httptest.NewRequest(http.MethodGet, "/id", nil))
	assert.Len(t, w.Header().Get(constants.HeaderRequestID), 36)

	w = serve(router, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal_error")
}

func TestObservabilityMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := monitoring.NewMetrics(prometheus.NewRegistry())

	router := gin.New()
	router.Use(ObservabilityMiddleware(otel.Tracer("test"), metrics))
	router.GET("/test/:id", ok)

	serve(router, httptest.NewRequest(http.MethodGet, "/test/1", nil))
	serve(router, httptest.NewRequest(http.MethodGet, "/test/2", nil))
	serve(router, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("GET", "/test/:id", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("GET", "not_found", "404")))
}
