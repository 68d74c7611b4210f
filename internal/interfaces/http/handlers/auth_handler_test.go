package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/imRyuukii/LoginPage/internal/application/dto"
	"github.com/imRyuukii/LoginPage/internal/config"
	"github.com/imRyuukii/LoginPage/internal/domain/models"
	"github.com/imRyuukii/LoginPage/pkg/errors"
)

// MockAuthAppService is a mock for the AuthAppService
type MockAuthAppService struct {
	mock.Mock
}

func (m *MockAuthAppService) Register(ctx context.Context, ip string, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	args := m.Called(ctx, ip, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

func (m *MockAuthAppService) Login(ctx context.Context, ip string, req *dto.LoginRequest) (*dto.LoginResult, error) {
	args := m.Called(ctx, ip, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LoginResult), args.Error(1)
}

func (m *MockAuthAppService) Logout(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *MockAuthAppService) CurrentUser(ctx context.Context, sessionID string) (*models.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockAuthAppService) Heartbeat(ctx context.Context, session *models.Session) error {
	return m.Called(ctx, session).Error(0)
}

var testCookie = config.SessionConfig{TTL: time.Hour, CookieName: "sid", CookieSecure: true}

func newAuthRouter(svc *MockAuthAppService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewAuthHandler(svc, testCookie)
	router := gin.New()
	router.POST("/register", handler.Register)
	router.POST("/login", handler.Login)
	router.POST("/logout", handler.Logout)
	return router
}

func postJSON(router http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	jsonBody, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("SetsSessionCookie", func(t *testing.T) {
		svc := new(MockAuthAppService)
		router := newAuthRouter(svc)
		svc.On("Login", mock.Anything, "203.0.113.9", &dto.LoginRequest{Login: "alice", Password: "secret1"}).
			Return(&dto.LoginResult{SessionID: "abc", Session: &dto.SessionResponse{UserID: 1, Username: "alice"}}, nil).Once()

		rr := postJSON(router, "/login", map[string]string{"login": "alice", "password": "secret1"})
		require.Equal(t, http.StatusOK, rr.Code)

		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "sid", cookies[0].Name)
		assert.Equal(t, "abc", cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
		assert.True(t, cookies[0].Secure)
		assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
		assert.Equal(t, 3600, cookies[0].MaxAge)
		svc.AssertExpectations(t)
	})

	t.Run("RateLimitedSetsRetryAfter", func(t *testing.T) {
		svc := new(MockAuthAppService)
		router := newAuthRouter(svc)
		seconds := 90
		svc.On("Login", mock.Anything, "203.0.113.9", mock.Anything).
			Return(nil, errors.ErrRateLimited("login", &seconds, "Too many attempts. Please try again in 2 minutes.")).Once()

		rr := postJSON(router, "/login", map[string]string{"login": "alice", "password": "x"})
		assert.Equal(t, http.StatusTooManyRequests, rr.Code)
		assert.Equal(t, "90", rr.Header().Get("Retry-After"))
		assert.Empty(t, rr.Result().Cookies())
	})

	t.Run("MalformedBody", func(t *testing.T) {
		svc := new(MockAuthAppService)
		router := newAuthRouter(svc)
		req, _ := http.NewRequest(http.MethodPost, "/login", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		svc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthHandler_Register(t *testing.T) {
	svc := new(MockAuthAppService)
	router := newAuthRouter(svc)
	svc.On("Register", mock.Anything, "203.0.113.9", mock.MatchedBy(func(r *dto.RegisterRequest) bool {
		return r.Username == "alice" && r.ConfirmPassword == "secret1"
	})).Return(&dto.UserResponse{ID: 1, Username: "alice"}, nil).Once()

	rr := postJSON(router, "/register", map[string]string{
		"username": "alice", "name": "Alice", "email": "alice@example.com",
		"password": "secret1", "confirm_password": "secret1",
	})
	assert.Equal(t, http.StatusCreated, rr.Code)
	svc.AssertExpectations(t)
}

func TestAuthHandler_LogoutWithoutSession(t *testing.T) {
	svc := new(MockAuthAppService)
	router := newAuthRouter(svc)

	rr := postJSON(router, "/logout", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertNotCalled(t, "Logout", mock.Anything, mock.Anything)
}
