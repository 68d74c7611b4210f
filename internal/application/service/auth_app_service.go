// Package service provides application-level services that orchestrate domain services and repositories
package service

import (
	"context"
	"strings"
	"time"

	"github.com/imRyuukii/LoginPage/internal/application/dto"
	"github.com/imRyuukii/LoginPage/internal/domain/models"
	"github.com/imRyuukii/LoginPage/internal/domain/repository"
	domainService "github.com/imRyuukii/LoginPage/internal/domain/service"
	"github.com/imRyuukii/LoginPage/pkg/constants"
	"github.com/imRyuukii/LoginPage/pkg/errors"
	"github.com/imRyuukii/LoginPage/pkg/logger"
	"github.com/imRyuukii/LoginPage/pkg/utils"
)

const invalidCredentialsMessage = "Invalid login or password."

// AuthAppService defines the interface for the account and session flows
type AuthAppService interface {
	// Register creates an account. Every submission from ip counts against
	// the register limit, so repeated sign-ups are throttled.
	Register(ctx context.Context, ip string, req *dto.RegisterRequest) (*dto.UserResponse, error)

	// Login verifies credentials and opens a session. Failures count against
	// the login limit; a success clears it.
	Login(ctx context.Context, ip string, req *dto.LoginRequest) (*dto.LoginResult, error)

	// Logout closes a session.
	Logout(ctx context.Context, sessionID string) error

	// CurrentUser resolves a session id.
	CurrentUser(ctx context.Context, sessionID string) (*models.Session, error)

	// Heartbeat records activity of the session's user.
	Heartbeat(ctx context.Context, session *models.Session) error
}

// authAppServiceImpl is the concrete implementation of AuthAppService
type authAppServiceImpl struct {
	users    repository.UserRepository
	sessions repository.SessionStore
	limiter  domainService.RateLimiter
	metrics  domainService.Metrics
	logger   logger.Logger
	now      func() time.Time
}

// NewAuthAppService creates a new instance of AuthAppService
func NewAuthAppService(
	users repository.UserRepository,
	sessions repository.SessionStore,
	limiter domainService.RateLimiter,
	metrics domainService.Metrics,
	log logger.Logger,
) AuthAppService {
	return &authAppServiceImpl{
		users:    users,
		sessions: sessions,
		limiter:  limiter,
		metrics:  metrics,
		logger:   log.WithComponent("auth_service"),
		now:      time.Now,
	}
}

func (s *authAppServiceImpl) recordEvent(event string, success bool) {
	if s.metrics != nil {
		s.metrics.RecordAuthEvent(event, success)
	}
}

// rejectIfBlocked returns a rate limit error when ip may not perform action.
func rejectIfBlocked(ctx context.Context, limiter domainService.RateLimiter, ip string, action constants.Action) error {
	if !limiter.IsBlocked(ctx, ip, action) {
		return nil
	}
	seconds := limiter.BlockedTimeRemaining(ctx, ip, action)
	return errors.ErrRateLimited(action.String(), seconds, domainService.BlockedMessage(seconds))
}

// Register implements account creation
func (s *authAppServiceImpl) Register(ctx context.Context, ip string, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	if err := rejectIfBlocked(ctx, s.limiter, ip, constants.ActionRegister); err != nil {
		s.logger.Warn(ctx, "Registration rejected by rate limit", logger.String("client_ip", ip))
		s.recordEvent("register", false)
		return nil, err
	}
	s.limiter.RecordAttempt(ctx, ip, constants.ActionRegister)

	user, err := s.register(ctx, req)
	s.recordEvent("register", err == nil)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "User registered",
		logger.Int64("user_id", int64(user.ID)),
		logger.String("username", user.Username),
		logger.String("client_ip", ip),
	)
	return dto.NewUserResponse(user, s.now()), nil
}

func (s *authAppServiceImpl) register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByUsername(ctx, req.Username); err == nil {
		return nil, errors.ErrConflict("Username already exists.")
	} else if !errors.IsNotFound(err) {
		return nil, err
	}
	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, errors.ErrConflict("Email already exists.")
	} else if !errors.IsNotFound(err) {
		return nil, err
	}

	user, err := models.NewUser(req.Username, req.Email, req.Name, req.Password)
	if err != nil {
		return nil, errors.ErrInternal("failed to create user").WithCause(err)
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login implements credential verification and session creation
func (s *authAppServiceImpl) Login(ctx context.Context, ip string, req *dto.LoginRequest) (*dto.LoginResult, error) {
	if err := rejectIfBlocked(ctx, s.limiter, ip, constants.ActionLogin); err != nil {
		s.logger.Warn(ctx, "Login rejected by rate limit", logger.String("client_ip", ip))
		s.recordEvent("login", false)
		return nil, err
	}

	user, err := s.authenticate(ctx, strings.TrimSpace(req.Login), strings.TrimSpace(req.Password))
	if err != nil {
		if errors.IsUnauthorized(err) {
			s.limiter.RecordAttempt(ctx, ip, constants.ActionLogin)
			s.logger.Info(ctx, "Login failed",
				logger.String("login", req.Login),
				logger.String("client_ip", ip),
			)
		}
		s.recordEvent("login", false)
		return nil, err
	}

	s.limiter.ClearAttempts(ctx, ip, constants.ActionLogin)
	if err := s.users.TouchLastActive(ctx, user.ID, s.now()); err != nil {
		s.logger.Warn(ctx, "Failed to update last activity", logger.Int64("user_id", int64(user.ID)))
	}

	session := models.NewSession(user, ip)
	sessionID, err := s.sessions.Create(ctx, session)
	if err != nil {
		s.recordEvent("login", false)
		return nil, err
	}

	s.recordEvent("login", true)
	s.logger.Info(ctx, "Login succeeded",
		logger.Int64("user_id", int64(user.ID)),
		logger.String("client_ip", ip),
	)
	return &dto.LoginResult{SessionID: sessionID, Session: dto.NewSessionResponse(session)}, nil
}

func (s *authAppServiceImpl) authenticate(ctx context.Context, login, password string) (*models.User, error) {
	if login == "" || password == "" {
		return nil, errors.ErrUnauthorized(invalidCredentialsMessage)
	}
	user, err := s.users.FindByUsername(ctx, login)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.ErrUnauthorized(invalidCredentialsMessage)
		}
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, errors.ErrUnauthorized(invalidCredentialsMessage)
	}
	return user, nil
}

// Logout implements session termination
func (s *authAppServiceImpl) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.recordEvent("logout", true)
	return nil
}

// CurrentUser implements session lookup
func (s *authAppServiceImpl) CurrentUser(ctx context.Context, sessionID string) (*models.Session, error) {
	return s.sessions.Get(ctx, sessionID)
}

// Heartbeat implements activity tracking
func (s *authAppServiceImpl) Heartbeat(ctx context.Context, session *models.Session) error {
	return s.users.TouchLastActive(ctx, session.UserID, s.now())
}
