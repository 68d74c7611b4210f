package dto

import (
	"time"

	"github.com/imRyuukii/LoginPage/internal/domain/models"
	"github.com/imRyuukii/LoginPage/pkg/constants"
)

// RegisterRequest is the sign-up form.
type RegisterRequest struct {
	Username        string `json:"username" validate:"required,notblank,max=50"`
	Name            string `json:"name" validate:"required,notblank,max=100"`
	Email           string `json:"email" validate:"required,email,max=255"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// LoginRequest is the login form. Login is the username.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID         uint64         `json:"id"`
	Username   string         `json:"username"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Role       constants.Role `json:"role"`
	CreatedAt  time.Time      `json:"created_at"`
	LastActive *time.Time     `json:"last_active,omitempty"`
	Presence   string         `json:"presence"`
}

// NewUserResponse converts a user model.
func NewUserResponse(u *models.User, now time.Time) *UserResponse {
	return &UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		CreatedAt:  u.CreatedAt,
		LastActive: u.LastActive,
		Presence:   u.PresenceLabel(now),
	}
}

// ListUsersQuery is the admin listing filter taken from the query string.
// Role "all" or empty lists every role.
type ListUsersQuery struct {
	Q       string `form:"q" validate:"max=255"`
	Role    string `form:"role" validate:"omitempty,oneof=all admin user"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}

// UserListResponse is one page of the admin listing.
type UserListResponse struct {
	Users      []*UserResponse `json:"users"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PerPage    int             `json:"per_page"`
	TotalPages int             `json:"total_pages"`
}

// UserActivityResponse is the presence of one account.
type UserActivityResponse struct {
	ID         uint64     `json:"id"`
	Username   string     `json:"username"`
	LastActive *time.Time `json:"last_active"`
	Presence   string     `json:"presence"`
	Online     bool       `json:"online"`
}

// NewUserActivityResponse converts a user model.
func NewUserActivityResponse(u *models.User, now time.Time) *UserActivityResponse {
	return &UserActivityResponse{
		ID:         u.ID,
		Username:   u.Username,
		LastActive: u.LastActive,
		Presence:   u.PresenceLabel(now),
		Online:     u.IsOnline(now),
	}
}

// SessionResponse is the view of the current session.
type SessionResponse struct {
	UserID   uint64         `json:"user_id"`
	Username string         `json:"username"`
	Name     string         `json:"name"`
	Email    string         `json:"email"`
	Role     constants.Role `json:"role"`
}

// NewSessionResponse converts a session model.
func NewSessionResponse(s *models.Session) *SessionResponse {
	return &SessionResponse{
		UserID:   s.UserID,
		Username: s.Username,
		Name:     s.Name,
		Email:    s.Email,
		Role:     s.Role,
	}
}

// LoginResult carries the new session id back to the transport layer.
type LoginResult struct {
	SessionID string
	Session   *SessionResponse
}

// RateLimitStatusResponse describes the caller's standing for one action.
type RateLimitStatusResponse struct {
	Action               string     `json:"action"`
	Limited              bool       `json:"limited"`
	MaxAttempts          int        `json:"max_attempts,omitempty"`
	WindowMinutes        int        `json:"window_minutes,omitempty"`
	Remaining            int        `json:"remaining"`
	ResetAt              *time.Time `json:"reset_at,omitempty"`
	Blocked              bool       `json:"blocked"`
	BlockedSecondsLeft   *int       `json:"blocked_seconds_left,omitempty"`
	BlockedTimeRemaining string     `json:"blocked_time_remaining,omitempty"`
}
