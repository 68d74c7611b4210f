package models

import (
	"time"

	"github.com/imRyuukii/LoginPage/pkg/constants"
)

// Session is the server-side state of a logged-in browser.
// It snapshots the user's identity at login time.
type Session struct {
	ID        string         `json:"id"`
	UserID    uint64         `json:"user_id"`
	Username  string         `json:"username"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Role      constants.Role `json:"role"`
	ClientIP  string         `json:"client_ip"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewSession snapshots user into a session. The id is assigned by the store.
func NewSession(user *User, clientIP string) *Session {
	return &Session{
		UserID:    user.ID,
		Username:  user.Username,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		ClientIP:  clientIP,
		CreatedAt: time.Now().UTC(),
	}
}

// IsAdmin checks if the session belongs to an admin.
func (s *Session) IsAdmin() bool {
	return s.Role == constants.RoleAdmin
}
