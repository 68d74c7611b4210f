package models

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/imRyuukii/LoginPage/pkg/constants"
)

// User is a registered account.
type User struct {
	ID           uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string         `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email        string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Name         string         `gorm:"size:100;not null" json:"name"`
	PasswordHash string         `gorm:"column:password_hash;not null" json:"-"`
	Role         constants.Role `gorm:"size:20;not null;default:user" json:"role"`
	CreatedAt    time.Time      `json:"created_at"`
	LastActive   *time.Time     `json:"last_active,omitempty"`
}

// NewUser creates a user with the default role and a bcrypt hash of password.
func NewUser(username, email, name, password string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return &User{
		Username:     username,
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         constants.RoleUser,
	}, nil
}

// CheckPassword reports whether password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// IsAdmin checks if the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == constants.RoleAdmin
}

// IsOnline reports whether the user was active within constants.OnlineThreshold of now.
func (u *User) IsOnline(now time.Time) bool {
	if u.LastActive == nil {
		return false
	}
	return now.Sub(*u.LastActive) <= constants.OnlineThreshold
}

// PresenceLabel renders LastActive relative to now, e.g. "Online" or "3 hours ago".
func (u *User) PresenceLabel(now time.Time) string {
	if u.LastActive == nil {
		return "Never"
	}
	diff := now.Sub(*u.LastActive)
	if diff < 0 {
		diff = 0
	}

	days := int(diff / (24 * time.Hour))
	hours := int(diff / time.Hour)
	minutes := int(diff / time.Minute)

	switch {
	case days == 0 && hours == 0 && minutes <= 2:
		return "Online"
	case days > 0:
		return agoLabel(days, "day")
	case hours > 0:
		return agoLabel(hours, "hour")
	default:
		return agoLabel(minutes, "minute")
	}
}

func agoLabel(n int, unit string) string {
	if n != 1 {
		unit += "s"
	}
	return fmt.Sprintf("%d %s ago", n, unit)
}
