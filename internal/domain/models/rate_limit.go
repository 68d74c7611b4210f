// Package models defines the domain models for the LoginPage service.
package models

import (
	"time"

	"github.com/imRyuukii/LoginPage/pkg/constants"
)

// AttemptRecord is one row of sliding-window bookkeeping for an (ip, action) pair.
// Several rows may exist for the same pair; only the most recent in-window row
// is ever incremented. All timestamps are written by the database clock.
type AttemptRecord struct {
	ID           uint64           `gorm:"primaryKey;autoIncrement" json:"id"`
	IPAddress    string           `gorm:"column:ip_address;size:45;not null;index:idx_rate_limits_ip_action,priority:1" json:"ip_address"`
	Action       constants.Action `gorm:"size:50;not null;index:idx_rate_limits_ip_action,priority:2" json:"action"`
	Attempts     int              `gorm:"not null;default:1" json:"attempts"`
	FirstAttempt time.Time        `gorm:"not null" json:"first_attempt"`
	LastAttempt  time.Time        `gorm:"not null;index" json:"last_attempt"`
	BlockedUntil *time.Time       `json:"blocked_until,omitempty"`
}

// TableName overrides the gorm default.
func (AttemptRecord) TableName() string {
	return "rate_limits"
}

// ActionLimit holds the thresholds of a rate limited action.
type ActionLimit struct {
	MaxAttempts   int
	WindowMinutes int
	BlockMinutes  int
}

// Window returns the sliding window length.
func (l ActionLimit) Window() time.Duration {
	return time.Duration(l.WindowMinutes) * time.Minute
}

// BlockDuration returns how long a block lasts.
func (l ActionLimit) BlockDuration() time.Duration {
	return time.Duration(l.BlockMinutes) * time.Minute
}

// RemainingAttempts is the caller-facing snapshot of an (ip, action) pair.
type RemainingAttempts struct {
	Remaining int        `json:"remaining"`
	ResetAt   *time.Time `json:"reset_at,omitempty"`
	Blocked   bool       `json:"blocked"`
}

// UnlimitedAttempts is returned for unknown actions and when the store is unreachable.
func UnlimitedAttempts() RemainingAttempts {
	return RemainingAttempts{Remaining: constants.UnlimitedRemainingAttempts}
}
