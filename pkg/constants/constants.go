// Package constants defines system-wide constants for the LoginPage service.
// This package provides type-safe constant definitions used across all modules.
package constants

import "time"

// ================================================================================
// Rate Limit Actions
// ================================================================================

// Action names a category of sensitive operation guarded by the rate limiter.
type Action string

const (
	// ActionLogin guards password logins
	ActionLogin Action = "login"

	// ActionRegister guards account creation
	ActionRegister Action = "register"

	// ActionPasswordReset guards password reset requests
	ActionPasswordReset Action = "password_reset"

	// ActionEmailVerification guards verification email (re)sends
	ActionEmailVerification Action = "email_verification"
)

// String returns the action name as stored in the rate_limits table.
func (a Action) String() string {
	return string(a)
}

const (
	// UnlimitedRemainingAttempts is reported for unconfigured actions and on store failures.
	UnlimitedRemainingAttempts = 999

	// DefaultCleanupMaxAgeDays is the retention for idle rate limit rows.
	DefaultCleanupMaxAgeDays = 7

	// DefaultCleanupInterval is how often the server sweeps stale rate limit rows.
	DefaultCleanupInterval = 1 * time.Hour

	// FallbackClientIP is used when no request source parses as an IP address.
	FallbackClientIP = "0.0.0.0"
)

// ================================================================================
// Client IP Headers
// ================================================================================

const (
	// HeaderCFConnectingIP is set by Cloudflare
	HeaderCFConnectingIP = "CF-Connecting-IP"

	// HeaderXForwardedFor is the standard proxy chain header
	HeaderXForwardedFor = "X-Forwarded-For"

	// HeaderXRealIP is set by nginx-style reverse proxies
	HeaderXRealIP = "X-Real-IP"

	// HeaderRequestID carries the request correlation id
	HeaderRequestID = "X-Request-ID"

	// HeaderRetryAfter tells a blocked client when to retry
	HeaderRetryAfter = "Retry-After"
)

// ================================================================================
// User Roles
// ================================================================================

// Role is the authorization role of a user account.
type Role string

const (
	// RoleUser is the default role for registered accounts
	RoleUser Role = "user"

	// RoleAdmin can list, promote and delete users
	RoleAdmin Role = "admin"
)

const (
	// MinPasswordLength is the shortest accepted password
	MinPasswordLength = 6

	// DefaultSessionTTL is the lifetime of a login session
	DefaultSessionTTL = 24 * time.Hour

	// SessionCookieName is the cookie holding the session id
	SessionCookieName = "loginpage_session"

	// SessionKeyPrefix namespaces session keys in Redis
	SessionKeyPrefix = "loginpage:session:"

	// OnlineThreshold is how recent last_active must be for a user to count as online
	OnlineThreshold = 2 * time.Minute

	// DefaultUsersPerPage is the admin listing page size
	DefaultUsersPerPage = 10

	// MaxUsersPerPage caps per_page on the admin listing
	MaxUsersPerPage = 100
)

// ================================================================================
// Context Keys
// ================================================================================

// ContextKey is the type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyRequestID stores the request id
	ContextKeyRequestID ContextKey = "request_id"

	// ContextKeyTraceID stores the trace id
	ContextKeyTraceID ContextKey = "trace_id"

	// ContextKeySession stores the authenticated session
	ContextKeySession ContextKey = "session"

	// ContextKeyClientIP stores the resolved client IP
	ContextKeyClientIP ContextKey = "client_ip"
)

// ================================================================================
// Logging
// ================================================================================

// LogLevel represents the logging level
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// ServiceName is used for tracing and log metadata.
const ServiceName = "loginpage"
