// Package service defines the interfaces for domain services.
package service

import (
	"time"
)

// Metrics defines the interface for collecting business metrics.
// The application layer stays independent of the monitoring backend.
type Metrics interface {
	// RecordRateLimitDecision counts IsBlocked outcomes per action.
	RecordRateLimitDecision(action string, blocked bool)

	// RecordRateLimitAttempt counts recorded attempts per action.
	RecordRateLimitAttempt(action string)

	// RecordRateLimitBlock counts block writes that actually changed a row.
	RecordRateLimitBlock(action string)

	// RecordRateLimitStoreError counts persistence failures the limiter swallowed.
	RecordRateLimitStoreError(operation string)

	// RecordCleanup records one cleanup run.
	RecordCleanup(removed int, duration time.Duration)

	// RecordDBQuery records the duration of a database query.
	RecordDBQuery(operation string, duration time.Duration)

	// RecordAuthEvent counts register/login/logout outcomes.
	RecordAuthEvent(event string, success bool)

	// RecordHTTPRequest records one served request.
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
}
