package monitoring

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Record(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordRateLimitDecision("login", true)
	m.RecordRateLimitDecision("login", false)
	m.RecordRateLimitDecision("login", false)
	m.RecordRateLimitBlock("login")
	m.RecordRateLimitStoreError("is_blocked")
	m.RecordCleanup(4, 20*time.Millisecond)
	m.RecordAuthEvent("login", false)
	m.RecordHTTPRequest("POST", "/api/v1/auth/login", 429, 5*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimitDecisions.WithLabelValues("login", "blocked")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RateLimitDecisions.WithLabelValues("login", "allowed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimitBlocks.WithLabelValues("login")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimitStoreErrors.WithLabelValues("is_blocked")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.CleanupRemoved))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthEvents.WithLabelValues("login", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("POST", "/api/v1/auth/login", "429")))
}

func TestNewMetrics_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics(prometheus.NewRegistry())
		NewMetrics(prometheus.NewRegistry())
	})
}
