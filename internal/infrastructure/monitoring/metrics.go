package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/imRyuukii/LoginPage/internal/domain/service"
)

var _ service.Metrics = (*Metrics)(nil)

// Metrics manages the Prometheus metrics.
type Metrics struct {
	RateLimitDecisions   *prometheus.CounterVec
	RateLimitAttempts    *prometheus.CounterVec
	RateLimitBlocks      *prometheus.CounterVec
	RateLimitStoreErrors *prometheus.CounterVec
	CleanupRemoved       prometheus.Counter
	CleanupDuration      prometheus.Histogram
	DBQueryDuration      *prometheus.HistogramVec
	AuthEvents           *prometheus.CounterVec
	HTTPRequests         *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
}

// NewMetrics creates the metrics and registers them with reg.
// Passing prometheus.DefaultRegisterer exposes them on /metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RateLimitDecisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loginpage_rate_limit_decisions_total",
				Help: "Total number of rate limit checks by outcome.",
			},
			[]string{"action", "result"},
		),
		RateLimitAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loginpage_rate_limit_attempts_total",
				Help: "Total number of recorded attempts.",
			},
			[]string{"action"},
		),
		RateLimitBlocks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loginpage_rate_limit_blocks_total",
				Help: "Total number of blocks written.",
			},
			[]string{"action"},
		),
		RateLimitStoreErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loginpage_rate_limit_store_errors_total",
				Help: "Total number of store failures the limiter failed open on.",
			},
			[]string{"operation"},
		),
		CleanupRemoved: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "loginpage_rate_limit_cleanup_removed_total",
				Help: "Total number of stale rate limit rows removed.",
			},
		),
		CleanupDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "loginpage_rate_limit_cleanup_duration_seconds",
				Help:    "Duration of rate limit cleanup runs.",
				Buckets: prometheus.DefBuckets,
			},
		),
		DBQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "loginpage_db_query_duration_seconds",
				Help:    "Latency of database queries.",
				Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation"},
		),
		AuthEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loginpage_auth_events_total",
				Help: "Total number of authentication events by outcome.",
			},
			[]string{"event", "result"},
		),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loginpage_http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "loginpage_http_request_duration_seconds",
				Help:    "Latency of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

func result(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}

// RecordRateLimitDecision counts an IsBlocked outcome.
func (m *Metrics) RecordRateLimitDecision(action string, blocked bool) {
	m.RateLimitDecisions.WithLabelValues(action, result(blocked, "blocked", "allowed")).Inc()
}

// RecordRateLimitAttempt counts a recorded attempt.
func (m *Metrics) RecordRateLimitAttempt(action string) {
	m.RateLimitAttempts.WithLabelValues(action).Inc()
}

// RecordRateLimitBlock counts a block write.
func (m *Metrics) RecordRateLimitBlock(action string) {
	m.RateLimitBlocks.WithLabelValues(action).Inc()
}

// RecordRateLimitStoreError counts a swallowed store failure.
func (m *Metrics) RecordRateLimitStoreError(operation string) {
	m.RateLimitStoreErrors.WithLabelValues(operation).Inc()
}

// RecordCleanup records one cleanup run.
func (m *Metrics) RecordCleanup(removed int, duration time.Duration) {
	m.CleanupRemoved.Add(float64(removed))
	m.CleanupDuration.Observe(duration.Seconds())
}

// RecordDBQuery records the duration of a database query.
func (m *Metrics) RecordDBQuery(operation string, duration time.Duration) {
	m.DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordAuthEvent counts an authentication outcome.
func (m *Metrics) RecordAuthEvent(event string, success bool) {
	m.AuthEvents.WithLabelValues(event, result(success, "success", "failure")).Inc()
}

// RecordHTTPRequest records one served request.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
