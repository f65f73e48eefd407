// Package obs exposes Prometheus instrumentation for the service.
package obs

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTP metrics.
var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Domain metrics. Denial reasons are bounded by the error taxonomy, so the
// label cardinality stays small.
var (
	loginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Login attempts by outcome.",
		},
		[]string{"outcome"},
	)

	lockoutsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auth_lockouts_total",
		Help: "Accounts locked after repeated failed logins.",
	})

	accessDenialsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_denials_total",
			Help: "Authorization denials by reason code.",
		},
		[]string{"reason"},
	)

	alertsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alerts_created_total",
			Help: "Clinical alerts created, by type and severity.",
		},
		[]string{"type", "severity"},
	)

	alertsSupersededTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "alerts_superseded_total",
		Help: "Alert firings collapsed into an existing active alert.",
	})
)

// Init registers all metrics with the default registry.
func Init() {
	prometheus.MustRegister(
		httpInFlight, httpRequestsTotal, httpRequestDuration,
		loginsTotal, lockoutsTotal, accessDenialsTotal,
		alertsCreatedTotal, alertsSupersededTotal,
	)
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordLogin counts a login attempt. outcome is one of
// "success", "failure", "locked".
func RecordLogin(outcome string) {
	loginsTotal.WithLabelValues(outcome).Inc()
}

// RecordLockout counts an account transitioning into the locked state.
func RecordLockout() {
	lockoutsTotal.Inc()
}

// RecordDenial counts an authorization denial by its error code.
func RecordDenial(reason string) {
	accessDenialsTotal.WithLabelValues(reason).Inc()
}

// RecordAlertCreated counts a freshly created alert.
func RecordAlertCreated(alertType, severity string) {
	alertsCreatedTotal.WithLabelValues(alertType, severity).Inc()
}

// RecordAlertSuperseded counts a firing absorbed by deduplication.
func RecordAlertSuperseded() {
	alertsSupersededTotal.Inc()
}

// Instrument is Echo middleware measuring RPS, latency and in-flight count.
// The route pattern is used as the path label so IDs do not explode
// cardinality.
func Instrument() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			httpInFlight.Inc()
			start := time.Now()

			err := next(c)

			duration := time.Since(start).Seconds()
			status := c.Response().Status
			if err != nil {
				if httpErr, ok := err.(*echo.HTTPError); ok {
					status = httpErr.Code
				}
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			method := c.Request().Method
			code := strconv.Itoa(status)

			httpRequestDuration.WithLabelValues(method, path, code).Observe(duration)
			httpRequestsTotal.WithLabelValues(method, path, code).Inc()
			httpInFlight.Dec()

			return err
		}
	}
}
