// Package metrics defines and registers all custom Prometheus metrics for the
// storefront and the development backend. It is the single source of truth for
// metric names, labels, and help strings.
//
// Metrics register with the default Prometheus registry on package init.
package metrics

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

// ── Submission metrics ───────────────────────────────────────────────────────

// SubmissionsTotal counts submit outcomes.
// Label:
//   - state: "succeeded", "failed", "auth_required"
var SubmissionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "submissions_total",
		Help:      "Total number of order submissions, by outcome.",
	},
	[]string{"state"},
)

// ResumesTotal counts resume attempts after authentication.
// Label:
//   - result: "hit" (snapshot found and merged) or "miss"
var ResumesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resumes_total",
		Help:      "Total number of post-login draft resumes, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Session metrics ──────────────────────────────────────────────────────────

// AuthAttemptsTotal counts login and signup attempts.
// Labels:
//   - action: "login" or "signup"
//   - result: "ok", "failed", "throttled"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of login and signup attempts.",
	},
	[]string{"action", "result"},
)

// ── Backend metrics ──────────────────────────────────────────────────────────

// BackendRequestDuration measures calls to the order backend.
// Labels:
//   - operation: client operation (e.g. "create_order")
//   - status: HTTP status code, or "error" when no response arrived
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of order backend requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation", "status"},
)

// ── Audit metrics ────────────────────────────────────────────────────────────

// AuditQueueDepth tracks the current number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditDroppedTotal counts audit events discarded because a worker queue was full.
var AuditDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dropped_total",
		Help:      "Total number of audit events dropped on a full queue.",
	},
)

// AuditErrorsTotal counts audit events that could not be persisted.
var AuditErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_errors_total",
		Help:      "Total number of audit events that failed to persist.",
	},
)

// ── Order backend metrics ────────────────────────────────────────────────────

// OrdersCreatedTotal counts orders created by the development backend.
// Label:
//   - song_length: the requested song length (e.g. "2-3")
var OrdersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders created, by song length.",
	},
	[]string{"song_length"},
)

// OrdersReplayedTotal counts create requests answered from an idempotency key.
var OrdersReplayedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_replayed_total",
		Help:      "Total number of order creations replayed from an idempotency key.",
	},
)

// VisitorsGauge registers a gauge reporting live visitors through fn.
func VisitorsGauge(fn func() float64) prometheus.GaugeFunc {
	return promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "visitors_active",
			Help:      "Number of visitors held in memory.",
		},
		fn,
	)
}

// ── HTTP metrics ─────────────────────────────────────────────────────────────

// Instrument records request count, latency and sizes for every route of e
// under subsystem, and serves them together with the collectors above on
// /metrics. Each instance gets its own registry so several routers can live
// in one process.
func Instrument(e *echo.Echo, subsystem string) {
	reg := prometheus.NewRegistry()
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  namespace,
		Subsystem:  subsystem,
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	gatherers := prometheus.Gatherers{prometheus.DefaultGatherer, reg}
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{})))
}
