// Package metrics defines and registers all custom Prometheus metrics for the
// MES helper. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mes_helper"

// Remote call outcomes used for the "outcome" label.
const (
	OutcomeOK          = "ok"
	OutcomeTransport   = "transport"
	OutcomeHTTPStatus  = "http_status"
	OutcomeParse       = "parse"
	OutcomeApplication = "application"
)

// ── Remote MES calls ─────────────────────────────────────────────────────────

// RemoteRequestsTotal counts MES calls.
// Labels:
//   - endpoint: "login", "inventory" or "shipments"
//   - outcome: one of the Outcome* constants
var RemoteRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "remote_requests_total",
		Help:      "Total number of MES calls, by endpoint and outcome.",
	},
	[]string{"endpoint", "outcome"},
)

// RemoteRequestDuration measures MES round trips, including body decoding.
var RemoteRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "remote_request_duration_seconds",
		Help:      "Duration of MES calls.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 15, 30},
	},
	[]string{"endpoint"},
)

// FetchTruncatedTotal counts bulk fetches that filled the whole page.
var FetchTruncatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_truncated_total",
		Help:      "Bulk fetches that reached the configured row limit.",
	},
	[]string{"endpoint"},
)

// ── Facade ───────────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts by result ("success", "failure", "invalid").
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Login attempts by result.",
	},
	[]string{"result"},
)

// ActiveSessions is the number of sessions held by the registry.
var ActiveSessions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Number of authenticated sessions in the registry.",
	},
)

// QueryRows observes row counts per query.
// Labels:
//   - operation: "inventory" or "shipments"
//   - stage: "fetched" or "matched"
var QueryRows = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "query_rows",
		Help:      "Rows fetched from MES and rows left after filtering.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	},
	[]string{"operation", "stage"},
)

// QueryErrorsTotal counts failed queries by reason (the failure kind).
var QueryErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "query_errors_total",
		Help:      "Failed queries by operation and reason.",
	},
	[]string{"operation", "reason"},
)

// AuditDroppedTotal counts audit entries dropped because the writer queue was full.
var AuditDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dropped_total",
		Help:      "Query audit entries dropped because the write queue was full.",
	},
)
