// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "walkops"

// ─── HTTP ───────────────────────────────────────────────────────────────────

// HTTPRequests counts handled requests by route template, method and status.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "Total HTTP requests by route, method and status code.",
}, []string{"route", "method", "status"})

// HTTPDuration request latency by route template and method.
var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency in seconds.",
	Buckets:   prometheus.DefBuckets,
}, []string{"route", "method"})

// HTTPInFlight requests currently being served.
var HTTPInFlight = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "requests_in_flight",
	Help:      "Requests currently being served.",
})

// ─── Billing ────────────────────────────────────────────────────────────────

// ReconcileRuns counts reconciliation runs by result (ok, fetch_error).
var ReconcileRuns = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "billing",
	Name:      "reconcile_runs_total",
	Help:      "Total reconciliation runs by result.",
}, []string{"result"})

// ReconcileWalks per-walk outcomes: applied, recovered, skipped:<reason>, failed:<reason>.
var ReconcileWalks = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "billing",
	Name:      "reconcile_walks_total",
	Help:      "Walks processed by reconciliation, by outcome.",
}, []string{"outcome"})

// ReconcileDuration wall time of a full run.
var ReconcileDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "billing",
	Name:      "reconcile_duration_seconds",
	Help:      "Reconciliation run duration in seconds.",
	Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
})

// PaymentsRecorded payments by source (api, queue) and result.
var PaymentsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "billing",
	Name:      "payments_total",
	Help:      "Payments processed by source and result.",
}, []string{"source", "result"})

// InvoicesCompiled counts compiled invoices by output format.
var InvoicesCompiled = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "billing",
	Name:      "invoices_total",
	Help:      "Invoices compiled by format.",
}, []string{"format"})
