// Package metrics defines the Prometheus metrics recorded by the storefront
// client and the development backend. It is the single source of truth for
// metric names, labels, and help strings.
//
// Metrics are registered with the default registry on package init; the dev
// server exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Remote API client ────────────────────────────────────────────────────────

// APIRequestsTotal counts outgoing backend requests.
// Labels:
//   - route: the route template (e.g. "/cart/:product_id")
//   - method: HTTP method
//   - code: response status code, or "transport_error"
var APIRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "Total number of requests sent to the storefront backend.",
	},
	[]string{"route", "method", "code"},
)

// APIRequestDuration measures backend round-trip latency.
var APIRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "request_duration_seconds",
		Help:      "Duration of requests sent to the storefront backend.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"route", "method"},
)

// ── Session ──────────────────────────────────────────────────────────────────

// SessionTransitionsTotal counts identity transitions.
// Label:
//   - event: "login", "logout", "restore", "invalidate"
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "session",
		Name:      "transitions_total",
		Help:      "Total number of session identity transitions, by event.",
	},
	[]string{"event"},
)

// ── Cart ─────────────────────────────────────────────────────────────────────

// CartRefreshTotal counts cart refresh outcomes.
// Label:
//   - result: "applied", "anonymous", "stale" (discarded), "error"
var CartRefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cart",
		Name:      "refresh_total",
		Help:      "Total number of cart refreshes, labelled by result.",
	},
	[]string{"result"},
)

// CartMutationsTotal counts cart mutations submitted to the backend.
// Labels:
//   - op: "add", "update", "remove", "clear"
//   - result: "ok" or "error"
var CartMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cart",
		Name:      "mutations_total",
		Help:      "Total number of cart mutations, by operation and result.",
	},
	[]string{"op", "result"},
)

// ── Orders ───────────────────────────────────────────────────────────────────

// CheckoutsTotal counts checkout attempts.
// Label:
//   - result: "placed", "empty_cart", "out_of_stock", "error"
var CheckoutsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "orders",
		Name:      "checkouts_total",
		Help:      "Total number of checkout attempts, by result.",
	},
	[]string{"result"},
)

// DevOrdersCreatedTotal counts orders accepted by the development backend.
var DevOrdersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "devserver",
		Name:      "orders_created_total",
		Help:      "Total number of orders created by the development backend, by payment method.",
	},
	[]string{"payment_method"},
)
