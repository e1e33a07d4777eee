// Package metrics defines and registers the custom Prometheus metrics of the
// sweet shop API. Metrics register with the default registry on package
// initialisation and are exposed through promhttp at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sweetshop"

// Result label values shared by the operation counters.
const (
	ResultSuccess           = "success"
	ResultInvalid           = "invalid"
	ResultNotFound          = "not_found"
	ResultInsufficientStock = "insufficient_stock"
	ResultDuplicate         = "duplicate"
	ResultRejected          = "rejected"
	ResultThrottled         = "throttled"
	ResultError             = "error"
)

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// HTTPRequestsTotal counts handled requests.
// Labels:
//   - method: HTTP method
//   - route: the matched route pattern (e.g. "POST /api/sweets/{id}/purchase"), or "unmatched"
//   - status: response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests, by method, route and status.",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration measures request latency by route.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests from receipt to response.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// ── Domain metrics ────────────────────────────────────────────────────────────

// InventoryOperationsTotal counts purchase and restock attempts.
// Labels:
//   - operation: "purchase" or "restock"
//   - result: one of the Result* constants
var InventoryOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inventory_operations_total",
		Help:      "Total number of stock operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// InventoryUnitsTotal counts units moved by successful stock operations.
var InventoryUnitsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inventory_units_total",
		Help:      "Total number of units purchased or restocked.",
	},
	[]string{"operation"},
)

// AuthAttemptsTotal counts register and login attempts.
// Labels:
//   - operation: "register" or "login"
//   - result: one of the Result* constants
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts, by operation and result.",
	},
	[]string{"operation", "result"},
)
