// Package metrics defines and registers the custom Prometheus metrics of the
// cat catalog API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default registry at package init through
// promauto; HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "catapi"

// ── Upstream catalog metrics ─────────────────────────────────────────────────

// UpstreamRequestsTotal counts calls made to the cat catalog.
// Labels:
//   - operation: "list_breeds", "get_breed", "search_breeds", "images_by_breed"
//   - outcome: "ok", "http_error", "transport_error", "decode_error"
var UpstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total number of requests sent to the upstream cat catalog.",
	},
	[]string{"operation", "outcome"},
)

// UpstreamRequestDuration measures round-trip latency of upstream calls.
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of upstream cat catalog requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// ── Account metrics ──────────────────────────────────────────────────────────

// UsersRegisteredTotal counts successful registrations.
var UsersRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of users registered.",
	},
)

// LoginAttemptsTotal counts credential checks.
// Label:
//   - result: "success" or "failure"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Audit metrics ────────────────────────────────────────────────────────────

// AuditEventsTotal counts audit events handled by the dispatcher.
// Label:
//   - result: "stored", "dropped" (shard buffer full) or "error"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of auth audit events, by result.",
	},
	[]string{"result"},
)

// AuditQueueDepth tracks pending events per dispatcher worker.
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
