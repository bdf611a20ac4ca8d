// Package metrics defines the Prometheus metrics of the API. They register
// with the default registry on import and are served on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "yamdb"

// AuthzDecisionsTotal counts authorization checks.
// Labels:
//   - class: resource class (e.g. "review", "identity")
//   - op: "read", "create", "update" or "delete"
//   - result: "allow", "unauthorized" or "forbidden"
var AuthzDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_decisions_total",
		Help:      "Total number of authorization decisions.",
	},
	[]string{"class", "op", "result"},
)

// SignupsTotal counts signup requests.
// Label:
//   - result: "created", "resent", "throttled" or "conflict"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of signup requests, by outcome.",
	},
	[]string{"result"},
)

// TokensIssuedTotal counts access tokens handed out.
var TokensIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of access tokens issued.",
	},
)

// TokenRejectionsTotal counts token requests refused for a bad code.
var TokenRejectionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of token requests with an invalid or expired code.",
	},
)

// DuplicateReviewsTotal counts rejected second reviews.
// Label:
//   - stage: "precheck" or "constraint"
var DuplicateReviewsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "duplicate_reviews_total",
		Help:      "Total number of reviews rejected because the author already reviewed the title.",
	},
	[]string{"stage"},
)

// NotificationsDroppedTotal counts messages dropped on a full queue.
var NotificationsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_dropped_total",
		Help:      "Total number of notifications dropped because the queue was full.",
	},
)

// HTTPRequestDuration measures request latency.
// Labels:
//   - method: HTTP method
//   - route: chi route pattern (e.g. "/api/v1/titles/{title_id}")
//   - status: response status code
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route", "status"},
)
