// Package metrics defines and registers all custom Prometheus metrics for the
// blog API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics register with the default Prometheus registry on package init via
// promauto; the /metrics endpoint serves that registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blog"

// ── Post metrics ──────────────────────────────────────────────────────────────

// PostsCreatedTotal counts newly created posts.
// Label:
//   - visibility: "public" or "private" at creation time
var PostsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_created_total",
		Help:      "Total number of posts created, by initial visibility.",
	},
	[]string{"visibility"},
)

// PostsPublishedTotal counts first publications (a post becoming public for the first time).
var PostsPublishedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_published_total",
		Help:      "Total number of posts published for the first time.",
	},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok" or "rejected"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// GuardRejectionsTotal counts requests terminated by an authorization guard.
// Labels:
//   - guard: the guard that stopped the pipeline (e.g. "login", "owned_by_user")
//   - status: the HTTP status it answered with
var GuardRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_rejections_total",
		Help:      "Total number of requests terminated by a guard, by guard and status.",
	},
	[]string{"guard", "status"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsDeliveredTotal counts notifications written to subscriber inboxes.
var NotificationsDeliveredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_delivered_total",
		Help:      "Total number of notifications delivered to subscribers.",
	},
)

// NotificationsErrorsTotal counts publications that failed to fan out.
// Label:
//   - reason: short description of the failure (e.g. "load_subscribers", "insert_failed")
var NotificationsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_errors_total",
		Help:      "Total number of publications that failed to fan out.",
	},
	[]string{"reason"},
)

// NotificationsDedupTotal counts deduplication decisions.
// Label:
//   - result: "hit" (already announced, skipped) or "miss" (new publication)
var NotificationsDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_dedup_total",
		Help:      "Total number of deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// NotificationQueueDepth tracks the number of publications waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var NotificationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of publications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// NotificationProcessingDuration measures how long one publication takes to fan out.
// Label:
//   - result: "ok" or "error"
var NotificationProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_processing_duration_seconds",
		Help:      "Duration of publication fan-out from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)
