// Package metrics defines and registers all custom Prometheus metrics for the
// attendance service. It is the single source of truth for metric names,
// labels, and help strings. Metrics register with the default registry at
// import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "attendance"

// CheckInsTotal counts check-in requests that succeeded.
// Label:
//   - result: "new" (shift opened) or "already" (idempotent replay on an open shift)
var CheckInsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkins_total",
		Help:      "Total number of successful check-ins, by result.",
	},
	[]string{"result"},
)

// CheckOutsTotal counts check-out attempts.
// Label:
//   - result: "closed" or "no_open_shift"
var CheckOutsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkouts_total",
		Help:      "Total number of check-out attempts, by result.",
	},
	[]string{"result"},
)

// ShiftHours observes the duration of each closed shift, in hours.
var ShiftHours = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "shift_hours",
		Help:      "Distribution of closed shift durations in hours.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 4, 6, 8, 10, 12, 16},
	},
)

// NotificationsTotal counts outbound owner notifications.
// Labels:
//   - kind: "checkin" or "checkout"
//   - result: "sent", "error", "dropped" (queue full), or "skipped" (mailer disabled)
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of owner notifications, by kind and result.",
	},
	[]string{"kind", "result"},
)

// NotifyQueueDepth tracks the number of events waiting in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var NotifyQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notify_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// SummaryCacheTotal counts summary cache lookups.
// Label:
//   - result: "hit", "miss", or "error"
var SummaryCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "summary_cache_total",
		Help:      "Total number of summary cache lookups, by result.",
	},
	[]string{"result"},
)
