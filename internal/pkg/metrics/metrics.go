// Package metrics defines and registers all custom Prometheus metrics for the
// time-clock API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package init
// through promauto; /metrics exposes them together with the HTTP metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "timeclock"

// ── Clock action metrics ──────────────────────────────────────────────────────

// ClockActionsTotal counts clock actions by outcome.
// Labels:
//   - kind: "entry" or "exit"
//   - result: "success", "denied", "not_found", "busy" or "error"
var ClockActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "clock_actions_total",
		Help:      "Total number of clock actions, by kind and result.",
	},
	[]string{"kind", "result"},
)

// OutsideScheduleTotal counts successful clock actions flagged as outside the
// standard schedule window.
var OutsideScheduleTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "outside_schedule_total",
		Help:      "Total number of clock actions registered outside the schedule window.",
	},
	[]string{"kind"},
)

// ClockActionDuration measures a clock action from lock acquisition to result.
var ClockActionDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "clock_action_duration_seconds",
		Help:      "Duration of clock actions including permission checks and persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"kind"},
)

// ── Audit event metrics ───────────────────────────────────────────────────────

// EventsProcessedTotal counts audit events by processing outcome.
// Label:
//   - result: "ok" or "error"
var EventsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_processed_total",
		Help:      "Total number of attendance audit events processed.",
	},
	[]string{"result"},
)

// EventsDroppedTotal counts audit events discarded because a worker queue
// was full.
var EventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_dropped_total",
		Help:      "Total number of audit events dropped on a full dispatcher queue.",
	},
)

// EventsQueueDepth tracks the number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var EventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_events_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
