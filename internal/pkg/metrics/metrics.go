// Package metrics defines and registers the custom Prometheus metrics of the
// library backend. It is the single source of truth for metric names, labels
// and help strings.
//
// Metrics register with the default Prometheus registry at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "library"

// ── Authentication metrics ────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts by result.
// Label:
//   - outcome: "succeeded", "failed", "throttled" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// TokenRejectionsTotal counts bearer tokens rejected by the auth middleware.
// Label:
//   - reason: "missing", "malformed", "expired" or "signature_invalid"
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of rejected bearer tokens, by reason.",
	},
	[]string{"reason"},
)

// AuthorizationDeniedTotal counts authenticated requests refused for role.
// Label:
//   - role: the caller's role
var AuthorizationDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denied_total",
		Help:      "Total number of requests denied because of insufficient role.",
	},
	[]string{"role"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsTotal counts login audit records by write result.
// Label:
//   - result: "written", "failed" or "dropped" (queue full)
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of login audit events, by write result.",
	},
	[]string{"result"},
)

// AuditQueueDepth tracks events waiting in each audit worker channel.
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Student metrics ───────────────────────────────────────────────────────────

// StudentsCreatedTotal counts enrolled students.
var StudentsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "students_created_total",
		Help:      "Total number of student records created.",
	},
)
