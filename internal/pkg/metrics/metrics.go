// Package metrics defines and registers all custom Prometheus metrics for the
// catalog API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry at package
// init through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "catalog"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts registration and login outcomes.
// Labels:
//   - operation: "register" or "login"
//   - result: "success", "invalid", "conflict", "rejected" or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of registration and login attempts, by outcome.",
	},
	[]string{"operation", "result"},
)

// GateRejectionsTotal counts requests short-circuited by a gate.
// Labels:
//   - gate: "auth" or "role"
//   - reason: "missing_token", "invalid_token", "missing_identity" or "role_mismatch"
var GateRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_rejections_total",
		Help:      "Total number of requests rejected by the auth and role gates.",
	},
	[]string{"gate", "reason"},
)

// ── Product metrics ───────────────────────────────────────────────────────────

// ProductMutationsTotal counts successful product writes.
// Label:
//   - operation: "create", "update" or "delete"
var ProductMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "product_mutations_total",
		Help:      "Total number of successful product writes, by operation.",
	},
	[]string{"operation"},
)

// IdempotentReplaysTotal counts product creations answered from the
// idempotency store instead of a new write.
var IdempotentReplaysTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotent_replays_total",
		Help:      "Total number of POST /products requests replayed via Idempotency-Key.",
	},
)
