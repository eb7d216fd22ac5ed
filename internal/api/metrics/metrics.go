// Package metrics defines and registers the custom Prometheus metrics for the
// animes API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics register with the default Prometheus registry on package init via
// promauto; the HTTP request metrics come from echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "animes"

// ── Catalog metrics ───────────────────────────────────────────────────────────

// AnimesCreatedTotal counts records created through the API.
// Label:
//   - mode: "single" or "batch"
var AnimesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "created_total",
		Help:      "Total number of anime records created, by request mode.",
	},
	[]string{"mode"},
)

// AnimesDeletedTotal counts delete requests that reached the store.
var AnimesDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deleted_total",
		Help:      "Total number of anime delete requests applied.",
	},
)

// BatchRejectionsTotal counts batch requests refused for an invalid element.
var BatchRejectionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "batch_rejections_total",
		Help:      "Total number of batch create requests rejected by validation.",
	},
)

// ── Security metrics ──────────────────────────────────────────────────────────

// AuthFailuresTotal counts rejected requests.
// Labels:
//   - method: "basic", "session", "bearer" or "none"
//   - reason: "unauthenticated", "invalid_credentials" or "forbidden"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of authentication and authorization failures.",
	},
	[]string{"method", "reason"},
)
