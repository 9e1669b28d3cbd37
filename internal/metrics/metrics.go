// Package metrics holds the prometheus collectors of the service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

var (
	// HTTPRequestDuration tracks request latency by route template and status.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foodgram_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// RecipeMutationsTotal counts recipe create/update/delete attempts.
	RecipeMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_recipe_mutations_total",
			Help: "Total number of recipe mutations by operation and outcome",
		},
		[]string{"op", "outcome"},
	)

	// RelationTogglesTotal counts favorite/cart/subscription add and remove attempts.
	RelationTogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_relation_toggles_total",
			Help: "Total number of relation toggles by kind, operation and outcome",
		},
		[]string{"kind", "op", "outcome"},
	)
)

// ObserveRequest records one finished HTTP request.
func ObserveRequest(method, route, status string, elapsed time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(elapsed.Seconds())
}

// RecordRecipeMutation records a recipe create/update/delete.
func RecordRecipeMutation(op, outcome string) {
	RecipeMutationsTotal.WithLabelValues(op, outcome).Inc()
}

// RecordRelationToggle records an add or remove of a user-recipe or user-user relation.
func RecordRelationToggle(kind, op, outcome string) {
	RelationTogglesTotal.WithLabelValues(kind, op, outcome).Inc()
}
