package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	AuthDecisions    *prometheus.CounterVec
	AuditEnqueued    prometheus.Counter
	AuditDropped     prometheus.Counter
	AuditStoreErrors prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		AuthDecisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "agendo_auth_decisions_total",
			Help: "Gateway decisions by outcome (forwarded, not_authenticated, expired, invalid, denied).",
		}, []string{"outcome"}),
		AuditEnqueued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "agendo_audit_events_enqueued_total",
			Help: "Audit events accepted onto the background queue.",
		}),
		AuditDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "agendo_audit_events_dropped_total",
			Help: "Audit events dropped because the queue was full.",
		}),
		AuditStoreErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "agendo_audit_store_errors_total",
			Help: "Audit store append failures absorbed by the worker.",
		}),
	}
}

// Decision outcomes recorded on AuthDecisions.
const (
	OutcomeForwarded        = "forwarded"
	OutcomeNotAuthenticated = "not_authenticated"
	OutcomeExpired          = "expired"
	OutcomeInvalid          = "invalid"
	OutcomeDenied           = "denied"
)

// RecordDecision increments the decision counter for the given outcome.
// Nil-safe so the gateway can run without metrics in tests.
func (m *Metrics) RecordDecision(outcome string) {
	if m == nil {
		return
	}
	m.AuthDecisions.WithLabelValues(outcome).Inc()
}
