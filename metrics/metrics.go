// Package metrics exposes prometheus counters for the matching engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Tag extraction outcomes.
const (
	TagOutcomeOK     = "ok"
	TagOutcomeEmpty  = "empty"
	TagOutcomeFailed = "failed"
)

// Metrics holds the engine's counters on a private registry so tests can
// create isolated instances. All methods tolerate a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	proposalsCreated     prometheus.Counter
	transitions          *prometheus.CounterVec
	notificationFailures prometheus.Counter
	tagExtractions       *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		proposalsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "matchengine",
			Name:      "proposals_created_total",
			Help:      "Match proposals persisted.",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "matchengine",
			Name:      "proposal_transitions_total",
			Help:      "Proposal lifecycle transitions by event type.",
		}, []string{"event_type"}),
		notificationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "matchengine",
			Name:      "notification_failures_total",
			Help:      "Notification inserts that failed and were swallowed.",
		}),
		tagExtractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "matchengine",
			Name:      "tag_extractions_total",
			Help:      "Tag extraction calls by outcome.",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		m.proposalsCreated,
		m.transitions,
		m.notificationFailures,
		m.tagExtractions,
	)
	return m
}

// Handler serves the registry for GET /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ProposalCreated() {
	if m == nil {
		return
	}
	m.proposalsCreated.Inc()
}

func (m *Metrics) Transition(eventType string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(eventType).Inc()
}

func (m *Metrics) NotificationFailure() {
	if m == nil {
		return
	}
	m.notificationFailures.Inc()
}

func (m *Metrics) TagExtraction(outcome string) {
	if m == nil {
		return
	}
	m.tagExtractions.WithLabelValues(outcome).Inc()
}
