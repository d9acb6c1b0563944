package statemachine

import "github.com/prometheus/client_golang/prometheus"

// Metrics tracks apply()/reconcile() outcomes per resource type, exported
// for the process's /metrics endpoint. Constructed once and injected into
// a Machine rather than reached for as a package-level global.
type Metrics struct {
	applyAttempts  *prometheus.CounterVec
	applySuccesses *prometheus.CounterVec
	applyRejected  *prometheus.CounterVec
	reconcileTotal *prometheus.CounterVec
}

// NewMetrics creates and registers the state machine's metric vectors
// against reg. Pass prometheus.NewRegistry() in tests to avoid colliding
// with the global default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		applyAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "piccolo",
			Subsystem: "statemachine",
			Name:      "apply_attempts_total",
			Help:      "Total apply() calls per resource type.",
		}, []string{"resource_type"}),
		applySuccesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "piccolo",
			Subsystem: "statemachine",
			Name:      "apply_successes_total",
			Help:      "Total apply() calls that committed a new state.",
		}, []string{"resource_type", "target_state"}),
		applyRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "piccolo",
			Subsystem: "statemachine",
			Name:      "apply_rejected_total",
			Help:      "Total apply() calls rejected, by reason.",
		}, []string{"resource_type", "reason"}),
		reconcileTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "piccolo",
			Subsystem: "statemachine",
			Name:      "reconcile_total",
			Help:      "Total reconcile() calls, by outcome.",
		}, []string{"resource_type", "outcome"}),
	}
	reg.MustRegister(m.applyAttempts, m.applySuccesses, m.applyRejected, m.reconcileTotal)
	return m
}

func (m *Metrics) recordAttempt(rt ResourceType) {
	m.applyAttempts.WithLabelValues(rt.String()).Inc()
}

func (m *Metrics) recordSuccess(rt ResourceType, target State) {
	m.applySuccesses.WithLabelValues(rt.String(), string(target)).Inc()
}

func (m *Metrics) recordRejected(rt ResourceType, reason string) {
	m.applyRejected.WithLabelValues(rt.String(), reason).Inc()
}

func (m *Metrics) recordReconcile(rt ResourceType, outcome string) {
	m.reconcileTotal.WithLabelValues(rt.String(), outcome).Inc()
}
