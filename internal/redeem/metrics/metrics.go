package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the redeem module.
type Metrics struct {
	// Plans issued by waterfall classification
	Plans *prometheus.CounterVec

	// Execution outcomes by resolved path and result
	Executions *prometheus.CounterVec

	// Execution latency including ledger settlement and bond liquidation
	ExecutionLatency prometheus.Histogram
}

// New creates a Metrics instance with all redeem module metrics registered.
func New() *Metrics {
	return &Metrics{
		Plans: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sovmint_redeem_plans_total",
			Help: "Total redeem plans issued by waterfall classification",
		}, []string{"path"}),
		Executions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sovmint_redeem_executions_total",
			Help: "Total redeem execution attempts by path and outcome",
		}, []string{"path", "outcome"}), // outcome: "executed", "expired", "verification_failed", "instant_failed", "failed"
		ExecutionLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sovmint_redeem_execution_duration_seconds",
			Help:    "Duration of redeem executions including bond liquidation",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

// IncrementPlans records an issued plan.
func (m *Metrics) IncrementPlans(path string) {
	if m != nil {
		m.Plans.WithLabelValues(path).Inc()
	}
}

// IncrementExecution records an execution outcome.
func (m *Metrics) IncrementExecution(path, outcome string) {
	if m != nil {
		m.Executions.WithLabelValues(path, outcome).Inc()
	}
}

// ObserveExecutionLatency records an execution's duration.
func (m *Metrics) ObserveExecutionLatency(d time.Duration) {
	if m != nil {
		m.ExecutionLatency.Observe(d.Seconds())
	}
}
