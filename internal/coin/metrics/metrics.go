package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the coin module.
type Metrics struct {
	CoinsCreated prometheus.Counter

	// Admin policy changes by action
	PolicyChanges *prometheus.CounterVec
}

// New creates a Metrics instance with all coin module metrics registered.
func New() *Metrics {
	return &Metrics{
		CoinsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sovmint_coins_created_total",
			Help: "Total sovereign coins initialized",
		}),
		PolicyChanges: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sovmint_factory_policy_changes_total",
			Help: "Total factory policy changes by action",
		}, []string{"action"}), // action: "set_fee", "add_bond_mapping", "withdraw_fees"
	}
}

// IncrementCoinsCreated records a successful coin initialization.
func (m *Metrics) IncrementCoinsCreated() {
	if m != nil {
		m.CoinsCreated.Inc()
	}
}

// IncrementPolicyChange records an admin policy change.
func (m *Metrics) IncrementPolicyChange(action string) {
	if m != nil {
		m.PolicyChanges.WithLabelValues(action).Inc()
	}
}
