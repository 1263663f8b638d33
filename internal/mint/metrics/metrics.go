package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the mint module.
type Metrics struct {
	// Quotes issued
	Quotes prometheus.Counter

	// Commit outcomes by result
	Commits *prometheus.CounterVec

	// Commit latency including ledger settlement and bond purchase
	CommitLatency prometheus.Histogram
}

// New creates a Metrics instance with all mint module metrics registered.
func New() *Metrics {
	return &Metrics{
		Quotes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sovmint_mint_quotes_total",
			Help: "Total mint quotes issued",
		}),
		Commits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sovmint_mint_commits_total",
			Help: "Total mint commit attempts by outcome",
		}, []string{"outcome"}), // outcome: "committed", "expired", "verification_failed", "failed"
		CommitLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sovmint_mint_commit_duration_seconds",
			Help:    "Duration of mint commits including bond purchase",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

// IncrementQuotes records an issued quote.
func (m *Metrics) IncrementQuotes() {
	if m != nil {
		m.Quotes.Inc()
	}
}

// IncrementCommit records a commit outcome.
func (m *Metrics) IncrementCommit(outcome string) {
	if m != nil {
		m.Commits.WithLabelValues(outcome).Inc()
	}
}

// ObserveCommitLatency records a commit's duration.
func (m *Metrics) ObserveCommitLatency(d time.Duration) {
	if m != nil {
		m.CommitLatency.Observe(d.Seconds())
	}
}
