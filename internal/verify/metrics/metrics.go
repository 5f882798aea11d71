package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the verification module.
type Metrics struct {
	// Per-factor verifier latencies
	FactorLatency *prometheus.HistogramVec

	// Per-factor pass/fail counts
	FactorResults *prometheus.CounterVec

	// Overall decisions by outcome ("success", "rejected", "fallback")
	Decisions *prometheus.CounterVec

	// Full orchestration latency including verifier fan-out
	EvaluateLatency prometheus.Histogram
}

// New creates a Metrics instance with all verification metrics registered.
func New() *Metrics {
	return &Metrics{
		FactorLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "verigate_factor_duration_seconds",
			Help:    "Duration of factor verifier calls by factor",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"factor"}), // factor: "traffic", "biometric", "document"

		FactorResults: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "verigate_factor_results_total",
			Help: "Factor verifier outcomes by factor and result",
		}, []string{"factor", "result"}),

		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "verigate_decisions_total",
			Help: "Verification decisions by outcome",
		}, []string{"outcome"}),

		EvaluateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "verigate_evaluate_duration_seconds",
			Help:    "Duration of full verification including verifier fan-out",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

// ObserveFactorLatency records the duration of one verifier call.
func (m *Metrics) ObserveFactorLatency(factor string, d time.Duration) {
	if m != nil {
		m.FactorLatency.WithLabelValues(factor).Observe(d.Seconds())
	}
}

// IncrementFactorResult records a factor outcome.
func (m *Metrics) IncrementFactorResult(factor string, passed bool) {
	if m != nil {
		result := "fail"
		if passed {
			result = "pass"
		}
		m.FactorResults.WithLabelValues(factor, result).Inc()
	}
}

// IncrementDecision records an overall decision.
func (m *Metrics) IncrementDecision(outcome string) {
	if m != nil {
		m.Decisions.WithLabelValues(outcome).Inc()
	}
}

// ObserveEvaluateLatency records the total orchestration duration.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}
