package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the rule engine.
type Metrics struct {
	PhaseRuns   *prometheus.CounterVec
	RuleResults *prometheus.CounterVec
	Denials     prometheus.Counter
	TotalScore  prometheus.Histogram
}

// New creates and registers all rule engine metrics.
func New() *Metrics {
	return &Metrics{
		PhaseRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "reggate_check_phase_runs_total",
			Help: "Number of check phases executed, by phase.",
		}, []string{"phase"}),
		RuleResults: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "reggate_rule_results_total",
			Help: "Rule results collected, by rule type and outcome.",
		}, []string{"rule_type", "outcome"}),
		Denials: promauto.NewCounter(prometheus.CounterOpts{
			Name: "reggate_registrations_denied_total",
			Help: "Signup attempts denied by the rule engine.",
		}),
		TotalScore: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "reggate_run_total_score",
			Help:    "Accumulated risk score per checker run.",
			Buckets: prometheus.LinearBuckets(0, 25, 9),
		}),
	}
}

// ObservePhase records one executed phase.
func (m *Metrics) ObservePhase(phase string) {
	if m == nil {
		return
	}
	m.PhaseRuns.WithLabelValues(phase).Inc()
}

// ObserveResult records one collected rule result.
func (m *Metrics) ObserveResult(ruleType string, allowed bool) {
	if m == nil {
		return
	}
	outcome := "deny"
	if allowed {
		outcome = "allow"
	}
	m.RuleResults.WithLabelValues(ruleType, outcome).Inc()
}

// ObserveDecision records the final decision of a run.
func (m *Metrics) ObserveDecision(allowed bool, totalScore int) {
	if m == nil {
		return
	}
	m.TotalScore.Observe(float64(totalScore))
	if !allowed {
		m.Denials.Inc()
	}
}
