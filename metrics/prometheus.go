// Package metrics exposes Prometheus instrumentation for oracle calls and
// optimization runs. A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "autopromptix"

// Run outcomes.
const (
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
	RunCancelled = "cancelled"
)

// Evaluation outcomes.
const (
	EvaluationScored  = "scored"
	EvaluationSkipped = "skipped"
)

type Metrics struct {
	// Oracle metrics
	OracleRequestsTotal *prometheus.CounterVec
	OracleLatency       prometheus.Histogram
	OracleRetriesTotal  prometheus.Counter
	TokensTotal         *prometheus.CounterVec

	// Optimization metrics
	RunsTotal            *prometheus.CounterVec
	EvaluationsTotal     *prometheus.CounterVec
	TrialScore           *prometheus.HistogramVec
	RubricFallbacksTotal prometheus.Counter
	Improvement          prometheus.Histogram
}

// New registers all collectors with reg. Pass prometheus.DefaultRegisterer
// to expose them on the default /metrics handler.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	scoreBuckets := prometheus.LinearBuckets(0, 0.1, 11)

	return &Metrics{
		OracleRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "oracle_requests_total",
				Help:      "Oracle completions by outcome.",
			},
			[]string{"outcome"},
		),
		OracleLatency: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "oracle_latency_seconds",
				Help:      "Oracle completion latency including retries.",
				Buckets:   prometheus.DefBuckets,
			},
		),
		OracleRetriesTotal: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "oracle_retries_total",
				Help:      "Retried oracle attempts.",
			},
		),
		TokensTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tokens_total",
				Help:      "Tokens counted in evaluated prompts and outputs.",
			},
			[]string{"kind"},
		),
		RunsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Optimization runs by final status.",
			},
			[]string{"status"},
		),
		EvaluationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "evaluations_total",
				Help:      "Variant evaluations by category and outcome.",
			},
			[]string{"category", "outcome"},
		),
		TrialScore: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "trial_score",
				Help:      "Scores assigned to trials.",
				Buckets:   scoreBuckets,
			},
			[]string{"method"},
		),
		RubricFallbacksTotal: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rubric_fallbacks_total",
				Help:      "Rubric scorings that fell back to the heuristic scorer.",
			},
		),
		Improvement: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_improvement",
				Help:      "Best score minus baseline score per run.",
				Buckets:   prometheus.LinearBuckets(-0.5, 0.1, 11),
			},
		),
	}
}

func (m *Metrics) ObserveOracle(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.OracleRequestsTotal.WithLabelValues(outcome).Inc()
	m.OracleLatency.Observe(d.Seconds())
}

func (m *Metrics) IncOracleRetry() {
	if m == nil {
		return
	}
	m.OracleRetriesTotal.Inc()
}

func (m *Metrics) AddTokens(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.TokensTotal.WithLabelValues(kind).Add(float64(n))
}

func (m *Metrics) IncRun(status string) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) IncEvaluation(category, outcome string) {
	if m == nil {
		return
	}
	m.EvaluationsTotal.WithLabelValues(category, outcome).Inc()
}

func (m *Metrics) ObserveTrial(method string, score float64) {
	if m == nil {
		return
	}
	m.TrialScore.WithLabelValues(method).Observe(score)
}

func (m *Metrics) IncRubricFallback() {
	if m == nil {
		return
	}
	m.RubricFallbacksTotal.Inc()
}

func (m *Metrics) ObserveImprovement(delta float64) {
	if m == nil {
		return
	}
	m.Improvement.Observe(delta)
}
