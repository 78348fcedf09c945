package optimizer

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/autopromptix/autopromptix/analyzer"
	"github.com/autopromptix/autopromptix/metrics"
	"github.com/autopromptix/autopromptix/mutation"
	"github.com/autopromptix/autopromptix/oracle"
	"github.com/autopromptix/autopromptix/scorer"
	"github.com/autopromptix/autopromptix/utils"
)

type Option func(*Optimizer)

// WithScorer selects the scoring strategy.
func WithScorer(s scorer.Strategy) Option {
	return func(o *Optimizer) {
		o.scorer = s
	}
}

func WithAnalyzer(a *analyzer.Analyzer) Option {
	return func(o *Optimizer) {
		o.analyzer = a
	}
}

func WithGenerator(g *mutation.Generator) Option {
	return func(o *Optimizer) {
		o.generator = g
	}
}

// WithLanguage selects the language of generated prompts and default texts
// ("en" or "ko").
func WithLanguage(language string) Option {
	return func(o *Optimizer) {
		o.language = language
	}
}

// WithSystemPreamble prepends context, such as a product description, to
// every variant instruction sent to the oracle.
func WithSystemPreamble(preamble string) Option {
	return func(o *Optimizer) {
		o.preamble = preamble
	}
}

// WithCategoryBoosts adds a fixed amount to the score of every trial of the
// given categories. The boosted score is capped at 1.
func WithCategoryBoosts(boosts map[mutation.Category]float64) Option {
	return func(o *Optimizer) {
		o.boosts = boosts
	}
}

func WithTokenCounter(c oracle.TokenCounter) Option {
	return func(o *Optimizer) {
		o.tokens = c
	}
}

func WithLogger(logger utils.Logger) Option {
	return func(o *Optimizer) {
		o.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Optimizer) {
		o.metrics = m
	}
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *Optimizer) {
		o.tracer = tp.Tracer(tracerName)
	}
}
