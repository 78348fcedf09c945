// Package optimizer runs one prompt optimization round: analyze the request,
// generate variants, evaluate each against the oracle and select the best.
//
// Optimize returns the final Result; OptimizeStream reports every milestone
// as an Event on a channel and can be cancelled between variants.
package optimizer

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/autopromptix/autopromptix/analyzer"
	"github.com/autopromptix/autopromptix/metrics"
	"github.com/autopromptix/autopromptix/mutation"
	"github.com/autopromptix/autopromptix/oracle"
	"github.com/autopromptix/autopromptix/scorer"
	"github.com/autopromptix/autopromptix/utils"
)

const tracerName = "github.com/autopromptix/autopromptix/optimizer"

// Optimizer holds the collaborators of a run. It keeps no per-run state, so
// one Optimizer may serve concurrent runs.
type Optimizer struct {
	oracle    oracle.Oracle
	analyzer  *analyzer.Analyzer
	generator *mutation.Generator
	scorer    scorer.Strategy
	tokens    oracle.TokenCounter
	boosts    map[mutation.Category]float64
	language  string
	preamble  string
	logger    utils.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

// New builds an Optimizer around o. Without options it scores with the
// heuristic composite, writes English prompts and estimates token counts.
func New(o oracle.Oracle, opts ...Option) *Optimizer {
	opt := &Optimizer{
		oracle:   o,
		scorer:   scorer.NewHeuristic(),
		tokens:   oracle.EstimateCounter{},
		language: "en",
		logger:   utils.NewLogger(utils.LogLevelWarn),
		tracer:   otel.GetTracerProvider().Tracer(tracerName),
	}

	for _, apply := range opts {
		apply(opt)
	}

	if opt.analyzer == nil {
		opt.analyzer = analyzer.New(o, analyzer.WithLogger(opt.logger), analyzer.WithLanguage(opt.language))
	}
	if opt.generator == nil {
		opt.generator = &mutation.Generator{Language: opt.language}
	}
	return opt
}
