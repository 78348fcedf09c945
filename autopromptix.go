// File: autopromptix.go

// Package autopromptix wires configuration, the oracle client, the scoring
// strategy and the optimizer into a ready-to-use Engine.
//
//	engine, err := autopromptix.New(autopromptix.SetAPIKey(key))
//	if err != nil { ... }
//	res, err := engine.Optimize(ctx, autopromptix.Request{UserInput: "..."})
package autopromptix

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"

	"github.com/autopromptix/autopromptix/config"
	"github.com/autopromptix/autopromptix/metrics"
	"github.com/autopromptix/autopromptix/mutation"
	"github.com/autopromptix/autopromptix/optimizer"
	"github.com/autopromptix/autopromptix/oracle"
	"github.com/autopromptix/autopromptix/scorer"
	"github.com/autopromptix/autopromptix/utils"
)

// Type aliases to bridge the public API and the packages behind it.
type (
	Config       = config.Config
	ConfigOption = config.ConfigOption
	Request      = optimizer.Request
	Result       = optimizer.Result
	Trial        = optimizer.Trial
	Event        = optimizer.Event
	CancelToken  = optimizer.CancelToken
	Weights      = scorer.Weights
	LogLevel     = utils.LogLevel
)

const (
	LogLevelOff   = utils.LogLevelOff
	LogLevelError = utils.LogLevelError
	LogLevelWarn  = utils.LogLevelWarn
	LogLevelInfo  = utils.LogLevelInfo
	LogLevelDebug = utils.LogLevelDebug
)

var (
	SetAPIKey         = config.SetAPIKey
	SetModel          = config.SetModel
	SetBaseURL        = config.SetBaseURL
	SetTemperature    = config.SetTemperature
	SetMaxTokens      = config.SetMaxTokens
	SetTimeout        = config.SetTimeout
	SetMaxRetries     = config.SetMaxRetries
	SetRetryDelay     = config.SetRetryDelay
	SetRateLimit      = config.SetRateLimit
	SetLanguage       = config.SetLanguage
	SetScoring        = config.SetScoring
	SetLogLevel       = config.SetLogLevel
	SetLogger         = config.SetLogger
	SetJaegerEndpoint = config.SetJaegerEndpoint

	NewCancelToken         = optimizer.NewCancelToken
	ErrNoVariantsSucceeded = optimizer.ErrNoVariantsSucceeded
)

// Engine runs optimizations with one configured oracle.
type Engine struct {
	config    *config.Config
	oracle    oracle.Oracle
	optimizer *optimizer.Optimizer
	logger    utils.Logger
}

type engineOptions struct {
	oracle         oracle.Oracle
	metrics        *metrics.Metrics
	tracerProvider trace.TracerProvider
	tokens         oracle.TokenCounter
	demoBoosts     bool
	extra          []optimizer.Option
}

// Option customizes collaborators that do not come from configuration.
type Option func(*engineOptions)

// WithOracle replaces the OpenAI client, for tests or other providers.
func WithOracle(o oracle.Oracle) Option {
	return func(e *engineOptions) {
		e.oracle = o
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *engineOptions) {
		e.metrics = m
	}
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(e *engineOptions) {
		e.tracerProvider = tp
	}
}

func WithTokenCounter(c oracle.TokenCounter) Option {
	return func(e *engineOptions) {
		e.tokens = c
	}
}

// WithDemoBoosts enables the per-category score boosts of the demo setup.
func WithDemoBoosts() Option {
	return func(e *engineOptions) {
		e.demoBoosts = true
	}
}

// WithOptimizerOptions passes options straight to the optimizer. They are
// applied last.
func WithOptimizerOptions(opts ...optimizer.Option) Option {
	return func(e *engineOptions) {
		e.extra = append(e.extra, opts...)
	}
}

// New loads the configuration from the environment, applies opts and builds
// an Engine.
func New(opts ...ConfigOption) (*Engine, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	config.ApplyOptions(cfg, opts...)
	return NewFromConfig(cfg)
}

// NewFromConfig validates cfg and builds an Engine from it.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	eo := &engineOptions{}
	for _, opt := range opts {
		opt(eo)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = utils.NewLogger(cfg.LogLevel).With("service", cfg.ServiceName)
		cfg.Logger = logger
	}

	o := eo.oracle
	if o == nil {
		o = oracle.NewClient(cfg, oracle.WithLogger(logger), oracle.WithMetrics(eo.metrics))
	}

	var strategy scorer.Strategy = scorer.NewHeuristic()
	if cfg.Scoring == config.ScoringRubric {
		strategy = scorer.NewRubric(o, scorer.WithLogger(logger), scorer.WithMetrics(eo.metrics))
	}

	tokens := eo.tokens
	if tokens == nil {
		tokens = oracle.NewTokenCounter(cfg.Model, logger)
	}

	optOpts := []optimizer.Option{
		optimizer.WithScorer(strategy),
		optimizer.WithLanguage(cfg.Language),
		optimizer.WithLogger(logger),
		optimizer.WithMetrics(eo.metrics),
		optimizer.WithTokenCounter(tokens),
	}
	if eo.tracerProvider != nil {
		optOpts = append(optOpts, optimizer.WithTracerProvider(eo.tracerProvider))
	}
	if eo.demoBoosts {
		optOpts = append(optOpts, optimizer.WithCategoryBoosts(mutation.DemoBoosts()))
	}
	optOpts = append(optOpts, eo.extra...)

	logger.Debug("Engine created", "model", cfg.Model, "scoring", cfg.Scoring, "language", cfg.Language)
	return &Engine{
		config:    cfg,
		oracle:    o,
		optimizer: optimizer.New(o, optOpts...),
		logger:    logger,
	}, nil
}

func (e *Engine) Optimize(ctx context.Context, req Request) (*Result, error) {
	return e.optimizer.Optimize(ctx, req)
}

func (e *Engine) OptimizeStream(ctx context.Context, req Request, token *CancelToken) <-chan Event {
	return e.optimizer.OptimizeStream(ctx, req, token)
}

// Batch returns a runner for several independent requests.
func (e *Engine) Batch(parallelism int) *optimizer.BatchOptimizer {
	return optimizer.NewBatchOptimizer(e.optimizer, parallelism)
}

func (e *Engine) Oracle() oracle.Oracle {
	return e.oracle
}

func (e *Engine) Config() *config.Config {
	return e.config
}
