// Package main provides a command-line interface for autopromptix.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "go.uber.org/automaxprocs"
	"gopkg.in/yaml.v3"

	"github.com/autopromptix/autopromptix"
	"github.com/autopromptix/autopromptix/config"
	"github.com/autopromptix/autopromptix/metrics"
	"github.com/autopromptix/autopromptix/optimizer"
	"github.com/autopromptix/autopromptix/scorer"
	"github.com/autopromptix/autopromptix/tracing"
	"github.com/autopromptix/autopromptix/utils"
)

const shutdownTimeout = 5 * time.Second

// listFlag collects a repeatable string flag.
type listFlag []string

func (l *listFlag) String() string {
	return strings.Join(*l, ", ")
}

func (l *listFlag) Set(value string) error {
	*l = append(*l, value)
	return nil
}

// cmdFlags holds all command-line flags
type cmdFlags struct {
	configFile  string
	requestFile string
	expected    string
	product     string
	forbid      string
	weights     string
	requires    listFlag
	scoring     string
	language    string
	model       string
	apiKey      string
	logLevel    string
	metricsAddr string
	jaeger      string
	stream      bool
	demoBoosts  bool
}

func parseFlags() *cmdFlags {
	flags := &cmdFlags{}
	flag.StringVar(&flags.configFile, "config", "", "YAML config file; keys in it override the environment")
	flag.StringVar(&flags.requestFile, "request", "", "YAML or JSON file holding the optimization request")
	flag.StringVar(&flags.expected, "expected", "", "Description of the expected answer")
	flag.StringVar(&flags.product, "product", "", "Keyword every answer should mention")
	flag.StringVar(&flags.forbid, "forbid", "", "Comma-separated words answers must avoid")
	flag.StringVar(
		&flags.weights,
		"weights",
		"",
		"Rubric weights as exclude,product,expected,custom (e.g. 25,25,25,25)",
	)
	flag.Var(&flags.requires, "require", "Custom requirement, repeatable, in priority order")
	flag.StringVar(&flags.scoring, "scoring", "", "Scoring strategy (heuristic, rubric)")
	flag.StringVar(&flags.language, "language", "", "Prompt language (en, ko)")
	flag.StringVar(&flags.model, "model", "", "Chat model")
	flag.StringVar(&flags.apiKey, "api-key", "", "OpenAI API key")
	flag.StringVar(&flags.logLevel, "log-level", "", "Log level (off, error, warn, info, debug)")
	flag.StringVar(&flags.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while running")
	flag.StringVar(&flags.jaeger, "jaeger", "", "Jaeger collector endpoint for traces")
	flag.BoolVar(&flags.stream, "stream", false, "Print progress events as JSON lines")
	flag.BoolVar(&flags.demoBoosts, "demo-boosts", false, "Apply the demo per-category score boosts")
	flag.Parse()
	return flags
}

func main() {
	flags := parseFlags()
	if err := run(flags, flag.Args(), os.Stdout); err != nil {
		exitWithError("Error: %v\n", err)
	}
}

// exitWithError prints an error message and exits
func exitWithError(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}

// run owns every resource of one invocation, so its deferred cleanups (trace
// flushing, metrics server shutdown) complete before main exits.
func run(flags *cmdFlags, args []string, out io.Writer, engineOpts ...autopromptix.Option) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	req, err := buildRequest(flags, args)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)
	stopMetrics := serveMetrics(flags.metricsAddr, reg)
	defer stopMetrics()

	tp, shutdown, err := tracing.Setup(tracing.Config{ServiceName: cfg.ServiceName, JaegerEndpoint: cfg.JaegerEndpoint})
	if err != nil {
		return fmt.Errorf("set up tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "tracing shutdown: %v\n", err)
		}
	}()

	opts := []autopromptix.Option{autopromptix.WithMetrics(m), autopromptix.WithTracerProvider(tp)}
	if flags.demoBoosts {
		opts = append(opts, autopromptix.WithDemoBoosts())
	}
	engine, err := autopromptix.NewFromConfig(cfg, append(opts, engineOpts...)...)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if flags.stream {
		err = runStream(ctx, engine, req, out)
	} else {
		err = runBlocking(ctx, engine, req, out)
	}
	if err != nil {
		return fmt.Errorf("optimize: %w", err)
	}
	return nil
}

func loadConfig(flags *cmdFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if flags.configFile != "" {
		cfg, err = config.LoadConfigFile(flags.configFile)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return nil, err
	}

	opts, err := prepareConfigOptions(flags)
	if err != nil {
		return nil, err
	}
	config.ApplyOptions(cfg, opts...)
	return cfg, nil
}

// prepareConfigOptions turns the flags that were set into config options.
func prepareConfigOptions(flags *cmdFlags) ([]config.ConfigOption, error) {
	var opts []config.ConfigOption
	if flags.apiKey != "" {
		opts = append(opts, config.SetAPIKey(flags.apiKey))
	}
	if flags.model != "" {
		opts = append(opts, config.SetModel(flags.model))
	}
	if flags.scoring != "" {
		opts = append(opts, config.SetScoring(flags.scoring))
	}
	if flags.language != "" {
		opts = append(opts, config.SetLanguage(flags.language))
	}
	if flags.jaeger != "" {
		opts = append(opts, config.SetJaegerEndpoint(flags.jaeger))
	}
	if flags.logLevel != "" {
		var level utils.LogLevel
		if err := level.UnmarshalText([]byte(flags.logLevel)); err != nil {
			return nil, err
		}
		opts = append(opts, config.SetLogLevel(level))
	}
	return opts, nil
}

// buildRequest starts from the request file, if any, and lets flags and the
// positional arguments override it.
func buildRequest(flags *cmdFlags, args []string) (optimizer.Request, error) {
	var req optimizer.Request
	if flags.requestFile != "" {
		data, err := os.ReadFile(flags.requestFile)
		if err != nil {
			return req, fmt.Errorf("read request file: %w", err)
		}
		// YAML is a superset of JSON, so one decoder covers both.
		if err := yaml.Unmarshal(data, &req); err != nil {
			return req, fmt.Errorf("parse request file %s: %w", flags.requestFile, err)
		}
	}

	if len(args) > 0 {
		req.UserInput = strings.Join(args, " ")
	}
	if flags.expected != "" {
		req.ExpectedOutput = flags.expected
	}
	if flags.product != "" {
		req.ProductName = flags.product
	}
	if flags.forbid != "" {
		req.ForbiddenWords = splitList(flags.forbid)
	}
	if len(flags.requires) > 0 {
		req.CustomRequirements = append([]string(nil), flags.requires...)
	}
	if flags.weights != "" {
		w, err := parseWeights(flags.weights)
		if err != nil {
			return req, err
		}
		req.EvaluationWeights = w
	}

	if strings.TrimSpace(req.UserInput) == "" {
		return req, errors.New("a user request is required, as arguments or in the request file")
	}
	return req, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseWeights(s string) (scorer.Weights, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return scorer.Weights{}, fmt.Errorf("weights need four values, got %d", len(parts))
	}
	var vals [4]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return scorer.Weights{}, fmt.Errorf("invalid weight %q: %w", p, err)
		}
		vals[i] = v
	}
	return scorer.Weights{
		ExcludeKeywords:    vals[0],
		ProductName:        vals[1],
		ExpectedOutput:     vals[2],
		CustomRequirements: vals[3],
	}, nil
}

func serveMetrics(addr string, reg *prometheus.Registry) func() {
	if addr == "" {
		return func() {}
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			_, _ = fmt.Fprintf(os.Stderr, "metrics server: %v\n", err)
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func runBlocking(ctx context.Context, engine *autopromptix.Engine, req optimizer.Request, out io.Writer) error {
	res, err := engine.Optimize(ctx, req)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// runStream prints every event as one JSON line. An interrupt cancels the
// run through its token; the stream then closes before the next variant.
func runStream(ctx context.Context, engine *autopromptix.Engine, req optimizer.Request, out io.Writer) error {
	token := optimizer.NewCancelToken()
	go func() {
		<-ctx.Done()
		token.Cancel()
	}()

	enc := json.NewEncoder(out)
	var last optimizer.Event
	for ev := range engine.OptimizeStream(context.WithoutCancel(ctx), req, token) {
		if err := enc.Encode(ev); err != nil {
			return err
		}
		last = ev
	}
	switch last.Type {
	case optimizer.EventFinalResults:
		return nil
	case optimizer.EventError:
		return errors.New(last.Error)
	default:
		return errors.New("optimization cancelled")
	}
}
