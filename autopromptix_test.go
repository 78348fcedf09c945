package autopromptix

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autopromptix/autopromptix/config"
	"github.com/autopromptix/autopromptix/metrics"
	"github.com/autopromptix/autopromptix/optimizer"
	"github.com/autopromptix/autopromptix/oracle"
	"github.com/autopromptix/autopromptix/scorer"
	"github.com/autopromptix/autopromptix/utils"
)

func testConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.Logger = utils.NewNopLogger()
	return cfg
}

func TestNewFromConfigRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Scoring = "vibes"

	_, err := NewFromConfig(cfg)
	assert.Error(t, err)
}

func TestNewFromConfigBuildsLogger(t *testing.T) {
	cfg := config.NewConfig()
	cfg.LogLevel = utils.LogLevelOff

	engine, err := NewFromConfig(cfg, WithOracle(oracle.NewMock()))
	require.NoError(t, err)
	assert.IsType(t, &utils.DefaultLogger{}, engine.Config().Logger)
}

func TestEngineOptimizeWithMockOracle(t *testing.T) {
	mock := oracle.NewMock()
	mock.SetResponse("AcmeBot helps teams ship faster. 1. Install 2. Configure 3. Deploy")

	reg := prometheus.NewRegistry()
	engine, err := NewFromConfig(testConfig(),
		WithOracle(mock),
		WithMetrics(metrics.New(reg)),
		WithTokenCounter(oracle.EstimateCounter{}),
	)
	require.NoError(t, err)
	assert.Same(t, mock, engine.Oracle())

	res, err := engine.Optimize(context.Background(), Request{
		UserInput:         "pitch our app",
		ProductName:       "AcmeBot",
		EvaluationWeights: scorer.Weights{ProductName: 50, ExpectedOutput: 50},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.RunID)
	assert.NotEmpty(t, res.AllTrials)
	assert.Equal(t, "base", res.AllTrials[0].VariantName)
	assert.GreaterOrEqual(t, res.BestScore, res.BaselineScore)
	assert.Equal(t, 1, testutil.CollectAndCount(reg, "autopromptix_runs_total"))
}

func TestEngineRubricScoringUsesOracle(t *testing.T) {
	mock := oracle.NewMock()
	mock.SetHandler(func(system, user string) (string, error) {
		return `{"score": 80, "reasoning": "solid"}`, nil
	})

	cfg := testConfig()
	cfg.Scoring = config.ScoringRubric
	engine, err := NewFromConfig(cfg, WithOracle(mock), WithTokenCounter(oracle.EstimateCounter{}))
	require.NoError(t, err)

	res, err := engine.Optimize(context.Background(), Request{UserInput: "pitch our app"})
	require.NoError(t, err)
	for _, trial := range res.AllTrials {
		assert.Equal(t, scorer.MethodRubric, trial.Method)
		assert.Equal(t, 0.8, trial.Score)
	}
}

func TestEngineStreamEndsWithFinalResults(t *testing.T) {
	mock := oracle.NewMock()
	engine, err := NewFromConfig(testConfig(),
		WithOracle(mock),
		WithTokenCounter(oracle.EstimateCounter{}),
		WithDemoBoosts(),
	)
	require.NoError(t, err)

	var last Event
	for ev := range engine.OptimizeStream(context.Background(), Request{UserInput: "hello"}, NewCancelToken()) {
		last = ev
	}
	assert.Equal(t, optimizer.EventFinalResults, last.Type)
	require.NotNil(t, last.Result)
}

func TestEngineBatchRunsEveryRequest(t *testing.T) {
	engine, err := NewFromConfig(testConfig(),
		WithOracle(oracle.NewMock()),
		WithTokenCounter(oracle.EstimateCounter{}),
	)
	require.NoError(t, err)

	results, err := engine.Batch(2).OptimizeAll(context.Background(), []optimizer.NamedRequest{
		{Name: "a", Request: Request{UserInput: "first"}},
		{Name: "b", Request: Request{UserInput: "second"}},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Name)
	assert.Equal(t, "b", results[1].Name)
}
