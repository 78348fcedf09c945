package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autopromptix/autopromptix"
	"github.com/autopromptix/autopromptix/optimizer"
	"github.com/autopromptix/autopromptix/oracle"
	"github.com/autopromptix/autopromptix/scorer"
)

func TestParseWeights(t *testing.T) {
	w, err := parseWeights("10, 40,30,20")
	require.NoError(t, err)
	assert.Equal(t, scorer.Weights{ExcludeKeywords: 10, ProductName: 40, ExpectedOutput: 30, CustomRequirements: 20}, w)

	_, err = parseWeights("1,2,3")
	assert.Error(t, err)
	_, err = parseWeights("1,2,x,4")
	assert.Error(t, err)
}

func TestBuildRequestFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "req.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
user_input: from file
product_name: FileBot
forbidden_words: [cheap]
custom_requirements: [be brief]
`), 0o600))

	flags := &cmdFlags{requestFile: path, product: "FlagBot", requires: listFlag{"cite sources"}}
	req, err := buildRequest(flags, nil)
	require.NoError(t, err)
	assert.Equal(t, "from file", req.UserInput)
	assert.Equal(t, "FlagBot", req.ProductName)
	assert.Equal(t, []string{"cheap"}, req.ForbiddenWords)
	assert.Equal(t, []string{"cite sources"}, req.CustomRequirements)

	req, err = buildRequest(&cmdFlags{forbid: " spam, ,scam"}, []string{"write", "a", "pitch"})
	require.NoError(t, err)
	assert.Equal(t, "write a pitch", req.UserInput)
	assert.Equal(t, []string{"spam", "scam"}, req.ForbiddenWords)
}

func TestBuildRequestNeedsInput(t *testing.T) {
	_, err := buildRequest(&cmdFlags{}, nil)
	assert.Error(t, err)
}

func TestPrepareConfigOptionsRejectsBadLogLevel(t *testing.T) {
	_, err := prepareConfigOptions(&cmdFlags{logLevel: "loud"})
	assert.Error(t, err)

	opts, err := prepareConfigOptions(&cmdFlags{model: "gpt-4o", scoring: "rubric"})
	require.NoError(t, err)
	assert.Len(t, opts, 2)
}

func testEngineOptions(o oracle.Oracle) []autopromptix.Option {
	return []autopromptix.Option{autopromptix.WithOracle(o), autopromptix.WithTokenCounter(oracle.EstimateCounter{})}
}

func TestRunPrintsResult(t *testing.T) {
	mock := oracle.NewMock()
	mock.SetResponse("AcmeBot answers in seconds.")

	var out bytes.Buffer
	err := run(&cmdFlags{logLevel: "off", product: "AcmeBot"}, []string{"pitch", "it"}, &out, testEngineOptions(mock)...)
	require.NoError(t, err)

	var res optimizer.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, "base", res.AllTrials[0].VariantName)
	assert.NotEmpty(t, res.BestVariantName)
}

func TestRunStreamPrintsJSONLines(t *testing.T) {
	var out bytes.Buffer
	err := run(&cmdFlags{logLevel: "off", stream: true}, []string{"hi"}, &out, testEngineOptions(oracle.NewMock())...)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.NotEmpty(t, lines)
	var last optimizer.Event
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &last))
	assert.Equal(t, optimizer.EventFinalResults, last.Type)
}

func TestRunReturnsOptimizeError(t *testing.T) {
	mock := oracle.NewMock()
	mock.SetError(errors.New("down"))

	var out bytes.Buffer
	err := run(&cmdFlags{logLevel: "off"}, []string{"hi"}, &out, testEngineOptions(mock)...)
	require.ErrorIs(t, err, optimizer.ErrNoVariantsSucceeded)
	assert.Empty(t, out.String())
}

func TestRunReturnsRequestError(t *testing.T) {
	err := run(&cmdFlags{logLevel: "off"}, nil, &bytes.Buffer{})
	assert.ErrorContains(t, err, "build request")
}
