package optimizer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autopromptix/autopromptix/oracle"
)

func collect(t *testing.T, events <-chan Event) []Event {
	t.Helper()
	var out []Event
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-timeout:
			t.Fatal("stream did not close")
		}
	}
}

func types(events []Event) []EventType {
	out := make([]EventType, len(events))
	for i, ev := range events {
		out[i] = ev.Type
	}
	return out
}

var preamble = []EventType{
	EventStatus, EventStatus, EventAnalysisResult, EventStatus, EventMutations, EventStatus,
}

func TestOptimizeStreamOrder(t *testing.T) {
	opt := newTestOptimizer(echoOracle(`{"direction": "actionable", "instructions": "list next steps"}`))
	events := collect(t, opt.OptimizeStream(context.Background(), Request{UserInput: "hi"}, NewCancelToken()))

	want := append(append([]EventType{}, preamble...),
		EventEvaluationStart, EventLLMResponse, EventEvaluationResult,
		EventEvaluationStart, EventLLMResponse, EventEvaluationResult,
		EventFinalResults,
	)
	require.Equal(t, want, types(events))

	assert.Equal(t, StageInit, events[0].Stage)
	assert.Equal(t, StageAnalysis, events[1].Stage)
	assert.Equal(t, "actionable", events[2].Analysis.Direction)
	assert.Equal(t, StageMutation, events[3].Stage)
	require.Len(t, events[4].Variants, 2)
	assert.Equal(t, StageEvaluation, events[5].Stage)

	assert.Equal(t, "base", events[6].Variant)
	assert.Equal(t, 1, events[6].Index)
	assert.Equal(t, 2, events[6].Total)
	assert.NotEmpty(t, events[7].Output)
	assert.Equal(t, "base", events[8].Trial.VariantName)
	assert.Equal(t, "actionable", events[11].Trial.VariantName)

	final := events[12].Result
	require.NotNil(t, final)
	assert.Len(t, final.AllTrials, 2)
	for _, ev := range events {
		assert.Equal(t, final.RunID, ev.RunID)
	}
}

func TestOptimizeStreamCancelledBeforeFirstVariant(t *testing.T) {
	mock := echoOracle("x")
	token := NewCancelToken()
	token.Cancel()

	events := collect(t, newTestOptimizer(mock).OptimizeStream(context.Background(), Request{UserInput: "hi"}, token))

	assert.Equal(t, preamble, types(events))
	for _, ev := range events {
		assert.NotEqual(t, EventEvaluationResult, ev.Type)
		assert.NotEqual(t, EventFinalResults, ev.Type)
	}
	// only the analysis call reached the oracle
	assert.Len(t, mock.Calls(), 1)
}

func TestOptimizeStreamCancelledMidRun(t *testing.T) {
	token := NewCancelToken()
	mock := oracle.NewMock()
	mock.SetHandler(func(system, user string) (string, error) {
		if isAnalysis(system) {
			return "", nil
		}
		// the in-flight call completes; the loop stops before the next variant
		token.Cancel()
		return "answer", nil
	})

	events := collect(t, newTestOptimizer(mock).OptimizeStream(context.Background(), Request{UserInput: "hi"}, token))

	want := append(append([]EventType{}, preamble...), EventEvaluationStart, EventLLMResponse, EventEvaluationResult)
	assert.Equal(t, want, types(events))
}

func TestOptimizeStreamAllFailEndsWithError(t *testing.T) {
	mock := oracle.NewMock()
	mock.SetHandler(func(system, user string) (string, error) {
		if isAnalysis(system) {
			return "", nil
		}
		return "", errors.New("down")
	})

	events := collect(t, newTestOptimizer(mock).OptimizeStream(context.Background(), Request{UserInput: "hi"}, nil))
	require.NotEmpty(t, events)

	last := events[len(events)-1]
	assert.Equal(t, EventError, last.Type)
	assert.Equal(t, ErrNoVariantsSucceeded.Error(), last.Error)
	for _, ev := range events {
		assert.NotEqual(t, EventEvaluationResult, ev.Type)
	}
}

func TestOptimizeStreamStopsWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	events := newTestOptimizer(echoOracle("x")).OptimizeStream(ctx, Request{UserInput: "hi"}, nil)

	first := <-events
	assert.Equal(t, EventStatus, first.Type)
	cancel()

	rest := collect(t, events)
	for _, ev := range rest {
		assert.NotEqual(t, EventFinalResults, ev.Type)
	}
}

func TestEventJSON(t *testing.T) {
	b, err := json.Marshal(Event{Type: EventStatus, RunID: "r1", Stage: StageInit})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"status","runId":"r1","stage":"init"}`, string(b))
}

func TestCancelTokenNilSafe(t *testing.T) {
	var token *CancelToken
	assert.False(t, token.Cancelled())

	token = NewCancelToken()
	assert.False(t, token.Cancelled())
	token.Cancel()
	assert.True(t, token.Cancelled())
}
