package optimizer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/autopromptix/autopromptix/oracle"
)

func TestBatchOptimizerKeepsOrder(t *testing.T) {
	mock := oracle.NewMock()
	mock.SetHandler(func(system, user string) (string, error) {
		if isAnalysis(system) {
			return "", nil
		}
		if user == "fail" {
			return "", errors.New("down")
		}
		return "answer for " + user, nil
	})

	b := NewBatchOptimizer(newTestOptimizer(mock), 2)
	b.SetRateLimit(rate.Inf, 1)

	results, err := b.OptimizeAll(context.Background(), []NamedRequest{
		{Name: "one", Request: Request{UserInput: "first"}},
		{Name: "two", Request: Request{UserInput: "fail"}},
		{Name: "three", Request: Request{UserInput: "third"}},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "one", results[0].Name)
	require.NoError(t, results[0].Err)
	assert.Equal(t, "answer for first", results[0].Result.BestOutput)

	assert.Equal(t, "two", results[1].Name)
	assert.ErrorIs(t, results[1].Err, ErrNoVariantsSucceeded)
	assert.Nil(t, results[1].Result)

	assert.Equal(t, "answer for third", results[2].Result.BestOutput)
	assert.NotEqual(t, results[0].Result.RunID, results[2].Result.RunID)
}

func TestBatchOptimizerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewBatchOptimizer(newTestOptimizer(oracle.NewMock()), 0)
	results, err := b.OptimizeAll(ctx, []NamedRequest{{Name: "a", Request: Request{UserInput: "x"}}})
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
}
