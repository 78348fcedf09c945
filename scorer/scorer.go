// Package scorer assigns quality scores in [0, 1] to oracle outputs.
//
// Two strategies are provided. Heuristic combines lexical similarity to the
// expected output, keyword coverage and surface-feature bonuses, then
// applies the forbidden-word penalty. Rubric asks the oracle to grade the
// output against weighted criteria and falls back to Heuristic whenever the
// grade cannot be obtained.
package scorer

import (
	"context"
	"math"
)

// Scoring methods reported in Assessment.Method.
const (
	MethodHeuristic      = "heuristic"
	MethodRubric         = "rubric"
	MethodRubricFallback = "rubric_fallback"
)

// Input is everything a strategy may look at.
type Input struct {
	Output             string
	Reference          string
	Keywords           []string
	ForbiddenWords     []string
	CustomRequirements []string
	Weights            Weights
}

// Assessment is the result of scoring one output.
type Assessment struct {
	Score     float64            `json:"score"`
	Breakdown map[string]float64 `json:"breakdown,omitempty"`
	Reasoning string             `json:"reasoning,omitempty"`
	Method    string             `json:"method"`
}

// Strategy scores an output. Implementations never fail; they degrade to a
// simpler signal instead.
type Strategy interface {
	Score(ctx context.Context, in Input) Assessment
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
