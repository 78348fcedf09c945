// File: optimizer/types.go

package optimizer

import (
	"time"

	"github.com/autopromptix/autopromptix/analyzer"
	"github.com/autopromptix/autopromptix/mutation"
	"github.com/autopromptix/autopromptix/scorer"
)

// Request describes one optimization run.
type Request struct {
	UserInput      string `json:"userInput" yaml:"user_input"`
	ExpectedOutput string `json:"expectedOutput,omitempty" yaml:"expected_output"`
	// ProductName is the keyword every answer should mention. Empty means no
	// keyword is required.
	ProductName    string   `json:"productName" yaml:"product_name"`
	ForbiddenWords []string `json:"forbiddenWords,omitempty" yaml:"forbidden_words"`
	// CustomRequirements are caller requirements in priority order.
	CustomRequirements []string       `json:"customRequirements,omitempty" yaml:"custom_requirements"`
	EvaluationWeights  scorer.Weights `json:"evaluationWeights" yaml:"evaluation_weights"`
}

// Trial is the evaluation of one variant.
type Trial struct {
	VariantName  string             `json:"name"`
	Category     mutation.Category  `json:"category"`
	Instruction  string             `json:"prompt"`
	Output       string             `json:"output"`
	Score        float64            `json:"score"`
	Breakdown    map[string]float64 `json:"breakdown,omitempty"`
	Method       string             `json:"method"`
	Reasoning    string             `json:"reasoning,omitempty"`
	PromptTokens int                `json:"promptTokens"`
	OutputTokens int                `json:"outputTokens"`
	Duration     time.Duration      `json:"duration"`
}

// Result is the outcome of a successful run. AllTrials keeps generation
// order and BestScore is the maximum trial score.
type Result struct {
	RunID                string          `json:"runId"`
	BestVariantName      string          `json:"bestVariant"`
	BestPrompt           string          `json:"bestPrompt"`
	BestOutput           string          `json:"bestOutput"`
	BestScore            float64         `json:"bestScore"`
	AllTrials            []Trial         `json:"allTrials"`
	BaselineScore        float64         `json:"baselineScore"`
	Improvement          float64         `json:"improvement"`
	Analysis             analyzer.Result `json:"analysis"`
	TotalEvaluations     int             `json:"totalEvaluations"`
	GenerationsCompleted int             `json:"generationsCompleted"`
}
