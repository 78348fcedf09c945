package optimizer

import "errors"

// ErrNoVariantsSucceeded is returned when every variant evaluation failed.
var ErrNoVariantsSucceeded = errors.New("no variants succeeded")

// errCancelled ends a stream whose cancel token was set.
var errCancelled = errors.New("run cancelled")

// DefaultBaselineScore is used when the base variant produced no trial.
const DefaultBaselineScore = 0.5

// generations is fixed: a run is a single generate, evaluate, select round.
const generations = 1

type defaultTexts struct {
	userInput      string
	expectedOutput string
}

var defaults = map[string]defaultTexts{
	"en": {
		userInput:      "Please write a helpful answer.",
		expectedOutput: "A clear, well-structured and practical answer.",
	},
	"ko": {
		userInput:      "도움이 되는 답변을 작성해주세요.",
		expectedOutput: "명확하고 구조화된 실용적인 답변",
	},
}
