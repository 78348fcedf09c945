// File: optimizer/utils.go

package optimizer

import (
	"math"
	"strings"

	"github.com/autopromptix/autopromptix/mutation"
	"github.com/autopromptix/autopromptix/scorer"
)

// withDefaults fills an empty user input or expected output with the fixed
// default texts of the optimizer's language.
func (o *Optimizer) withDefaults(req Request) Request {
	d, ok := defaults[o.language]
	if !ok {
		d = defaults["en"]
	}
	if strings.TrimSpace(req.UserInput) == "" {
		req.UserInput = d.userInput
	}
	if strings.TrimSpace(req.ExpectedOutput) == "" {
		req.ExpectedOutput = d.expectedOutput
	}
	return req
}

func (o *Optimizer) systemPrompt(v mutation.Variant) string {
	if o.preamble == "" {
		return v.Instruction
	}
	return o.preamble + "\n\n" + v.Instruction
}

func scorerInput(req Request, output string) scorer.Input {
	var keywords []string
	if name := strings.TrimSpace(req.ProductName); name != "" {
		keywords = []string{name}
	}
	return scorer.Input{
		Output:             output,
		Reference:          req.ExpectedOutput,
		Keywords:           keywords,
		ForbiddenWords:     req.ForbiddenWords,
		CustomRequirements: req.CustomRequirements,
		Weights:            req.EvaluationWeights,
	}
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
