package scorer

import "fmt"

// Weights are the relative importance of the four grading criteria used by
// the rubric strategy.
type Weights struct {
	ExcludeKeywords    float64 `json:"excludeKeywords" yaml:"exclude_keywords"`
	ProductName        float64 `json:"productName" yaml:"product_name"`
	ExpectedOutput     float64 `json:"expectedOutput" yaml:"expected_output"`
	CustomRequirements float64 `json:"customRequirements" yaml:"custom_requirements"`
}

// Normalize scales w so the criteria sum to 100. Negative weights count as
// zero; if nothing positive remains every criterion gets 25.
func (w Weights) Normalize() Weights {
	w.ExcludeKeywords = max(0, w.ExcludeKeywords)
	w.ProductName = max(0, w.ProductName)
	w.ExpectedOutput = max(0, w.ExpectedOutput)
	w.CustomRequirements = max(0, w.CustomRequirements)

	sum := w.ExcludeKeywords + w.ProductName + w.ExpectedOutput + w.CustomRequirements
	if sum == 0 {
		return Weights{ExcludeKeywords: 25, ProductName: 25, ExpectedOutput: 25, CustomRequirements: 25}
	}
	f := 100 / sum
	return Weights{
		ExcludeKeywords:    w.ExcludeKeywords * f,
		ProductName:        w.ProductName * f,
		ExpectedOutput:     w.ExpectedOutput * f,
		CustomRequirements: w.CustomRequirements * f,
	}
}

func (w Weights) String() string {
	return fmt.Sprintf("excludeKeywords=%.1f productName=%.1f expectedOutput=%.1f customRequirements=%.1f",
		w.ExcludeKeywords, w.ProductName, w.ExpectedOutput, w.CustomRequirements)
}
