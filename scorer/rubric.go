package scorer

import (
	"context"
	"fmt"
	"strings"

	"github.com/autopromptix/autopromptix/extract"
	"github.com/autopromptix/autopromptix/metrics"
	"github.com/autopromptix/autopromptix/oracle"
	"github.com/autopromptix/autopromptix/utils"
)

const rubricSystemPrompt = "You are a strict evaluator of AI answers. Grade exactly as instructed and reply with JSON only."

type rubricReply struct {
	Score     *float64       `json:"score" jsonschema:"minimum=0,maximum=100,description=Overall weighted score" validate:"required,gte=0,lte=100"`
	Breakdown map[string]any `json:"breakdown,omitempty" jsonschema:"description=Per-criterion scores from 0 to 100"`
	Reasoning string         `json:"reasoning" jsonschema:"description=Short justification of the score"`
}

// numericBreakdown keeps the criteria graded with a number, either directly
// or as {"score": n}. Anything else is dropped.
func numericBreakdown(raw map[string]any) map[string]float64 {
	if len(raw) == 0 {
		return nil
	}
	out := make(map[string]float64, len(raw))
	for k, v := range raw {
		switch v := v.(type) {
		case float64:
			out[k] = v
		case map[string]any:
			if n, ok := v["score"].(float64); ok {
				out[k] = n
			}
		}
	}
	return out
}

var rubricSchema = extract.Schema(&rubricReply{})

// Rubric asks the oracle to grade an output against weighted criteria.
// When the oracle fails or its reply cannot be decoded, the heuristic
// composite times the forbidden-word penalty is used instead.
type Rubric struct {
	oracle    oracle.Oracle
	heuristic *Heuristic
	logger    utils.Logger
	metrics   *metrics.Metrics
}

type RubricOption func(*Rubric)

// WithFallback sets the heuristic used when grading fails.
func WithFallback(h *Heuristic) RubricOption {
	return func(r *Rubric) {
		r.heuristic = h
	}
}

func WithLogger(logger utils.Logger) RubricOption {
	return func(r *Rubric) {
		r.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) RubricOption {
	return func(r *Rubric) {
		r.metrics = m
	}
}

func NewRubric(o oracle.Oracle, opts ...RubricOption) *Rubric {
	r := &Rubric{
		oracle:    o,
		heuristic: NewHeuristic(),
		logger:    utils.NewLogger(utils.LogLevelWarn),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Rubric) Score(ctx context.Context, in Input) Assessment {
	reply, err := r.oracle.Complete(ctx, rubricSystemPrompt, rubricPrompt(in))
	if err != nil {
		r.logger.Warn("Rubric grading failed, using heuristic score", "error", err)
		return r.fallback(ctx, in)
	}

	var graded rubricReply
	if err := extract.Decode(reply, &graded); err != nil {
		r.logger.Warn("Rubric reply unusable, using heuristic score", "error", err)
		r.logger.Debug("Unusable rubric reply", "reply", reply)
		return r.fallback(ctx, in)
	}

	return Assessment{
		Score:     round3(clamp01(*graded.Score / 100)),
		Breakdown: numericBreakdown(graded.Breakdown),
		Reasoning: graded.Reasoning,
		Method:    MethodRubric,
	}
}

func (r *Rubric) fallback(ctx context.Context, in Input) Assessment {
	r.metrics.IncRubricFallback()
	a := r.heuristic.Score(ctx, in)
	a.Method = MethodRubricFallback
	return a
}

func rubricPrompt(in Input) string {
	w := in.Weights.Normalize()

	var b strings.Builder
	b.WriteString("Grade the AI answer below against four weighted criteria.\n\n")
	fmt.Fprintf(&b, "Answer:\n%s\n\n", in.Output)
	fmt.Fprintf(&b, "Expected output:\n%s\n\n", orNone(in.Reference))
	fmt.Fprintf(&b, "Required keyword: %s\n", orNone(strings.Join(in.Keywords, ", ")))
	fmt.Fprintf(&b, "Forbidden words: %s\n", orNone(strings.Join(in.ForbiddenWords, ", ")))
	b.WriteString("Custom requirements:\n")
	if len(in.CustomRequirements) == 0 {
		b.WriteString("- (none)\n")
	}
	for _, req := range in.CustomRequirements {
		fmt.Fprintf(&b, "- %s\n", req)
	}

	b.WriteString("\nCriteria and weights (sum 100):\n")
	fmt.Fprintf(&b, "- excludeKeywords (%.1f): the answer avoids every forbidden word\n", w.ExcludeKeywords)
	fmt.Fprintf(&b, "- productName (%.1f): the answer mentions the required keyword naturally\n", w.ProductName)
	fmt.Fprintf(&b, "- expectedOutput (%.1f): the answer matches the expected output in content and form\n", w.ExpectedOutput)
	fmt.Fprintf(&b, "- customRequirements (%.1f): the answer satisfies every custom requirement\n", w.CustomRequirements)

	b.WriteString(`
Score each criterion from 0 to 100 using these bands:
- 90-100: excellent, fully satisfied
- 70-89: good, minor gaps
- 50-69: fair, noticeable gaps
- 0-49: poor, largely unsatisfied

The overall score is the weighted average of the criterion scores.
Reply with a single JSON object matching this schema, without markdown:
`)
	b.WriteString(rubricSchema)
	return b.String()
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(none)"
	}
	return s
}
