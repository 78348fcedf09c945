package optimizer

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/autopromptix/autopromptix/metrics"
	"github.com/autopromptix/autopromptix/mutation"
)

// assessVariant asks the oracle for the variant's answer, reports it through
// onOutput and scores it. An oracle error fails the variant.
func (o *Optimizer) assessVariant(ctx context.Context, req Request, v mutation.Variant, onOutput func(string)) (Trial, error) {
	ctx, span := o.tracer.Start(ctx, "optimizer.evaluate", trace.WithAttributes(
		attribute.String("variant.name", v.Name),
		attribute.String("variant.category", v.Category.String()),
	))
	defer span.End()

	start := time.Now()
	system := o.systemPrompt(v)
	output, err := o.oracle.Complete(ctx, system, req.UserInput)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.metrics.IncEvaluation(v.Category.String(), metrics.EvaluationSkipped)
		return Trial{}, fmt.Errorf("evaluate variant %s: %w", v.Name, err)
	}
	onOutput(output)

	assessment := o.scorer.Score(ctx, scorerInput(req, output))
	score := assessment.Score
	if boost := o.boosts[v.Category]; boost != 0 {
		score = round3(min(1, max(0, score+boost)))
	}

	trial := Trial{
		VariantName:  v.Name,
		Category:     v.Category,
		Instruction:  v.Instruction,
		Output:       output,
		Score:        score,
		Breakdown:    assessment.Breakdown,
		Method:       assessment.Method,
		Reasoning:    assessment.Reasoning,
		PromptTokens: o.tokens.Count(system) + o.tokens.Count(req.UserInput),
		OutputTokens: o.tokens.Count(output),
		Duration:     time.Since(start),
	}

	span.SetAttributes(
		attribute.Float64("trial.score", trial.Score),
		attribute.String("trial.method", trial.Method),
	)
	o.metrics.IncEvaluation(v.Category.String(), metrics.EvaluationScored)
	o.metrics.ObserveTrial(trial.Method, trial.Score)
	o.metrics.AddTokens("prompt", trial.PromptTokens)
	o.metrics.AddTokens("output", trial.OutputTokens)
	return trial, nil
}
