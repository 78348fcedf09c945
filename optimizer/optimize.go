package optimizer

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/autopromptix/autopromptix/analyzer"
	"github.com/autopromptix/autopromptix/metrics"
	"github.com/autopromptix/autopromptix/mutation"
)

// Optimize runs one round and returns its result. The only errors are
// ErrNoVariantsSucceeded and the error of ctx when it ends first.
func (o *Optimizer) Optimize(ctx context.Context, req Request) (*Result, error) {
	return o.run(ctx, req, nil, func(Event) {})
}

// run is the policy shared by Optimize and OptimizeStream. Every milestone is
// passed to emit in order; emit must not retain the event's pointers beyond
// the run.
func (o *Optimizer) run(ctx context.Context, req Request, token *CancelToken, emit func(Event)) (*Result, error) {
	runID := uuid.NewString()
	ctx, span := o.tracer.Start(ctx, "optimizer.run", trace.WithAttributes(attribute.String("run.id", runID)))
	defer span.End()

	send := func(ev Event) {
		ev.RunID = runID
		emit(ev)
	}
	log := o.logger

	send(Event{Type: EventStatus, Stage: StageInit, Message: "optimization started"})
	req = o.withDefaults(req)
	log.Info("Starting optimization", "run_id", runID, "user_input", req.UserInput)

	send(Event{Type: EventStatus, Stage: StageAnalysis, Message: "analyzing request"})
	analysis := o.analyze(ctx, req.UserInput)
	send(Event{Type: EventAnalysisResult, Analysis: &analysis})

	send(Event{Type: EventStatus, Stage: StageMutation, Message: "generating variants"})
	base := mutation.BaseInstruction(o.language, req.UserInput, req.ExpectedOutput)
	variants := o.generator.Generate(base, analysis, req.CustomRequirements)
	span.SetAttributes(attribute.Int("run.variants", len(variants)))
	send(Event{Type: EventMutations, Variants: variants})
	log.Debug("Variants generated", "run_id", runID, "count", len(variants))

	send(Event{Type: EventStatus, Stage: StageEvaluation, Message: "evaluating variants"})
	trials := make([]Trial, 0, len(variants))
	for i, v := range variants {
		if token.Cancelled() {
			log.Info("Optimization cancelled", "run_id", runID, "evaluated", len(trials))
			return nil, o.abort(span, errCancelled, metrics.RunCancelled)
		}
		if err := ctx.Err(); err != nil {
			return nil, o.abort(span, err, metrics.RunCancelled)
		}

		progress := Event{Variant: v.Name, Index: i + 1, Total: len(variants)}
		send(progress.as(EventEvaluationStart))

		trial, err := o.assessVariant(ctx, req, v, func(output string) {
			ev := progress.as(EventLLMResponse)
			ev.Output = output
			send(ev)
		})
		if err != nil {
			log.Error("Variant evaluation failed, skipping", "run_id", runID, "variant", v.Name, "error", err)
			continue
		}
		trials = append(trials, trial)
		log.Info("Variant evaluated", "run_id", runID, "variant", v.Name, "score", trial.Score)

		ev := progress.as(EventEvaluationResult)
		ev.Trial = &trial
		send(ev)
	}

	if len(trials) == 0 {
		log.Error("All variant evaluations failed", "run_id", runID, "variants", len(variants))
		send(Event{Type: EventError, Error: ErrNoVariantsSucceeded.Error()})
		return nil, o.abort(span, ErrNoVariantsSucceeded, metrics.RunFailed)
	}

	best := trials[selectBest(trials)]
	baseline := baselineScore(trials)
	result := &Result{
		RunID:                runID,
		BestVariantName:      best.VariantName,
		BestPrompt:           best.Instruction,
		BestOutput:           o.bestOutput(ctx, req, best),
		BestScore:            best.Score,
		AllTrials:            trials,
		BaselineScore:        baseline,
		Improvement:          round3(best.Score - baseline),
		Analysis:             analysis,
		TotalEvaluations:     len(trials),
		GenerationsCompleted: generations,
	}

	span.SetAttributes(
		attribute.String("run.best_variant", result.BestVariantName),
		attribute.Float64("run.best_score", result.BestScore),
		attribute.Float64("run.improvement", result.Improvement),
	)
	o.metrics.IncRun(metrics.RunSucceeded)
	o.metrics.ObserveImprovement(result.Improvement)
	log.Info("Optimization completed", "run_id", runID, "best_variant", result.BestVariantName,
		"baseline", baseline, "best_score", result.BestScore)

	send(Event{Type: EventFinalResults, Result: result})
	return result, nil
}

func (o *Optimizer) abort(span trace.Span, err error, status string) error {
	span.SetStatus(codes.Error, err.Error())
	o.metrics.IncRun(status)
	return err
}

func (o *Optimizer) analyze(ctx context.Context, userInput string) analyzer.Result {
	ctx, span := o.tracer.Start(ctx, "optimizer.analyze")
	defer span.End()

	res := o.analyzer.Analyze(ctx, userInput)
	span.SetAttributes(attribute.String("analysis.direction", res.Direction))
	return res
}

// bestOutput queries the oracle once more with the winning instruction. If
// that call fails the output recorded during evaluation is reported.
func (o *Optimizer) bestOutput(ctx context.Context, req Request, best Trial) string {
	ctx, span := o.tracer.Start(ctx, "optimizer.best_output", trace.WithAttributes(
		attribute.String("variant.name", best.VariantName),
	))
	defer span.End()

	v := mutation.Variant{Name: best.VariantName, Category: best.Category, Instruction: best.Instruction}
	out, err := o.oracle.Complete(ctx, o.systemPrompt(v), req.UserInput)
	if err != nil {
		span.RecordError(err)
		o.logger.Warn("Final oracle call failed, reporting evaluation output", "variant", best.VariantName, "error", err)
		return best.Output
	}
	return out
}

// IsCancelled reports whether err ended a run because its cancel token was
// set or its context finished.
func IsCancelled(err error) bool {
	return errors.Is(err, errCancelled) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
