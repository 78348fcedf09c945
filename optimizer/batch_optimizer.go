// optimizer/batch_optimizer.go

package optimizer

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// BatchOptimizer runs independent requests concurrently. Each request is a
// separate run with its own variants and trials.
type BatchOptimizer struct {
	optimizer   *Optimizer
	parallelism int
	rateLimiter *rate.Limiter
}

// NewBatchOptimizer runs at most parallelism requests at once, without rate
// limiting. parallelism below 1 means 1.
func NewBatchOptimizer(o *Optimizer, parallelism int) *BatchOptimizer {
	return &BatchOptimizer{
		optimizer:   o,
		parallelism: max(parallelism, 1),
	}
}

// SetRateLimit limits how often a new run may start.
func (b *BatchOptimizer) SetRateLimit(r rate.Limit, burst int) {
	b.rateLimiter = rate.NewLimiter(r, burst)
}

// BatchResult pairs a request with the outcome of its run.
type BatchResult struct {
	Name   string
	Result *Result
	Err    error
}

// NamedRequest labels a request within a batch.
type NamedRequest struct {
	Name    string
	Request Request
}

// OptimizeAll returns one BatchResult per request, in input order. A failed
// run is reported in its BatchResult and does not stop the others; the
// returned error is only set when ctx ends.
func (b *BatchOptimizer) OptimizeAll(ctx context.Context, requests []NamedRequest) ([]BatchResult, error) {
	results := make([]BatchResult, len(requests))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.parallelism)
	for i, nr := range requests {
		i, nr := i, nr
		g.Go(func() error {
			results[i].Name = nr.Name
			if b.rateLimiter != nil {
				if err := b.rateLimiter.Wait(gctx); err != nil {
					results[i].Err = fmt.Errorf("rate limiter error: %w", err)
					return nil
				}
			}
			res, err := b.optimizer.Optimize(gctx, nr.Request)
			results[i].Result = res
			results[i].Err = err
			if err != nil {
				b.optimizer.logger.Warn("Batch run failed", "name", nr.Name, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return results, ctx.Err()
}
