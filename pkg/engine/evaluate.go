package engine

import (
	"context"

	concpool "github.com/sourcegraph/conc/pool"

	"github.com/wildfunctions/genetix/pkg/population"
)

// evaluate computes fitness for every stale candidate. Work is split across
// the configured workers; evaluation draws no randomness so the result is
// the same for any worker count.
func (e *Engine) evaluate(ctx context.Context, pop population.Population) {
	_, span := tracer.Start(ctx, "genetix.evaluate")
	defer span.End()

	xs, ys := e.sample.X, e.sample.Y
	if e.workers <= 1 || len(pop) < 2 {
		for _, c := range pop {
			e.evaluateOne(c, xs, ys)
		}
		return
	}

	p := concpool.New().WithMaxGoroutines(e.workers)
	for _, c := range pop {
		c := c
		p.Go(func() {
			e.evaluateOne(c, xs, ys)
		})
	}
	p.Wait()
}

func (e *Engine) evaluateOne(c *population.Candidate, xs, ys []float64) {
	if c.Evaluated() {
		return
	}
	if e.cache.Evaluate(c, xs, ys) {
		e.metrics.cacheHit()
	}
}
