// Package population holds candidates, their fitness against a training
// sample, and the ranked population the engine evolves.
package population

import (
	"math"

	"github.com/wildfunctions/genetix/pkg/expr"
)

// Candidate is one expression tree plus its cached fitness.
type Candidate struct {
	Tree    expr.Node
	fitness float64
	stale   bool
}

// New wraps tree in a candidate whose fitness is not yet known. The
// candidate takes ownership of tree.
func New(tree expr.Node) *Candidate {
	return &Candidate{Tree: tree, stale: true}
}

// Fitness returns the cached fitness, or NaN if it was never evaluated or
// the tree changed since.
func (c *Candidate) Fitness() float64 {
	if c.stale {
		return math.NaN()
	}
	return c.fitness
}

// Evaluated reports whether the cached fitness is current.
func (c *Candidate) Evaluated() bool { return !c.stale }

// Evaluate computes the fitness against xs, ys if it is stale and returns it.
func (c *Candidate) Evaluate(xs, ys []float64) float64 {
	if c.stale {
		c.SetFitness(Fitness(c.Tree, xs, ys))
	}
	return c.fitness
}

// SetFitness stores a fitness computed elsewhere, e.g. from a cache.
func (c *Candidate) SetFitness(f float64) {
	c.fitness = f
	c.stale = false
}

// Invalidate marks the fitness stale. Call it after changing Tree in place.
func (c *Candidate) Invalidate() { c.stale = true }

// Score is the fitness used for ordering: NaN and stale fitness rank as +Inf.
func (c *Candidate) Score() float64 {
	if c.stale {
		return math.Inf(1)
	}
	return Rank(c.fitness)
}

// Clone returns a deep copy of the candidate, fitness included.
func (c *Candidate) Clone() *Candidate {
	return &Candidate{Tree: c.Tree.Clone(), fitness: c.fitness, stale: c.stale}
}

// String returns the formatted expression.
func (c *Candidate) String() string { return c.Tree.String() }

// Length returns the node count of the tree.
func (c *Candidate) Length() int { return c.Tree.NodeCount() }
