// Package strategy implements the evolution models: the rules that turn a
// ranked generation into offspring.
package strategy

import (
	"fmt"
	"sort"

	"github.com/wildfunctions/genetix/pkg/pool"
	"github.com/wildfunctions/genetix/pkg/population"
	"github.com/wildfunctions/genetix/pkg/rng"
)

// Strategy produces offspring for one generation. Evolve receives the
// current generation sorted best first with fitness evaluated, and returns
// exactly size new candidates. It must not modify ranked or its trees.
type Strategy interface {
	Name() string
	Initialize(b *Breeder, size int) population.Population
	Evolve(ranked population.Population, b *Breeder, size int) population.Population
}

var registry = map[string]func() Strategy{}

// Register adds a strategy constructor to the registry.
func Register(name string, constructor func() Strategy) {
	registry[name] = constructor
}

// Get returns a strategy by name.
func Get(name string) (Strategy, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy: %s", name)
	}
	return ctor(), nil
}

// Names returns all registered strategy names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Params are the per-run operator settings a strategy reads.
type Params struct {
	Mutation     float64
	Crossing     float64
	Reproduction float64
	Selection    float64

	MinLength int
	MaxLength int

	// ArbitraryMutations lets mutation replace whole subtrees and swap
	// operators; otherwise only terminals change.
	ArbitraryMutations bool
	// ArbitraryCrossings lets crossing swap subtrees of any shape;
	// otherwise both swapped subtrees must have the same root arity.
	ArbitraryCrossings bool
}

// Breeder bundles what the genetic operators draw on.
type Breeder struct {
	Pool   pool.Pool
	Rng    *rng.Source
	Params Params
}

// NewBreeder returns a breeder over p and src.
func NewBreeder(p pool.Pool, src *rng.Source, params Params) *Breeder {
	return &Breeder{Pool: p, Rng: src, Params: params}
}

// Immigrant returns a fresh random candidate within the length bounds.
func (b *Breeder) Immigrant() *population.Candidate {
	return population.New(b.Pool.RandomTree(b.Rng, b.Params.MinLength, b.Params.MaxLength))
}

// InBounds reports whether c's length lies within the configured bounds.
func (b *Breeder) InBounds(c *population.Candidate) bool {
	n := c.Length()
	return n >= b.Params.MinLength && n <= b.Params.MaxLength
}

// randomPopulation is the shared Initialize of the built-in strategies.
func randomPopulation(b *Breeder, size int) population.Population {
	pop := make(population.Population, size)
	for i := range pop {
		pop[i] = b.Immigrant()
	}
	return pop
}
