package strategy

import (
	"errors"
	"fmt"

	"github.com/wildfunctions/genetix/pkg/population"
)

func init() {
	Register("custom", func() Strategy { return DefaultCustom() })
}

// Rule produces offspring for a Custom strategy. Weight reads the run's
// parameters, so a rule can follow the configured probabilities or ignore
// them. Apply returns one or more children.
type Rule struct {
	Name   string
	Weight func(p Params) float64
	Apply  func(ranked population.Population, b *Breeder) []*population.Candidate
}

// Fixed is a Weight that ignores the parameters.
func Fixed(w float64) func(Params) float64 {
	return func(Params) float64 { return w }
}

// Custom is the user-extensible model: per offspring it picks one of its
// rules with probability proportional to the rule's weight.
type Custom struct {
	name  string
	Rules []Rule
}

// NewCustom validates rules and returns a strategy named name. Register it
// to make it selectable by name.
func NewCustom(name string, rules ...Rule) (*Custom, error) {
	if name == "" {
		return nil, errors.New("custom strategy needs a name")
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("custom strategy %s has no rules", name)
	}
	for _, r := range rules {
		if r.Weight == nil || r.Apply == nil {
			return nil, fmt.Errorf("custom strategy %s: rule %q is incomplete", name, r.Name)
		}
	}
	return &Custom{name: name, Rules: rules}, nil
}

// DefaultCustom is the registered "custom" strategy: hill climbing on the
// best candidates, tournament crossing, and a trickle of immigrants.
func DefaultCustom() *Custom {
	c, _ := NewCustom("custom",
		Rule{
			Name:   "hill-climb",
			Weight: func(p Params) float64 { return p.Mutation + p.Reproduction },
			Apply: func(ranked population.Population, b *Breeder) []*population.Candidate {
				// Mutants of the top candidates; the merge keeps whichever is better.
				return []*population.Candidate{b.Mutate(ranked[b.Rng.AscendingInt(min(len(ranked), 5))])}
			},
		},
		Rule{
			Name:   "tournament-cross",
			Weight: func(p Params) float64 { return p.Crossing },
			Apply: func(ranked population.Population, b *Breeder) []*population.Candidate {
				c1, c2 := b.Cross(TournamentSelect(ranked, b.Rng), TournamentSelect(ranked, b.Rng))
				return []*population.Candidate{c1, c2}
			},
		},
		Rule{
			Name:   "immigrant",
			Weight: Fixed(0.05),
			Apply: func(_ population.Population, b *Breeder) []*population.Candidate {
				return []*population.Candidate{b.Immigrant()}
			},
		},
	)
	return c
}

func (s *Custom) Name() string { return s.name }

func (s *Custom) Initialize(b *Breeder, size int) population.Population {
	return randomPopulation(b, size)
}

func (s *Custom) Evolve(ranked population.Population, b *Breeder, size int) population.Population {
	weights := make([]float64, len(s.Rules))
	total := 0.0
	last := -1
	for i, r := range s.Rules {
		if w := r.Weight(b.Params); w > 0 {
			weights[i] = w
			total += w
			last = i
		}
	}

	next := make(population.Population, 0, size)
	for len(next) < size {
		if total == 0 {
			next = append(next, b.Immigrant())
			continue
		}
		// rounding can leave r just past the final weight
		rule := s.Rules[last]
		r := b.Rng.Float64() * total
		for i, w := range weights {
			if r < w {
				rule = s.Rules[i]
				break
			}
			r -= w
		}
		children := rule.Apply(ranked, b)
		if len(children) == 0 {
			children = append(children, b.Immigrant())
		}
		for _, c := range children {
			if len(next) == size {
				break
			}
			next = append(next, c)
		}
	}
	return next
}
