package strategy

import "github.com/wildfunctions/genetix/pkg/population"

func init() {
	Register("gp", func() Strategy { return &GP{} })
}

// GP is the genetic-programming model with independent mutation, crossing,
// reproduction and selection probabilities. When they sum to more than one
// they are scaled down proportionally; any remaining probability mass
// produces a random immigrant.
type GP struct{}

func (s *GP) Name() string { return "gp" }

func (s *GP) Initialize(b *Breeder, size int) population.Population {
	return randomPopulation(b, size)
}

func (s *GP) Evolve(ranked population.Population, b *Breeder, size int) population.Population {
	p := b.Params
	total := p.Mutation + p.Crossing + p.Reproduction + p.Selection
	scale := 1.0
	if total > 1 {
		scale = total
	}

	next := make(population.Population, 0, size)
	for len(next) < size {
		r := b.Rng.Float64() * scale
		switch {
		case r < p.Mutation:
			next = append(next, b.Mutate(RankSelect(ranked, b.Rng)))
		case r < p.Mutation+p.Crossing:
			c1, c2 := b.Cross(TournamentSelect(ranked, b.Rng), TournamentSelect(ranked, b.Rng))
			next = append(next, c1)
			if len(next) < size {
				next = append(next, c2)
			}
		case r < p.Mutation+p.Crossing+p.Reproduction:
			next = append(next, TournamentSelect(ranked, b.Rng).Clone())
		case r < total:
			next = append(next, RouletteSelect(ranked, b.Rng).Clone())
		default:
			next = append(next, b.Immigrant())
		}
	}
	return next
}
