package strategy

import "github.com/wildfunctions/genetix/pkg/population"

func init() {
	Register("ga", func() Strategy { return &GA{} })
}

// GA is the plain genetic-algorithm model. Each offspring is a crossing
// child with the crossing probability, else a mutant with the mutation
// probability, else a copy of the next best parent. Reproduction and
// selection probabilities are ignored.
type GA struct{}

func (s *GA) Name() string { return "ga" }

func (s *GA) Initialize(b *Breeder, size int) population.Population {
	return randomPopulation(b, size)
}

func (s *GA) Evolve(ranked population.Population, b *Breeder, size int) population.Population {
	next := make(population.Population, 0, size)
	elite := 0
	for len(next) < size {
		switch {
		case b.Rng.BoolP(b.Params.Crossing):
			c1, c2 := b.Cross(RankSelect(ranked, b.Rng), RankSelect(ranked, b.Rng))
			next = append(next, c1)
			if len(next) < size {
				next = append(next, c2)
			}
		case b.Rng.BoolP(b.Params.Mutation):
			next = append(next, b.Mutate(RankSelect(ranked, b.Rng)))
		default:
			next = append(next, ranked[elite%len(ranked)].Clone())
			elite++
		}
	}
	return next
}
