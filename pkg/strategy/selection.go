package strategy

import (
	"math"

	"github.com/wildfunctions/genetix/pkg/population"
	"github.com/wildfunctions/genetix/pkg/rng"
)

const tournamentSize = 5

// RankSelect picks from a best-first population with an ascending-biased
// draw, so fitter candidates are chosen more often.
func RankSelect(ranked population.Population, src *rng.Source) *population.Candidate {
	return ranked[src.AscendingInt(len(ranked))]
}

// TournamentSelect draws tournamentSize candidates uniformly and returns the
// fittest. On a ranked population that is the one with the lowest index.
func TournamentSelect(ranked population.Population, src *rng.Source) *population.Candidate {
	best := src.Intn(len(ranked))
	for i := 1; i < tournamentSize; i++ {
		if idx := src.Intn(len(ranked)); idx < best {
			best = idx
		}
	}
	return ranked[best]
}

// RouletteSelect samples proportionally to 1/(1+fitness). NaN and infinite
// fitness get no weight; when nothing has weight it falls back to
// RankSelect.
func RouletteSelect(ranked population.Population, src *rng.Source) *population.Candidate {
	weights := make([]float64, len(ranked))
	total := 0.0
	for i, c := range ranked {
		s := c.Score()
		if math.IsInf(s, 0) || s < 0 {
			continue
		}
		weights[i] = 1 / (1 + s)
		total += weights[i]
	}
	if total == 0 {
		return RankSelect(ranked, src)
	}
	r := src.Float64() * total
	for i, w := range weights {
		r -= w
		if r < 0 {
			return ranked[i]
		}
	}
	// rounding left r at ~0; take the last weighted one
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return ranked[i]
		}
	}
	return ranked[0]
}
