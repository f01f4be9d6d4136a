package population

import (
	"math"
	"sort"
)

// Population is an ordered collection of candidates.
type Population []*Candidate

// Sort orders the population best first. The sort is stable so equal
// candidates keep their insertion order.
func (p Population) Sort() {
	sort.SliceStable(p, func(i, j int) bool { return Less(p[i], p[j]) })
}

// EvaluateAll fills in stale fitness values.
func (p Population) EvaluateAll(xs, ys []float64) {
	for _, c := range p {
		c.Evaluate(xs, ys)
	}
}

// Best returns the k best candidates of an already sorted population,
// skipping expressions whose text was already taken. Duplicates are only
// used when there are fewer than k distinct candidates.
func (p Population) Best(k int) Population {
	if k > len(p) {
		k = len(p)
	}
	if k <= 0 {
		return Population{}
	}
	out := make(Population, 0, k)
	seen := make(map[string]bool, k)
	var dups Population
	for _, c := range p {
		if len(out) == k {
			break
		}
		s := c.String()
		if seen[s] {
			dups = append(dups, c)
			continue
		}
		seen[s] = true
		out = append(out, c)
	}
	for _, c := range dups {
		if len(out) == k {
			break
		}
		out = append(out, c)
	}
	out.Sort()
	return out
}

// Truncate sorts p and returns its best k members.
func (p Population) Truncate(k int) Population {
	p.Sort()
	return p.Best(k)
}

// BestFitness returns the lowest score, +Inf for an empty population.
func (p Population) BestFitness() float64 {
	best := math.Inf(1)
	for _, c := range p {
		if s := c.Score(); s < best {
			best = s
		}
	}
	return best
}

// FiniteFitness returns the finite fitness values, for statistics.
func (p Population) FiniteFitness() []float64 {
	out := make([]float64, 0, len(p))
	for _, c := range p {
		if s := c.Score(); !math.IsInf(s, 0) {
			out = append(out, s)
		}
	}
	return out
}

// Strings returns the formatted expressions in order.
func (p Population) Strings() []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = c.String()
	}
	return out
}
