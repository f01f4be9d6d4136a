package population

import (
	"math"

	"github.com/wildfunctions/genetix/pkg/expr"
)

// Fitness is the sum of absolute errors of tree over the sample. Any NaN
// prediction makes the result NaN; zero is a perfect fit.
func Fitness(tree expr.Node, xs, ys []float64) float64 {
	sum := 0.0
	for i, x := range xs {
		v := tree.EvalF64(x)
		if math.IsNaN(v) {
			return math.NaN()
		}
		sum += math.Abs(v - ys[i])
	}
	return sum
}

// Rank maps a fitness to its ordering key: NaN becomes +Inf so it is never
// preferred over a real value.
func Rank(f float64) float64 {
	if math.IsNaN(f) {
		return math.Inf(1)
	}
	return f
}

// Less orders candidates by ascending Score, shorter trees first on ties.
func Less(a, b *Candidate) bool {
	sa, sb := a.Score(), b.Score()
	if sa != sb {
		return sa < sb
	}
	return a.Length() < b.Length()
}
