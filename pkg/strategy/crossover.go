package strategy

import (
	"github.com/wildfunctions/genetix/pkg/expr"
	"github.com/wildfunctions/genetix/pkg/population"
)

const crossAttempts = 8

// Cross swaps random subtrees between copies of a and b and returns both
// children. Children must stay within the length bounds; after
// crossAttempts failed tries the parents' copies are returned unchanged.
func (b *Breeder) Cross(a, c *population.Candidate) (*population.Candidate, *population.Candidate) {
	for i := 0; i < crossAttempts; i++ {
		x, y := a.Clone(), c.Clone()
		if !b.swapSubtrees(&x.Tree, &y.Tree) {
			continue
		}
		x.Invalidate()
		y.Invalidate()
		if b.InBounds(x) && b.InBounds(y) {
			return x, y
		}
	}
	return a.Clone(), c.Clone()
}

func (b *Breeder) swapSubtrees(ra, rb *expr.Node) bool {
	sa := expr.PickSlot(expr.Slots(ra), b.Rng, false)
	candidates := expr.Slots(rb)
	if !b.Params.ArbitraryCrossings {
		arity := expr.Arity(*sa)
		same := candidates[:0]
		for _, s := range candidates {
			if expr.Arity(*s) == arity {
				same = append(same, s)
			}
		}
		candidates = same
	}
	if len(candidates) == 0 {
		return false
	}
	sb := expr.PickSlot(candidates, b.Rng, false)
	*sa, *sb = *sb, *sa
	return true
}
