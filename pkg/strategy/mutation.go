package strategy

import (
	"math"

	"github.com/wildfunctions/genetix/pkg/expr"
	"github.com/wildfunctions/genetix/pkg/population"
)

// subtreeShare is the chance that an arbitrary mutation replaces a subtree
// rather than swapping one operator.
const subtreeShare = 0.8

// Mutate returns a mutated copy of parent. The parent is left untouched.
func (b *Breeder) Mutate(parent *population.Candidate) *population.Candidate {
	child := parent.Clone()
	if b.Params.ArbitraryMutations {
		if b.Rng.BoolP(subtreeShare) || !b.pointMutate(&child.Tree) {
			b.subtreeMutate(&child.Tree)
		}
	} else {
		b.leafMutate(&child.Tree)
	}
	child.Invalidate()
	return child
}

// subtreeMutate replaces a length-biased random subtree with a fresh one
// sized so the whole tree stays within the length bounds.
func (b *Breeder) subtreeMutate(root *expr.Node) {
	slot := expr.RandomSlot(root, b.Rng, true)
	rest := (*root).NodeCount() - (*slot).NodeCount()
	lo := max(1, b.Params.MinLength-rest)
	hi := max(lo, b.Params.MaxLength-rest)
	expr.Replace(slot, b.Pool.RandomTree(b.Rng, lo, hi))
}

// pointMutate swaps one operator for another of the same arity. It reports
// false when the tree has no operator.
func (b *Breeder) pointMutate(root *expr.Node) bool {
	var ops []*expr.Node
	for _, s := range expr.Slots(root) {
		if !expr.IsLeaf(*s) {
			ops = append(ops, s)
		}
	}
	if len(ops) == 0 {
		return false
	}
	switch n := (*expr.PickSlot(ops, b.Rng, false)).(type) {
	case *expr.UnaryNode:
		n.Op = b.Pool.RandomUnary(b.Rng)
	case *expr.BinaryNode:
		n.Op = b.Pool.RandomBinary(b.Rng)
	}
	return true
}

// leafMutate changes one terminal: a constant is nudged or redrawn, the
// variable is redrawn as a leaf.
func (b *Breeder) leafMutate(root *expr.Node) {
	slot := expr.PickSlot(expr.LeafSlots(root), b.Rng, false)
	if c, ok := (*slot).(*expr.ConstNode); ok && b.Rng.Bool() {
		c.Val = b.perturb(c.Val)
		return
	}
	expr.Replace(slot, b.Pool.RandomLeaf(b.Rng))
}

// perturb moves v by up to half its magnitude (at least 0.5), rounded to two
// decimals like pool constants.
func (b *Breeder) perturb(v float64) float64 {
	scale := math.Max(1, math.Abs(v)) * 0.5
	delta := (b.Rng.Float64()*2 - 1) * scale
	return math.Round((v+delta)*100) / 100
}
