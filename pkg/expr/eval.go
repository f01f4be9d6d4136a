package expr

import (
	"math"

	"github.com/wildfunctions/genetix/pkg/genmath"
)

// EvalF64 for VarNode returns x.
func (v *VarNode) EvalF64(x float64) float64 { return x }

// EvalF64 for ConstNode returns the constant value.
func (c *ConstNode) EvalF64(float64) float64 { return c.Val }

// EvalF64 for UnaryNode evaluates the child first; NaN short-circuits.
func (u *UnaryNode) EvalF64(x float64) float64 {
	child := u.Child.EvalF64(x)
	if math.IsNaN(child) {
		return child
	}
	return genmath.Eval64(u.Op, child, 0)
}

// EvalF64 for BinaryNode evaluates both children first; NaN short-circuits.
func (b *BinaryNode) EvalF64(x float64) float64 {
	left := b.Left.EvalF64(x)
	if math.IsNaN(left) {
		return left
	}
	right := b.Right.EvalF64(x)
	if math.IsNaN(right) {
		return right
	}
	return genmath.Eval64(b.Op, left, right)
}

// Evaluate evaluates n at x in the precision of T. Evaluate[float64] agrees
// with EvalF64.
func Evaluate[T genmath.Float](n Node, x T) T {
	switch n := n.(type) {
	case *VarNode:
		return x
	case *ConstNode:
		return T(n.Val)
	case *UnaryNode:
		child := Evaluate(n.Child, x)
		if child != child {
			return child
		}
		return genmath.Eval(n.Op, child, 0)
	case *BinaryNode:
		left := Evaluate(n.Left, x)
		if left != left {
			return left
		}
		right := Evaluate(n.Right, x)
		if right != right {
			return right
		}
		return genmath.Eval(n.Op, left, right)
	default:
		return T(math.NaN())
	}
}
