package expr

import (
	"math"

	"github.com/wildfunctions/genetix/pkg/genmath"
)

// Simplify applies rewrite rules to reduce an expression tree.
// It repeatedly applies rules until no further changes occur.
func Simplify(node Node) Node {
	for i := 0; i < 20; i++ { // cap iterations
		next := simplifyOnce(node)
		if next.String() == node.String() {
			return next
		}
		node = next
	}
	return node
}

func simplifyOnce(node Node) Node {
	switch n := node.(type) {
	case *VarNode, *ConstNode:
		return node

	case *UnaryNode:
		child := simplifyOnce(n.Child)
		if c, ok := child.(*ConstNode); ok {
			if v := genmath.Eval64(n.Op, c.Val, 0); isFinite(v) {
				return &ConstNode{Val: v}
			}
		}
		// ln(e^(u)) = u
		if n.Op == genmath.Ln {
			if inner, ok := child.(*UnaryNode); ok && inner.Op == genmath.Exp {
				return inner.Child
			}
		}
		return &UnaryNode{Op: n.Op, Child: child}

	case *BinaryNode:
		left := simplifyOnce(n.Left)
		right := simplifyOnce(n.Right)
		lc, lok := left.(*ConstNode)
		rc, rok := right.(*ConstNode)
		if lok && rok {
			if v := genmath.Eval64(n.Op, lc.Val, rc.Val); isFinite(v) {
				return &ConstNode{Val: v}
			}
		}

		switch n.Op {
		case genmath.Add:
			if isConst(left, 0) {
				return right
			}
			if isConst(right, 0) {
				return left
			}
		case genmath.Sub:
			if isConst(right, 0) {
				return left
			}
			if Equal(left, right) && !hasPartialOp(left) {
				return &ConstNode{Val: 0}
			}
		case genmath.Mul:
			if isConst(left, 1) {
				return right
			}
			if isConst(right, 1) {
				return left
			}
			if (isConst(left, 0) && !hasPartialOp(right)) || (isConst(right, 0) && !hasPartialOp(left)) {
				return &ConstNode{Val: 0}
			}
			if Equal(left, right) {
				return &UnaryNode{Op: genmath.Square, Child: left}
			}
		case genmath.Div:
			if isConst(right, 1) {
				return left
			}
		case genmath.Pow:
			if isConst(right, 1) {
				return left
			}
			if rok && rc.Val >= 2 && rc.Val <= 5 && rc.Val == math.Trunc(rc.Val) {
				return &UnaryNode{Op: '0' + byte(rc.Val), Child: left}
			}
		}
		return &BinaryNode{Op: n.Op, Left: left, Right: right}
	}
	return node
}

func isConst(n Node, v float64) bool {
	c, ok := n.(*ConstNode)
	return ok && c.Val == v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// hasPartialOp reports whether node contains an operator that can yield NaN
// for some x. Rewrites that would erase such a NaN are skipped.
func hasPartialOp(node Node) bool {
	switch n := node.(type) {
	case *UnaryNode:
		switch n.Op {
		case genmath.Ln, genmath.Log10, genmath.Sqrt, genmath.Asin, genmath.Acos, genmath.Tan:
			return true
		}
		return hasPartialOp(n.Child)
	case *BinaryNode:
		if n.Op == genmath.Div || n.Op == genmath.Pow {
			return true
		}
		return hasPartialOp(n.Left) || hasPartialOp(n.Right)
	}
	return false
}
