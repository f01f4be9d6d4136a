package expr

import (
	"math"

	"github.com/wildfunctions/genetix/pkg/genmath"
)

// Derive returns the simplified derivative of node with respect to the
// variable. Operators without a derivative everywhere (abs, max, min) use
// the sign form, which is NaN exactly where the derivative is undefined.
func Derive(node Node) Node {
	return Simplify(derive(node))
}

func derive(node Node) Node {
	switch n := node.(type) {
	case *VarNode:
		return Const(1)
	case *ConstNode:
		return Const(0)
	case *UnaryNode:
		return deriveUnary(n)
	case *BinaryNode:
		return deriveBinary(n)
	}
	return Const(math.NaN())
}

func deriveUnary(n *UnaryNode) Node {
	u := n.Child
	du := derive(u)
	var outer Node
	switch n.Op {
	case genmath.Square, genmath.Cube, genmath.Fourth, genmath.Fifth:
		k := genmath.PowerOf(n.Op)
		var lower Node = u.Clone()
		if k > 2 {
			lower = &UnaryNode{Op: byte('0' + k - 1), Child: u.Clone()}
		}
		outer = mul(Const(float64(k)), lower)
	case genmath.Abs:
		// u/|u|
		outer = div(u.Clone(), &UnaryNode{Op: genmath.Abs, Child: u.Clone()})
	case genmath.Exp:
		outer = n.Clone()
	case genmath.Ln:
		outer = div(Const(1), u.Clone())
	case genmath.Log10:
		outer = div(Const(1), mul(u.Clone(), Const(math.Ln10)))
	case genmath.Sqrt:
		outer = div(Const(1), mul(Const(2), n.Clone()))
	case genmath.Sin:
		outer = &UnaryNode{Op: genmath.Cos, Child: u.Clone()}
	case genmath.Cos:
		outer = sub(Const(0), &UnaryNode{Op: genmath.Sin, Child: u.Clone()})
	case genmath.Tan:
		outer = div(Const(1), &UnaryNode{Op: genmath.Square, Child: &UnaryNode{Op: genmath.Cos, Child: u.Clone()}})
	case genmath.Asin:
		outer = div(Const(1), &UnaryNode{Op: genmath.Sqrt, Child: sub(Const(1), &UnaryNode{Op: genmath.Square, Child: u.Clone()})})
	case genmath.Acos:
		outer = div(Const(-1), &UnaryNode{Op: genmath.Sqrt, Child: sub(Const(1), &UnaryNode{Op: genmath.Square, Child: u.Clone()})})
	case genmath.Atan:
		outer = div(Const(1), add(Const(1), &UnaryNode{Op: genmath.Square, Child: u.Clone()}))
	default:
		return Const(math.NaN())
	}
	return mul(outer, du)
}

func deriveBinary(n *BinaryNode) Node {
	a, b := n.Left, n.Right
	da, db := derive(a), derive(b)
	switch n.Op {
	case genmath.Add:
		return add(da, db)
	case genmath.Sub:
		return sub(da, db)
	case genmath.Mul:
		return add(mul(da, b.Clone()), mul(a.Clone(), db))
	case genmath.Div:
		num := sub(mul(da, b.Clone()), mul(a.Clone(), db))
		return div(num, &UnaryNode{Op: genmath.Square, Child: b.Clone()})
	case genmath.Pow:
		if c, ok := b.(*ConstNode); ok {
			// c * a^(c-1) * a'
			return mul(mul(Const(c.Val), pow(a.Clone(), Const(c.Val-1))), da)
		}
		// a^b * (b' ln(a) + b a'/a)
		inner := add(
			mul(db, &UnaryNode{Op: genmath.Ln, Child: a.Clone()}),
			div(mul(b.Clone(), da), a.Clone()),
		)
		return mul(n.Clone(), inner)
	case genmath.Max, genmath.Min:
		// ((a'+b') +/- (a'-b') * sign(a-b)) / 2
		diff := sub(a.Clone(), b.Clone())
		sign := div(diff, &UnaryNode{Op: genmath.Abs, Child: diff.Clone()})
		term := mul(sub(da.Clone(), db.Clone()), sign)
		if n.Op == genmath.Max {
			return div(add(add(da, db), term), Const(2))
		}
		return div(sub(add(da, db), term), Const(2))
	}
	return Const(math.NaN())
}

func add(l, r Node) Node { return &BinaryNode{Op: genmath.Add, Left: l, Right: r} }
func sub(l, r Node) Node { return &BinaryNode{Op: genmath.Sub, Left: l, Right: r} }
func mul(l, r Node) Node { return &BinaryNode{Op: genmath.Mul, Left: l, Right: r} }
func div(l, r Node) Node { return &BinaryNode{Op: genmath.Div, Left: l, Right: r} }
func pow(l, r Node) Node { return &BinaryNode{Op: genmath.Pow, Left: l, Right: r} }
