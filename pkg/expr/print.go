package expr

import (
	"strconv"
	"strings"

	"github.com/wildfunctions/genetix/pkg/genmath"
)

// String methods produce the text format that Parse reads back.

func (v *VarNode) String() string {
	return v.name()
}

func (c *ConstNode) String() string {
	return strconv.FormatFloat(c.Val, 'g', -1, 64)
}

func (u *UnaryNode) String() string {
	child := u.Child.String()
	switch {
	case genmath.PowerOf(u.Op) > 0:
		return "(" + child + ")^" + string(u.Op)
	case u.Op == genmath.Exp:
		return "e^(" + child + ")"
	default:
		return genmath.Name(u.Op) + "(" + child + ")"
	}
}

func (b *BinaryNode) String() string {
	left := b.Left.String()
	right := b.Right.String()
	if name := genmath.Name(b.Op); name != "" {
		return name + "(" + left + ", " + right + ")"
	}
	return "(" + left + " " + string(b.Op) + " " + right + ")"
}

// Symbols returns the operator symbols of node in pre-order, "x" for the
// variable and "#" for constants. It is a compact shape signature.
func Symbols(node Node) string {
	var sb strings.Builder
	var walk func(Node)
	walk = func(n Node) {
		switch n := n.(type) {
		case *VarNode:
			sb.WriteByte('x')
		case *ConstNode:
			sb.WriteByte('#')
		case *UnaryNode:
			sb.WriteByte(n.Op)
			walk(n.Child)
		case *BinaryNode:
			sb.WriteByte(n.Op)
			walk(n.Left)
			walk(n.Right)
		}
	}
	walk(node)
	return sb.String()
}
